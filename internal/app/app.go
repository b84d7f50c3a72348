// Package app sequences one branch-link run: guard against an existing
// link, resolve the issue, move it to in-progress under the current user,
// and create or rename the branch.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/type-dot-com/homebrew-linear-branch/internal/branch"
	"github.com/type-dot-com/homebrew-linear-branch/internal/intent"
	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
	"github.com/type-dot-com/homebrew-linear-branch/internal/resolve"
)

// inProgressName is the workflow state we move linked issues to.
const inProgressName = "In Progress"

// Tracker is everything the orchestrator and resolver need from Linear.
type Tracker interface {
	resolve.Tracker
	Viewer(ctx context.Context) (*linear.User, error)
	TeamStates(ctx context.Context, teamID string) ([]linear.WorkflowState, error)
	UpdateIssue(ctx context.Context, issueID string, update linear.IssueUpdate) error
	IssueURL(ctx context.Context, issueID string) (string, error)
}

// GitClient is the git collaborator.
type GitClient interface {
	CurrentBranch(ctx context.Context) (string, error)
	Pull(ctx context.Context, remote, branch string) error
	CreateBranch(ctx context.Context, name string) error
	RenameBranch(ctx context.Context, name string) error
	UserName(ctx context.Context) (string, error)
}

// App wires the collaborators for one run.
type App struct {
	Tracker    Tracker
	Git        GitClient
	Prompt     resolve.Prompter
	Teams      resolve.TeamStore
	Out        io.Writer
	Unattended bool
}

// Run executes the whole pipeline for one classified intent. Every step
// failure aborts the run; a branch already linked to an issue is a
// successful no-op.
func (a *App) Run(ctx context.Context, in intent.Intent) error {
	gitName, err := a.shortName(ctx)
	if err != nil {
		return err
	}

	current, err := a.Git.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	if link := branch.DetectLink(current); link.Linked {
		fmt.Fprintf(a.Out, "Branch %s is already linked to %s — nothing to do.\n", current, link.IssueID)
		return nil
	}

	in = a.upgradeSearch(in)

	resolver := &resolve.Resolver{
		Tracker:    a.Tracker,
		Prompt:     a.Prompt,
		Teams:      a.Teams,
		Unattended: a.Unattended,
	}
	issue, err := resolver.Resolve(ctx, in)
	if err != nil {
		return err
	}

	viewer, stateID, err := a.fetchUpdateInputs(ctx, issue)
	if err != nil {
		return err
	}

	// The update is sent even when both fields end up absent, mirroring
	// long-standing behavior; see DESIGN.md.
	update := linear.IssueUpdate{StateID: stateID}
	if viewer != nil {
		update.AssigneeID = &viewer.ID
	}
	if err := a.Tracker.UpdateIssue(ctx, issue.ID, update); err != nil {
		return err
	}

	name := branch.Name(gitName, issue.Identifier, issue.Title)
	if err := a.switchBranch(ctx, current, name); err != nil {
		return err
	}

	a.printSummary(ctx, issue, name)
	return nil
}

// shortName resolves the branch-prefix name: git user.name's first name,
// "ci" when unattended, otherwise a prompt.
func (a *App) shortName(ctx context.Context) (string, error) {
	full, err := a.Git.UserName(ctx)
	if err != nil {
		return "", err
	}
	if name := branch.FirstName(full); name != "" {
		return name, nil
	}

	if a.Unattended {
		return "ci", nil
	}

	answer, err := a.Prompt.Input(ctx, "What's your first name?")
	if err != nil {
		return "", err
	}
	name := branch.FirstName(answer)
	if name == "" {
		return "", &resolve.ValidationError{Msg: "a name is required to build the branch prefix"}
	}
	return name, nil
}

// upgradeSearch promotes a search intent to a direct lookup when its query
// is already an issue identifier, saving the search round trip.
func (a *App) upgradeSearch(in intent.Intent) intent.Intent {
	if in.Kind != intent.Search {
		return in
	}
	var key string
	if cfg := a.Teams.Load(); cfg != nil {
		key = cfg.TeamKey
	}
	if resolve.IssueIDPattern(key).MatchString(in.Arg) {
		return intent.Intent{Kind: intent.Direct, Arg: in.Arg}
	}
	return in
}

// fetchUpdateInputs concurrently fetches the viewer identity and the
// issue team's in-progress state id. A team without a suitable state
// just skips the state part of the update.
func (a *App) fetchUpdateInputs(ctx context.Context, issue *linear.Issue) (*linear.User, *string, error) {
	var viewer *linear.User
	var stateID *string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		viewer, err = a.Tracker.Viewer(gctx)
		return err
	})
	g.Go(func() error {
		if issue.Team == nil {
			return nil
		}
		states, err := a.Tracker.TeamStates(gctx, issue.Team.ID)
		if err != nil {
			return err
		}
		stateID = inProgressStateID(states)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return viewer, stateID, nil
}

// inProgressStateID picks the state literally named "In Progress", else
// the first started-type state whose name mentions progress.
func inProgressStateID(states []linear.WorkflowState) *string {
	for _, s := range states {
		if s.Name == inProgressName {
			return &s.ID
		}
	}
	for _, s := range states {
		if s.Type == "started" && strings.Contains(strings.ToLower(s.Name), "progress") {
			return &s.ID
		}
	}
	return nil
}

// switchBranch creates the new branch off a freshly pulled default branch,
// or renames the current branch in place anywhere else.
func (a *App) switchBranch(ctx context.Context, current, name string) error {
	if current == "main" || current == "master" {
		if err := a.Git.Pull(ctx, "origin", current); err != nil {
			return err
		}
		return a.Git.CreateBranch(ctx, name)
	}
	return a.Git.RenameBranch(ctx, name)
}

func (a *App) printSummary(ctx context.Context, issue *linear.Issue, branchName string) {
	// The canonical URL fetch is best effort; fall back to whatever the
	// resolution step already returned.
	url := issue.URL
	if fetched, err := a.Tracker.IssueURL(ctx, issue.ID); err == nil && fetched != "" {
		url = fetched
	}

	s := summaryStyles()
	fmt.Fprintf(a.Out, "\n%s %s %s\n",
		s.ok.Render("✓"),
		s.identifier.Render(issue.Identifier),
		issue.Title,
	)
	fmt.Fprintf(a.Out, "  %s %s\n", s.label.Render("branch"), branchName)
	if url != "" {
		fmt.Fprintf(a.Out, "  %s %s\n", s.label.Render("issue "), url)
	}
	fmt.Fprintf(a.Out, "\n%s\n",
		s.hint.Render(fmt.Sprintf(`Mention the issue in commits: git commit -m "%s: ..."`, issue.Identifier)),
	)
}
