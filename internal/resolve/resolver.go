// Package resolve turns a classified intent into exactly one Linear issue,
// looking it up, searching for it, or creating it as needed.
package resolve

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/type-dot-com/homebrew-linear-branch/internal/config"
	"github.com/type-dot-com/homebrew-linear-branch/internal/intent"
	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
	"github.com/type-dot-com/homebrew-linear-branch/internal/prompt"
)

const (
	searchLimit = 10
	// Interactive menu composition: up to 3 of my open issues, then
	// recent unassigned issues (fetched 6, at most 3 shown after dedup).
	todoLimit      = 3
	recentLimit    = 6
	maxRecentShown = 3
)

// Tracker is the slice of the Linear API the resolver needs.
type Tracker interface {
	IssueByID(ctx context.Context, identifier string) (*linear.Issue, error)
	SearchIssues(ctx context.Context, query string, limit int) ([]linear.Issue, error)
	CreateIssue(ctx context.Context, teamID, title string) (*linear.Issue, error)
	Teams(ctx context.Context) ([]linear.Team, error)
	MyIssues(ctx context.Context, limit int) ([]linear.Issue, error)
	RecentIssues(ctx context.Context, limit int) ([]linear.Issue, error)
}

// Prompter is the interactive collaborator.
type Prompter interface {
	Input(ctx context.Context, title string) (string, error)
	PickTeam(ctx context.Context, teams []linear.Team) (linear.Team, error)
	PickIssue(ctx context.Context, title string, issues []linear.Issue, allowQuery bool) (prompt.Pick, error)
}

// TeamStore is the cached team selection.
type TeamStore interface {
	Load() *config.TeamConfig
	Save(config.TeamConfig) error
}

// UsageError is a bad or missing argument.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// ValidationError is required input left empty.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

var genericIDPattern = regexp.MustCompile(`^[A-Z]+-\d+$`)

// IssueIDPattern returns the pattern recognizing issue identifiers:
// anchored to the team key when one is cached, generic otherwise.
func IssueIDPattern(teamKey string) *regexp.Regexp {
	if teamKey == "" {
		return genericIDPattern
	}
	return regexp.MustCompile(`^` + regexp.QuoteMeta(teamKey) + `-\d+$`)
}

// Resolver resolves an Intent to a single issue.
type Resolver struct {
	Tracker Tracker
	Prompt  Prompter
	Teams   TeamStore
	// Unattended suppresses every prompt; flows that would block fail
	// loudly instead.
	Unattended bool
}

// Resolve produces the one issue the run will link to.
func (r *Resolver) Resolve(ctx context.Context, in intent.Intent) (*linear.Issue, error) {
	switch in.Kind {
	case intent.Direct:
		return r.Tracker.IssueByID(ctx, in.Arg)
	case intent.Create:
		return r.create(ctx, in.Arg)
	case intent.Auto:
		return r.auto(ctx, in.Arg)
	case intent.Search:
		return r.search(ctx, in.Arg)
	case intent.Interactive:
		return r.interactive(ctx)
	}
	return nil, fmt.Errorf("unhandled intent %v", in.Kind)
}

// idPattern builds the identifier pattern from the currently cached team.
func (r *Resolver) idPattern() *regexp.Regexp {
	var key string
	if cfg := r.Teams.Load(); cfg != nil {
		key = cfg.TeamKey
	}
	return IssueIDPattern(key)
}

func (r *Resolver) auto(ctx context.Context, arg string) (*linear.Issue, error) {
	if arg == "" {
		return nil, &UsageError{Msg: "--auto needs an issue identifier or a title for a new issue"}
	}
	if r.idPattern().MatchString(arg) {
		return r.Tracker.IssueByID(ctx, arg)
	}
	return r.create(ctx, arg)
}

func (r *Resolver) search(ctx context.Context, query string) (*linear.Issue, error) {
	if r.idPattern().MatchString(query) {
		return r.Tracker.IssueByID(ctx, query)
	}

	results, err := r.Tracker.SearchIssues(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	// The picker runs even with zero results, so the "create a new
	// issue" escape is always one keypress away.
	pick, err := r.Prompt.PickIssue(ctx, fmt.Sprintf("Issues matching %q", query), results, false)
	if err != nil {
		return nil, err
	}
	switch pick.Kind {
	case prompt.PickedCreate:
		return r.create(ctx, "")
	default:
		return &pick.Issue, nil
	}
}

func (r *Resolver) interactive(ctx context.Context) (*linear.Issue, error) {
	var todos, recents []linear.Issue

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todos, err = r.Tracker.MyIssues(gctx, todoLimit)
		return err
	})
	g.Go(func() error {
		var err error
		recents, err = r.Tracker.RecentIssues(gctx, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	menu := mergeMenu(todos, recents)
	pick, err := r.Prompt.PickIssue(ctx, "What are you working on?", menu, true)
	if err != nil {
		return nil, err
	}
	switch pick.Kind {
	case prompt.PickedQuery:
		return r.search(ctx, pick.Query)
	case prompt.PickedCreate:
		return r.create(ctx, "")
	default:
		return &pick.Issue, nil
	}
}

// mergeMenu combines my open issues with recent unassigned ones, dropping
// duplicates by identifier and showing at most maxRecentShown recents.
func mergeMenu(todos, recents []linear.Issue) []linear.Issue {
	menu := make([]linear.Issue, 0, len(todos)+maxRecentShown)
	seen := make(map[string]bool, len(todos))
	for _, issue := range todos {
		menu = append(menu, issue)
		seen[issue.Identifier] = true
	}

	shown := 0
	for _, issue := range recents {
		if shown >= maxRecentShown {
			break
		}
		if seen[issue.Identifier] {
			continue
		}
		menu = append(menu, issue)
		seen[issue.Identifier] = true
		shown++
	}
	return menu
}

func (r *Resolver) create(ctx context.Context, title string) (*linear.Issue, error) {
	if title == "" {
		if r.Unattended {
			return nil, &ValidationError{Msg: "an issue title is required"}
		}
		var err error
		title, err = r.Prompt.Input(ctx, "What should the issue be called?")
		if err != nil {
			return nil, err
		}
		if title == "" {
			return nil, &ValidationError{Msg: "an issue title is required"}
		}
	}

	teamID, err := r.teamID(ctx)
	if err != nil {
		return nil, err
	}
	return r.Tracker.CreateIssue(ctx, teamID, title)
}

// teamID returns the cached team, running team selection on a miss.
func (r *Resolver) teamID(ctx context.Context) (string, error) {
	if cfg := r.Teams.Load(); cfg != nil {
		return cfg.TeamID, nil
	}

	if r.Unattended {
		return "", &UsageError{Msg: "no team selected yet; run once without --auto to pick one"}
	}

	teams, err := r.Tracker.Teams(ctx)
	if err != nil {
		return "", err
	}
	if len(teams) == 0 {
		return "", fmt.Errorf("your Linear workspace has no teams")
	}

	team, err := r.Prompt.PickTeam(ctx, teams)
	if err != nil {
		return "", err
	}
	if err := r.Teams.Save(config.TeamConfig{TeamID: team.ID, TeamKey: team.Key}); err != nil {
		return "", fmt.Errorf("caching team selection: %w", err)
	}
	return team.ID, nil
}
