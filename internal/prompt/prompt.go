package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
)

// Terminal renders prompts on the controlling terminal.
type Terminal struct{}

// NewTerminal creates the interactive prompt collaborator.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Input asks for one line of text. The answer may be empty; required-ness
// is the caller's policy.
func (t *Terminal) Input(ctx context.Context, title string) (string, error) {
	var value string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Value(&value),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// PickTeam asks which Linear team new issues should go to.
func (t *Terminal) PickTeam(ctx context.Context, teams []linear.Team) (linear.Team, error) {
	options := make([]huh.Option[string], len(teams))
	byID := make(map[string]linear.Team, len(teams))
	for i, team := range teams {
		options[i] = huh.NewOption(fmt.Sprintf("%s — %s", team.Key, team.Name), team.ID)
		byID[team.ID] = team
	}

	var teamID string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Which team do your issues belong to?").
			Options(options...).
			Value(&teamID),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return linear.Team{}, ErrCancelled
		}
		return linear.Team{}, fmt.Errorf("selecting team: %w", err)
	}
	return byID[teamID], nil
}

// PickIssue shows the issue menu. The "create a new issue" entry is always
// present, even for an empty list; allowQuery additionally lets the user
// type free text, returned as a PickedQuery result.
func (t *Terminal) PickIssue(ctx context.Context, title string, issues []linear.Issue, allowQuery bool) (Pick, error) {
	return runPicker(ctx, title, issues, allowQuery)
}
