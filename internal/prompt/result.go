// Package prompt renders the interactive prompts: a one-line text input,
// a team select, and the issue picker menu. Cancelling any prompt yields
// ErrCancelled, which the command treats as a quiet exit rather than a
// failure.
package prompt

import (
	"errors"

	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
)

// ErrCancelled signals that the user aborted a prompt.
var ErrCancelled = errors.New("cancelled")

// PickKind discriminates what the picker returned.
type PickKind int

const (
	// PickedIssue means an issue was chosen; Pick.Issue is set.
	PickedIssue PickKind = iota
	// PickedCreate means the "create a new issue" escape was chosen.
	PickedCreate
	// PickedQuery means free text was typed; Pick.Query is set.
	PickedQuery
)

// Pick is the picker's result.
type Pick struct {
	Kind  PickKind
	Issue linear.Issue
	Query string
}
