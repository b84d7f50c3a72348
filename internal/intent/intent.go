// Package intent classifies raw CLI input into the action the user meant.
package intent

import "strings"

// Kind discriminates the Intent union.
type Kind int

const (
	// Interactive browses assigned and recent issues in a menu.
	Interactive Kind = iota
	// Direct looks up a single issue by identifier.
	Direct
	// Search looks up issues by free text.
	Search
	// Create creates a new issue.
	Create
	// Auto decides between Direct and Create from the argument shape.
	Auto
)

func (k Kind) String() string {
	switch k {
	case Interactive:
		return "interactive"
	case Direct:
		return "direct"
	case Search:
		return "search"
	case Create:
		return "create"
	case Auto:
		return "auto"
	}
	return "unknown"
}

// Intent is the classified user request. Arg carries the issue identifier
// (Direct), query (Search), or optional title (Create, Auto); "" means the
// user supplied nothing.
type Intent struct {
	Kind Kind
	Arg  string
}

// Flags are the recognized CLI flags feeding classification.
type Flags struct {
	Auto   bool
	Create bool
}

// Classify maps flags and positional arguments to an Intent. First match
// wins; Auto deliberately takes precedence over Create when both are set.
func Classify(flags Flags, args []string) Intent {
	joined := strings.TrimSpace(strings.Join(args, " "))

	switch {
	case flags.Auto:
		return Intent{Kind: Auto, Arg: joined}
	case flags.Create:
		return Intent{Kind: Create, Arg: joined}
	case joined == "":
		return Intent{Kind: Interactive}
	default:
		return Intent{Kind: Search, Arg: joined}
	}
}
