// Package branch derives and inspects the branch names this tool manages.
//
// A managed branch looks like "alice/ENG-142-fix-login-bug": the owner's
// short name, the issue identifier, and a slug of the issue title.
package branch

import (
	"fmt"
	"regexp"
	"strings"
)

// linkPattern matches branches previously created by this tool and captures
// the issue identifier.
var linkPattern = regexp.MustCompile(`^[a-z]+/([A-Z]+-[0-9]+)-[a-z0-9-]+$`)

// maxSlugWords caps how much of an issue title ends up in the branch name.
const maxSlugWords = 5

// Link reports whether a branch is already tied to an issue.
type Link struct {
	Linked  bool
	IssueID string
}

// DetectLink pattern-matches a branch name against the managed-branch shape.
func DetectLink(branchName string) Link {
	m := linkPattern.FindStringSubmatch(branchName)
	if m == nil {
		return Link{}
	}
	return Link{Linked: true, IssueID: m[1]}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9 ]`)

// Slugify turns an issue title into a branch-safe slug: lower-cased,
// punctuation stripped, at most maxSlugWords words joined with hyphens.
// Never fails; an empty or all-punctuation title yields "".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "")
	words := strings.Fields(s)
	if len(words) > maxSlugWords {
		words = words[:maxSlugWords]
	}
	return strings.Join(words, "-")
}

// FirstName extracts the first token of a full name, lower-cased.
// Returns "" for empty input; callers decide the fallback.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// Name builds the branch name for an issue: <gitname>/<identifier>-<slug>.
func Name(gitName, identifier, title string) string {
	return fmt.Sprintf("%s/%s-%s", gitName, identifier, Slugify(title))
}
