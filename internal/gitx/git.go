// Package gitx wraps the git subprocess calls branch linking needs.
package gitx

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExitError is a git invocation that exited non-zero, carrying what git
// wrote to stderr.
type ExitError struct {
	Args   []string
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "exited with an error"
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

// Git runs git commands in a fixed working directory. An empty Dir uses
// the process working directory.
type Git struct {
	Dir string
}

// New creates a Git bound to dir.
func New(dir string) *Git {
	return &Git{Dir: dir}
}

// run executes git with args and returns trimmed stdout.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", &ExitError{Args: args, Stderr: stderr.String()}
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// RepoRoot returns the absolute path of the repository root.
func (g *Git) RepoRoot(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--show-toplevel")
}

// Pull fetches and merges branch from remote, quietly.
func (g *Git) Pull(ctx context.Context, remote, branch string) error {
	_, err := g.run(ctx, "pull", "--quiet", remote, branch)
	return err
}

// CreateBranch creates and switches to a new branch.
func (g *Git) CreateBranch(ctx context.Context, name string) error {
	_, err := g.run(ctx, "switch", "-c", name)
	return err
}

// RenameBranch renames the current branch in place.
func (g *Git) RenameBranch(ctx context.Context, name string) error {
	_, err := g.run(ctx, "branch", "-m", name)
	return err
}

// UserName returns the configured git user.name, or "" when unset.
func (g *Git) UserName(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "config", "user.name")
	if err != nil {
		// git config exits 1 when the key is simply unset.
		return "", nil
	}
	return out, nil
}
