package gitx

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a throwaway git repository with one commit.
func initRepo(t *testing.T) *Git {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	g := New(dir)
	ctx := context.Background()

	for _, args := range [][]string{
		{"init", "--initial-branch=main"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"commit", "--allow-empty", "-m", "init"},
	} {
		if _, err := g.run(ctx, args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return g
}

func TestCurrentBranchAndRepoRoot(t *testing.T) {
	g := initRepo(t)
	ctx := context.Background()

	name, err := g.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", name)

	root, err := g.RepoRoot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, root)
}

func TestCreateAndRenameBranch(t *testing.T) {
	g := initRepo(t)
	ctx := context.Background()

	require.NoError(t, g.CreateBranch(ctx, "alice/ENG-1-try-things"))
	name, err := g.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice/ENG-1-try-things", name)

	require.NoError(t, g.RenameBranch(ctx, "alice/ENG-2-renamed"))
	name, err = g.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice/ENG-2-renamed", name)
}

func TestCreateBranchCollision(t *testing.T) {
	g := initRepo(t)
	ctx := context.Background()

	require.NoError(t, g.CreateBranch(ctx, "alice/ENG-1-dup"))
	err := g.CreateBranch(ctx, "alice/ENG-1-dup")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.NotEmpty(t, exitErr.Stderr)
	assert.True(t, strings.HasPrefix(exitErr.Error(), "git switch"))
}

func TestUserName(t *testing.T) {
	g := initRepo(t)
	ctx := context.Background()

	name, err := g.UserName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test User", name)
}

func TestUserNameUnsetIsNotAnError(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	// A fresh repo without user.name configured locally may still inherit a
	// global value; point HOME somewhere empty to isolate the lookup.
	dir := t.TempDir()
	g := New(dir)
	ctx := context.Background()
	if _, err := g.run(ctx, "init"); err != nil {
		t.Fatalf("git init: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_CONFIG_SYSTEM", "/dev/null")

	name, err := g.UserName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}
