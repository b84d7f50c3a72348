package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/type-dot-com/homebrew-linear-branch/internal/config"
	"github.com/type-dot-com/homebrew-linear-branch/internal/intent"
	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
)

// fakeGit records every git interaction.
type fakeGit struct {
	branch   string
	userName string
	ops      []string
}

func (g *fakeGit) CurrentBranch(ctx context.Context) (string, error) {
	return g.branch, nil
}

func (g *fakeGit) Pull(ctx context.Context, remote, branch string) error {
	g.ops = append(g.ops, fmt.Sprintf("pull %s %s", remote, branch))
	return nil
}

func (g *fakeGit) CreateBranch(ctx context.Context, name string) error {
	g.ops = append(g.ops, "create "+name)
	g.branch = name
	return nil
}

func (g *fakeGit) RenameBranch(ctx context.Context, name string) error {
	g.ops = append(g.ops, "rename "+name)
	g.branch = name
	return nil
}

func (g *fakeGit) UserName(ctx context.Context) (string, error) {
	return g.userName, nil
}

// memStore is an in-memory team cache.
type memStore struct {
	cfg *config.TeamConfig
}

func (m *memStore) Load() *config.TeamConfig { return m.cfg }

func (m *memStore) Save(cfg config.TeamConfig) error {
	m.cfg = &cfg
	return nil
}

// trackerServer answers the GraphQL operations the pipeline issues and
// counts requests. It serves one fixed issue, ENG-142.
func trackerServer(t *testing.T, requests *atomic.Int64, updates *[]map[string]any) *httptest.Server {
	t.Helper()
	issueJSON := `{"id":"uuid-142","identifier":"ENG-142","title":"Fix login bug","url":"https://linear.app/acme/issue/ENG-142","state":{"id":"s-todo","name":"Todo","type":"unstarted"},"team":{"id":"team-1","key":"ENG","name":"Engineering"}}`

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var data string
		switch {
		case strings.Contains(req.Query, "issueUpdate"):
			*updates = append(*updates, req.Variables["input"].(map[string]any))
			data = `{"issueUpdate":{"success":true}}`
		case strings.Contains(req.Query, "states"):
			data = `{"team":{"states":{"nodes":[{"id":"s-todo","name":"Todo","type":"unstarted"},{"id":"s-prog","name":"In Progress","type":"started"}]}}}`
		case strings.Contains(req.Query, "viewer { id name email"):
			data = `{"viewer":{"id":"user-1","name":"Alice Johnson","email":"alice@example.com"}}`
		case strings.Contains(req.Query, "issue(id: $id) { url }"):
			data = `{"issue":{"url":"https://linear.app/acme/issue/ENG-142"}}`
		case strings.Contains(req.Query, "issue(id: $id)"):
			data = `{"issue":` + issueJSON + `}`
		default:
			t.Errorf("unexpected query: %s", req.Query)
			data = `null`
		}
		fmt.Fprintf(w, `{"data":%s}`, data)
	}))
}

func newTestApp(t *testing.T, git *fakeGit, store *memStore) (*App, *atomic.Int64, *[]map[string]any, *bytes.Buffer) {
	t.Helper()
	var requests atomic.Int64
	updates := &[]map[string]any{}
	srv := trackerServer(t, &requests, updates)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	a := &App{
		Tracker:    linear.NewClient("test-key").WithEndpoint(srv.URL),
		Git:        git,
		Teams:      store,
		Out:        out,
		Unattended: true,
	}
	return a, &requests, updates, out
}

func TestRunDirectFromMain(t *testing.T) {
	git := &fakeGit{branch: "main", userName: "Alice Johnson"}
	store := &memStore{cfg: &config.TeamConfig{TeamID: "team-1", TeamKey: "ENG"}}
	a, _, updates, out := newTestApp(t, git, store)

	// "ENG-142" classifies as search; the orchestrator upgrades it to a
	// direct lookup against the cached team key.
	err := a.Run(context.Background(), intent.Classify(intent.Flags{}, []string{"ENG-142"}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pull origin main",
		"create alice/ENG-142-fix-login-bug",
	}, git.ops)

	require.Len(t, *updates, 1)
	update := (*updates)[0]
	assert.Equal(t, "user-1", update["assigneeId"])
	assert.Equal(t, "s-prog", update["stateId"])

	summary := out.String()
	assert.Contains(t, summary, "ENG-142")
	assert.Contains(t, summary, "alice/ENG-142-fix-login-bug")
	assert.Contains(t, summary, "https://linear.app/acme/issue/ENG-142")
}

func TestRunRenamesOffDefaultBranch(t *testing.T) {
	git := &fakeGit{branch: "scratch-work", userName: "Alice Johnson"}
	store := &memStore{cfg: &config.TeamConfig{TeamID: "team-1", TeamKey: "ENG"}}
	a, _, _, _ := newTestApp(t, git, store)

	err := a.Run(context.Background(), intent.Intent{Kind: intent.Direct, Arg: "ENG-142"})
	require.NoError(t, err)

	assert.Equal(t, []string{"rename alice/ENG-142-fix-login-bug"}, git.ops)
}

func TestRunAlreadyLinkedIsANoOp(t *testing.T) {
	git := &fakeGit{branch: "alice/ENG-9-old-work", userName: "Alice Johnson"}
	a, requests, _, out := newTestApp(t, git, &memStore{})

	err := a.Run(context.Background(), intent.Intent{Kind: intent.Interactive})
	require.NoError(t, err)

	assert.Zero(t, requests.Load(), "no tracker calls on an already-linked branch")
	assert.Empty(t, git.ops, "no git mutations on an already-linked branch")
	assert.Contains(t, out.String(), "ENG-9")
}

func TestRunUnattendedUsesCIName(t *testing.T) {
	git := &fakeGit{branch: "main", userName: ""}
	store := &memStore{cfg: &config.TeamConfig{TeamID: "team-1", TeamKey: "ENG"}}
	a, _, _, _ := newTestApp(t, git, store)

	err := a.Run(context.Background(), intent.Intent{Kind: intent.Auto, Arg: "ENG-142"})
	require.NoError(t, err)

	assert.Contains(t, git.ops, "create ci/ENG-142-fix-login-bug")
}

func TestInProgressStateID(t *testing.T) {
	exact := []linear.WorkflowState{
		{ID: "a", Name: "Doing", Type: "started"},
		{ID: "b", Name: "In Progress", Type: "started"},
	}
	got := inProgressStateID(exact)
	require.NotNil(t, got)
	assert.Equal(t, "b", *got)

	fuzzy := []linear.WorkflowState{
		{ID: "a", Name: "Todo", Type: "unstarted"},
		{ID: "b", Name: "Work in progress", Type: "started"},
	}
	got = inProgressStateID(fuzzy)
	require.NotNil(t, got)
	assert.Equal(t, "b", *got)

	// A started state without "progress" in its name does not count.
	none := []linear.WorkflowState{
		{ID: "a", Name: "Doing", Type: "started"},
		{ID: "b", Name: "Done", Type: "completed"},
	}
	assert.Nil(t, inProgressStateID(none))
}

func TestUpgradeSearchOnlyTouchesSearchIntents(t *testing.T) {
	a := &App{Teams: &memStore{cfg: &config.TeamConfig{TeamID: "t", TeamKey: "ENG"}}}

	in := a.upgradeSearch(intent.Intent{Kind: intent.Search, Arg: "ENG-1"})
	assert.Equal(t, intent.Intent{Kind: intent.Direct, Arg: "ENG-1"}, in)

	in = a.upgradeSearch(intent.Intent{Kind: intent.Search, Arg: "fix bug"})
	assert.Equal(t, intent.Intent{Kind: intent.Search, Arg: "fix bug"}, in)

	in = a.upgradeSearch(intent.Intent{Kind: intent.Create, Arg: "ENG-1"})
	assert.Equal(t, intent.Intent{Kind: intent.Create, Arg: "ENG-1"}, in)
}
