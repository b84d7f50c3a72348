// Package linear is a minimal client for the Linear GraphQL API, covering
// just the operations branch linking needs: issue lookup, search, create,
// update, and the team/workflow metadata around them.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIEndpoint is the public Linear GraphQL endpoint.
const DefaultAPIEndpoint = "https://api.linear.app/graphql"

// DefaultTimeout bounds a single API round trip.
const DefaultTimeout = 30 * time.Second

// issueFields is the fragment body shared by every issue-returning operation.
const issueFields = `id identifier title url state { id name type } assignee { id name isMe } team { id key name }`

// Client calls the Linear GraphQL API. Linear authenticates personal API
// keys as the raw Authorization header value, without a Bearer prefix.
type Client struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

// NewClient creates a client with the default endpoint and timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:   apiKey,
		Endpoint: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithEndpoint returns a copy of the client pointed at a custom endpoint.
func (c *Client) WithEndpoint(endpoint string) *Client {
	return &Client{
		APIKey:     c.APIKey,
		Endpoint:   endpoint,
		HTTPClient: c.HTTPClient,
	}
}

// WithHTTPClient returns a copy of the client using a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		APIKey:     c.APIKey,
		Endpoint:   c.Endpoint,
		HTTPClient: httpClient,
	}
}

// RequestError is a non-2xx HTTP response from the API.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("linear: API returned HTTP %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// GraphQLError is a 2xx response carrying a populated errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "linear: " + strings.Join(e.Messages, "; ")
}

// NotFoundError is an issue lookup that matched nothing.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("linear: issue %q not found", e.Identifier)
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// do issues one GraphQL POST and unmarshals the data field into out.
// A non-2xx status, a populated errors array, and a missing data field
// are each surfaced as distinct errors.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("linear: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("linear: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var gql gqlResponse
	if err := json.Unmarshal(respBody, &gql); err != nil {
		return fmt.Errorf("linear: decoding response: %w", err)
	}
	if len(gql.Errors) > 0 {
		msgs := make([]string, len(gql.Errors))
		for i, e := range gql.Errors {
			msgs[i] = e.Message
		}
		return &GraphQLError{Messages: msgs}
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return fmt.Errorf("linear: response has no data")
	}

	if out != nil {
		if err := json.Unmarshal(gql.Data, out); err != nil {
			return fmt.Errorf("linear: decoding data: %w", err)
		}
	}
	return nil
}

// Viewer returns the user behind the API key.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var data struct {
		Viewer User `json:"viewer"`
	}
	err := c.do(ctx, `query { viewer { id name email } }`, nil, &data)
	if err != nil {
		return nil, err
	}
	data.Viewer.IsMe = true
	return &data.Viewer, nil
}

// IssueByID fetches one issue by identifier (e.g. "ENG-142"). Returns
// NotFoundError when the identifier matches nothing.
func (c *Client) IssueByID(ctx context.Context, identifier string) (*Issue, error) {
	var data struct {
		Issue *Issue `json:"issue"`
	}
	query := fmt.Sprintf(`query($id: String!) { issue(id: $id) { %s } }`, issueFields)
	err := c.do(ctx, query, map[string]any{"id": identifier}, &data)
	if err != nil {
		// Linear reports unknown identifiers as a GraphQL error rather
		// than a null issue; fold both shapes into NotFoundError.
		if isNotFoundMessage(err) {
			return nil, &NotFoundError{Identifier: identifier}
		}
		return nil, err
	}
	if data.Issue == nil {
		return nil, &NotFoundError{Identifier: identifier}
	}
	return data.Issue, nil
}

func isNotFoundMessage(err error) bool {
	gqlErr, ok := err.(*GraphQLError)
	if !ok {
		return false
	}
	for _, m := range gqlErr.Messages {
		if strings.Contains(strings.ToLower(m), "not found") {
			return true
		}
	}
	return false
}

// SearchIssues runs a free-text search, returning at most limit issues.
func (c *Client) SearchIssues(ctx context.Context, query string, limit int) ([]Issue, error) {
	var data struct {
		IssueSearch struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issueSearch"`
	}
	q := fmt.Sprintf(`query($query: String!, $first: Int!) { issueSearch(query: $query, first: $first) { nodes { %s } } }`, issueFields)
	err := c.do(ctx, q, map[string]any{"query": query, "first": limit}, &data)
	if err != nil {
		return nil, err
	}
	return data.IssueSearch.Nodes, nil
}

// CreateIssue creates an issue with the given title on a team.
func (c *Client) CreateIssue(ctx context.Context, teamID, title string) (*Issue, error) {
	var data struct {
		IssueCreate struct {
			Success bool   `json:"success"`
			Issue   *Issue `json:"issue"`
		} `json:"issueCreate"`
	}
	q := fmt.Sprintf(`mutation($teamId: String!, $title: String!) { issueCreate(input: { teamId: $teamId, title: $title }) { success issue { %s } } }`, issueFields)
	err := c.do(ctx, q, map[string]any{"teamId": teamID, "title": title}, &data)
	if err != nil {
		return nil, err
	}
	if !data.IssueCreate.Success || data.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("linear: issue creation reported failure")
	}
	return data.IssueCreate.Issue, nil
}

// IssueUpdate is the set of fields UpdateIssue may change. Nil fields are
// omitted from the mutation input.
type IssueUpdate struct {
	AssigneeID *string
	StateID    *string
}

// UpdateIssue applies an assignee/state update to an issue by internal ID.
// The call is issued even when the update is empty.
func (c *Client) UpdateIssue(ctx context.Context, issueID string, update IssueUpdate) error {
	input := map[string]any{}
	if update.AssigneeID != nil {
		input["assigneeId"] = *update.AssigneeID
	}
	if update.StateID != nil {
		input["stateId"] = *update.StateID
	}

	var data struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	q := `mutation($id: String!, $input: IssueUpdateInput!) { issueUpdate(id: $id, input: $input) { success } }`
	err := c.do(ctx, q, map[string]any{"id": issueID, "input": input}, &data)
	if err != nil {
		return err
	}
	if !data.IssueUpdate.Success {
		return fmt.Errorf("linear: issue update reported failure")
	}
	return nil
}

// Teams lists the workspace's teams.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var data struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	err := c.do(ctx, `query { teams { nodes { id key name } } }`, nil, &data)
	if err != nil {
		return nil, err
	}
	return data.Teams.Nodes, nil
}

// TeamStates lists a team's workflow states.
func (c *Client) TeamStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	var data struct {
		Team struct {
			States struct {
				Nodes []WorkflowState `json:"nodes"`
			} `json:"states"`
		} `json:"team"`
	}
	q := `query($id: String!) { team(id: $id) { states { nodes { id name type } } } }`
	err := c.do(ctx, q, map[string]any{"id": teamID}, &data)
	if err != nil {
		return nil, err
	}
	return data.Team.States.Nodes, nil
}

// MyIssues returns the viewer's open assigned issues, newest first.
func (c *Client) MyIssues(ctx context.Context, limit int) ([]Issue, error) {
	var data struct {
		Viewer struct {
			AssignedIssues struct {
				Nodes []Issue `json:"nodes"`
			} `json:"assignedIssues"`
		} `json:"viewer"`
	}
	q := fmt.Sprintf(`query($first: Int!) { viewer { assignedIssues(first: $first, filter: { state: { type: { nin: ["completed", "canceled"] } } }) { nodes { %s } } } }`, issueFields)
	err := c.do(ctx, q, map[string]any{"first": limit}, &data)
	if err != nil {
		return nil, err
	}
	return data.Viewer.AssignedIssues.Nodes, nil
}

// RecentIssues returns recently created issues with no assignee.
func (c *Client) RecentIssues(ctx context.Context, limit int) ([]Issue, error) {
	var data struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}
	q := fmt.Sprintf(`query($first: Int!) { issues(first: $first, orderBy: createdAt, filter: { assignee: { null: true } }) { nodes { %s } } }`, issueFields)
	err := c.do(ctx, q, map[string]any{"first": limit}, &data)
	if err != nil {
		return nil, err
	}
	return data.Issues.Nodes, nil
}

// IssueURL fetches an issue's canonical web URL by internal ID.
func (c *Client) IssueURL(ctx context.Context, issueID string) (string, error) {
	var data struct {
		Issue struct {
			URL string `json:"url"`
		} `json:"issue"`
	}
	q := `query($id: String!) { issue(id: $id) { url } }`
	err := c.do(ctx, q, map[string]any{"id": issueID}, &data)
	if err != nil {
		return "", err
	}
	return data.Issue.URL, nil
}
