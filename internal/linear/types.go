package linear

// User is a Linear user. IsMe is set by the API when the user is the
// viewer behind the API key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	IsMe  bool   `json:"isMe"`
}

// Team is a Linear team. Key is the short prefix in issue identifiers
// (the "ENG" in ENG-142).
type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// WorkflowState is a named, typed status within a team's workflow.
// Type is one of Linear's state categories: "triage", "backlog",
// "unstarted", "started", "completed", "canceled".
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Issue is the slice of a Linear issue this tool works with.
type Issue struct {
	ID         string         `json:"id"`
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	State      *WorkflowState `json:"state"`
	Assignee   *User          `json:"assignee"`
	Team       *Team          `json:"team"`
}

// StateName returns the issue's workflow state name, or "" when unknown.
func (i *Issue) StateName() string {
	if i.State == nil {
		return ""
	}
	return i.State.Name
}
