package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/type-dot-com/homebrew-linear-branch/internal/linear"
)

// pickerMode represents the picker's input state
type pickerMode int

const (
	modeList pickerMode = iota
	modeQuery
)

// pickerModel is the Bubble Tea model behind the issue menu. The list
// always ends with a "create a new issue" escape entry; when allowQuery
// is set, typing any text switches to a free-text search input.
type pickerModel struct {
	title      string
	issues     []linear.Issue
	allowQuery bool

	keys   KeyMap
	styles Styles

	mode   pickerMode
	cursor int
	input  textinput.Model

	result    Pick
	done      bool
	cancelled bool
}

func newPicker(title string, issues []linear.Issue, allowQuery bool) pickerModel {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "search issues"
	ti.CharLimit = 200
	ti.Focus()

	return pickerModel{
		title:      title,
		issues:     issues,
		allowQuery: allowQuery,
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		input:      ti,
	}
}

// Init implements tea.Model
func (m pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Quit) {
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}

	if m.mode == modeQuery {
		return m.updateQuery(keyMsg)
	}
	return m.updateList(keyMsg)
}

func (m pickerModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The create entry sits one past the last issue.
	last := len(m.issues)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < last {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.cursor < len(m.issues) {
			m.result = Pick{Kind: PickedIssue, Issue: m.issues[m.cursor]}
		} else {
			m.result = Pick{Kind: PickedCreate}
		}
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case msg.Type == tea.KeyRunes && m.allowQuery:
		m.mode = modeQuery
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m pickerModel) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.input.SetValue("")
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			m.mode = modeList
			return m, nil
		}
		m.result = Pick{Kind: PickedQuery, Query: query}
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if strings.TrimSpace(m.input.Value()) == "" {
		// Deleting everything drops back to the list.
		m.mode = modeList
	}
	return m, cmd
}

// View implements tea.Model
func (m pickerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	if m.mode == modeQuery {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Hint.Render("↵ search · esc back"))
		b.WriteString("\n")
		return b.String()
	}

	for i, issue := range m.issues {
		m.renderItem(&b, i, fmt.Sprintf("%s  %s",
			m.styles.Identifier.Render(issue.Identifier),
			issue.Title,
		), issue.StateName())
	}
	m.renderItem(&b, len(m.issues), m.styles.CreateOption.Render("+ Create a new issue"), "")

	b.WriteString("\n")
	hint := "↑/↓ move · ↵ select · esc cancel"
	if m.allowQuery {
		hint += " · type to search"
	}
	b.WriteString(m.styles.Hint.Render(hint))
	b.WriteString("\n")
	return b.String()
}

func (m pickerModel) renderItem(b *strings.Builder, index int, label, state string) {
	cursor := "  "
	style := m.styles.NormalItem
	if index == m.cursor {
		cursor = m.styles.Cursor.Render("❯ ")
		style = m.styles.SelectedItem
	}
	b.WriteString(cursor)
	b.WriteString(style.Render(label))
	if state != "" {
		b.WriteString("  ")
		b.WriteString(m.styles.State.Render("(" + state + ")"))
	}
	b.WriteString("\n")
}

// runPicker runs the menu and maps cancellation to ErrCancelled.
func runPicker(ctx context.Context, title string, issues []linear.Issue, allowQuery bool) (Pick, error) {
	p := tea.NewProgram(newPicker(title, issues, allowQuery), tea.WithContext(ctx))
	out, err := p.Run()
	if err != nil {
		return Pick{}, fmt.Errorf("running picker: %w", err)
	}

	final, ok := out.(pickerModel)
	if !ok || final.cancelled || !final.done {
		return Pick{}, ErrCancelled
	}
	return final.result, nil
}
