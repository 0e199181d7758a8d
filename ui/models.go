package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Error is a user facing failure. Model renders the failure before the
// command exits.
type Error struct {
	tea.Model

	Err error // reported error
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error { return e.Err }

// Failure returns an Error rendered as a danger header followed by hints.
func Failure(header string, err error, hints ...string) Error {
	lines := MessageLines{
		Header(fmt.Sprintf("%s %s", Danger("Error!"), header)),
	}
	for _, hint := range hints {
		lines = append(lines, StepHint(hint))
	}

	return Error{
		Model: lines,
		Err:   err,
	}
}

type MessageLines []string

func (MessageLines) Init() tea.Cmd { return nil }

func (m MessageLines) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

func (m MessageLines) View() string {
	var b strings.Builder
	for _, line := range m {
		fmt.Fprintln(&b, line)
	}
	return b.String()
}
