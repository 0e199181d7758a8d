package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Killavus/devcert/ui"
)

// Confirm asks a yes/no question. The answer is sent on ChoiceCh; Esc
// closes CancelCh instead.
type Confirm struct {
	Prompt  string
	Default bool

	ChoiceCh chan<- bool
	CancelCh chan<- struct{}

	answer    *bool
	cancelled bool
}

func (m *Confirm) Init() tea.Cmd { return nil }

func (m *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.answer != nil || m.cancelled {
		return m, nil
	}

	switch key.Type {
	case tea.KeyEnter:
		return m, m.choose(m.Default)
	case tea.KeyEsc:
		m.cancelled = true
		if m.CancelCh != nil {
			close(m.CancelCh)
			m.CancelCh = nil
		}
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y", "yes":
			return m, m.choose(true)
		case "n", "no":
			return m, m.choose(false)
		}
	}
	return m, nil
}

func (m *Confirm) choose(answer bool) tea.Cmd {
	m.answer = &answer
	if m.ChoiceCh != nil {
		m.ChoiceCh <- answer
		close(m.ChoiceCh)
		m.ChoiceCh = nil
	}
	return tea.Quit
}

func (m *Confirm) View() string {
	var b strings.Builder

	switch {
	case m.cancelled:
		fmt.Fprintln(&b, ui.StepAlert(fmt.Sprintf("%s %s", m.Prompt, ui.Whisper("cancelled"))))
	case m.answer != nil:
		fmt.Fprintln(&b, ui.StepDone(fmt.Sprintf("%s %s", m.Prompt, ui.Emphasize(yesNo(*m.answer)))))
	default:
		hint := "(y/N)"
		if m.Default {
			hint = "(Y/n)"
		}
		fmt.Fprintln(&b, ui.StepPrompt(fmt.Sprintf("%s %s", m.Prompt, ui.Whisper(hint))))
	}

	return b.String()
}

func yesNo(answer bool) string {
	if answer {
		return "yes"
	}
	return "no"
}
