package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Killavus/devcert/ui"
)

func AddHeader(host, profile string) ui.MessageLines {
	return ui.MessageLines{
		ui.Header(fmt.Sprintf("Issue certificate for %s %s", ui.Emphasize(host), ui.Whisper(fmt.Sprintf("(profile %s)", profile)))),
	}
}

type (
	LeafReplacingMsg struct{}

	LeafSavedMsg struct {
		CertPath, KeyPath string

		NotAfter time.Time
	}
)

type LeafIssue struct {
	Host string

	replacing bool
	saved     *LeafSavedMsg

	spinner spinner.Model
}

func (m *LeafIssue) Init() tea.Cmd {
	m.spinner = ui.WaitingSpinner()

	return m.spinner.Tick
}

func (m *LeafIssue) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LeafReplacingMsg:
		m.replacing = true
		return m, nil
	case LeafSavedMsg:
		m.saved = &msg
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *LeafIssue) View() string {
	var b strings.Builder

	if m.saved == nil {
		fmt.Fprintln(&b, ui.StepInProgress(fmt.Sprintf("Issuing certificate for %s…%s", ui.URL(m.Host), m.spinner.View())))
		return b.String()
	}

	verb := "Issued"
	if m.replacing {
		verb = "Reissued"
	}
	fmt.Fprintln(&b, ui.StepDone(fmt.Sprintf("%s certificate for %s, valid until %s.",
		verb,
		ui.URL(m.Host),
		m.saved.NotAfter.UTC().Format(time.DateOnly),
	)))
	fmt.Fprintln(&b, ui.StepHint(fmt.Sprintf("Certificate: %s", m.saved.CertPath)))
	fmt.Fprintln(&b, ui.StepHint(fmt.Sprintf("Key:         %s", m.saved.KeyPath)))
	return b.String()
}
