package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Killavus/devcert/ui"
)

func InstallHeader(profile string) ui.MessageLines {
	return ui.MessageLines{
		ui.Header(fmt.Sprintf("Install devcert root certificate %s", ui.Whisper(fmt.Sprintf("(profile %s)", profile)))),
	}
}

type (
	RootFoundMsg struct {
		Path string
	}

	RootMissingMsg struct{}
)

// RootLoad shows the lookup of the profile root certificate.
type RootLoad struct {
	found, missing bool
	path           string

	spinner spinner.Model
}

func (m *RootLoad) Init() tea.Cmd {
	m.spinner = ui.WaitingSpinner()

	return m.spinner.Tick
}

func (m *RootLoad) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RootFoundMsg:
		m.found, m.path = true, msg.Path
		return m, nil
	case RootMissingMsg:
		m.missing = true
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *RootLoad) View() string {
	var b strings.Builder
	switch {
	case m.found:
		fmt.Fprintln(&b, ui.StepDone(fmt.Sprintf("Found existing root certificate: %s", ui.Whisper(m.path))))
	case m.missing:
		fmt.Fprintln(&b, ui.StepDone("No root certificate yet."))
	default:
		fmt.Fprintln(&b, ui.StepInProgress(fmt.Sprintf("Looking for the root certificate…%s", m.spinner.View())))
	}
	return b.String()
}

type RootSavedMsg struct {
	Path   string
	Serial string
}

// RootCreate shows the creation and persistence of a new root certificate.
type RootCreate struct {
	saved *RootSavedMsg

	spinner spinner.Model
}

func (m *RootCreate) Init() tea.Cmd {
	m.spinner = ui.WaitingSpinner()

	return m.spinner.Tick
}

func (m *RootCreate) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RootSavedMsg:
		m.saved = &msg
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *RootCreate) View() string {
	var b strings.Builder
	if m.saved == nil {
		fmt.Fprintln(&b, ui.StepInProgress(fmt.Sprintf("Creating root certificate…%s", m.spinner.View())))
		return b.String()
	}

	fmt.Fprintln(&b, ui.StepDone(fmt.Sprintf("Created root certificate %s: %s",
		ui.Emphasize(m.saved.Serial),
		ui.Whisper(m.saved.Path),
	)))
	return b.String()
}

var RootKept = ui.MessageLines{
	ui.StepDone("Keeping the existing root certificate."),
}

func InstallDone(profile string) ui.MessageLines {
	return ui.MessageLines{
		ui.StepHint(fmt.Sprintf("Issue certificates with: devcert add <host> --profile %s", profile)),
	}
}
