package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Killavus/devcert/truststore"
	"github.com/Killavus/devcert/ui"
)

// ReportMsg ends a TrustInstall. Err is the fatal error that stopped the
// install, if any.
type ReportMsg struct {
	Report *truststore.Report
	Err    error
}

type TrustInstall struct {
	report *truststore.Report
	err    error
	done   bool

	spinner spinner.Model
}

func (m *TrustInstall) Init() tea.Cmd {
	m.spinner = ui.WaitingSpinner()

	return m.spinner.Tick
}

func (m *TrustInstall) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReportMsg:
		m.report, m.err, m.done = msg.Report, msg.Err, true
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *TrustInstall) View() string {
	var b strings.Builder

	if !m.done {
		fmt.Fprintln(&b, ui.StepInProgress(fmt.Sprintf("Installing root certificate into trust stores…%s", m.spinner.View())))
		return b.String()
	}

	report := m.report
	if report == nil {
		report = new(truststore.Report)
	}

	for _, outcome := range report.Outcomes {
		fmt.Fprintln(&b, OutcomeLine(outcome))
	}

	if m.err != nil {
		fmt.Fprintln(&b, ui.StepAlert(fmt.Sprintf("%s %s", ui.Danger("Trust store error:"), m.err)))
		return b.String()
	}

	fmt.Fprintln(&b, ui.StepDone(fmt.Sprintf("Updated trust stores: %d installed, %d skipped, %d failed.",
		len(report.Installed()),
		len(report.Skipped()),
		len(report.Failed()),
	)))
	return b.String()
}

// OutcomeLine renders one outcome as a step line.
func OutcomeLine(o truststore.Outcome) string {
	where := ui.Emphasize(o.Target)
	if o.Location != "" {
		where += " " + ui.Whisper(o.Location)
	}

	switch o.Status {
	case truststore.StatusInstalled:
		return ui.StepDone(fmt.Sprintf("Installed in %s.", where))
	case truststore.StatusSkipped:
		return ui.StepHint(fmt.Sprintf("Skipped %s: %s", where, o.Reason))
	case truststore.StatusFailed:
		return ui.StepAlert(fmt.Sprintf("%s %s: %s", ui.Warning("Failed"), where, o.Reason))
	default:
		panic("impossible")
	}
}
