package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	hint = lipgloss.NewStyle().Faint(true).SetString("|")

	Header = lipgloss.NewStyle().Bold(true).SetString("#").Render

	// https://github.com/charmbracelet/lipgloss/blob/v0.9.1/style.go#L149

	StepAlert      = lipgloss.NewStyle().SetString("    " + Announce("!")).Render
	StepDone       = lipgloss.NewStyle().SetString("    -").Render
	StepHint       = hint.SetString("    |").Render
	StepInProgress = lipgloss.NewStyle().SetString("    *").Render
	StepPrompt     = lipgloss.NewStyle().SetString("    " + Prompt.Render("?")).Render

	Announce  = lipgloss.NewStyle().Background(colorBrandSecondary).Render
	Danger    = lipgloss.NewStyle().Bold(true).Foreground(colorDanger).Render
	Emphasize = lipgloss.NewStyle().Bold(true).Render
	URL       = lipgloss.NewStyle().Faint(true).Underline(true).Render
	Warning   = lipgloss.NewStyle().Bold(true).Foreground(colorWarning).Render
	Whisper   = lipgloss.NewStyle().Faint(true).Render

	colorBrandPrimary   = lipgloss.Color("#ff6000")
	colorBrandSecondary = lipgloss.Color("#7000ff")
	colorDanger         = lipgloss.Color("#d70000")
	colorWarning        = lipgloss.Color("#ffaf00")

	Prompt = lipgloss.NewStyle().Foreground(colorBrandPrimary)
)

func WaitingSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorBrandSecondary)),
	)
}
