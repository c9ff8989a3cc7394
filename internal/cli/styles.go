// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"strings"

	"github.com/Veraticus/financas/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7C3AED")
	// SuccessColor marks paid entries and finished operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor marks pending entries.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor marks overdue entries and failures.
	ErrorColor = lipgloss.Color("#EF4444")
	// InfoColor is used for neutral notices.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor is used for ids and hints.
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	PromptStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MoneyIcon   = "💰"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the money icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// HeaderRow styles each header and joins them with tabs for a tabwriter.
func HeaderRow(headers []string) string {
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = HeaderStyle.Render(h)
	}
	return strings.Join(styled, "\t")
}

var pillStyles = map[model.Status]lipgloss.Style{
	model.StatusPago:     pill(lipgloss.Color("#0B0B0B"), SuccessColor),
	model.StatusAtrasado: pill(lipgloss.Color("#FFFFFF"), ErrorColor),
	model.StatusPendente: pill(lipgloss.Color("#0B0B0B"), WarningColor),
}

func pill(fg, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(fg).Background(bg).Padding(0, 1)
}

// StatusPill renders a status as a colored pill. Unknown statuses are
// returned unstyled.
func StatusPill(s model.Status) string {
	style, ok := pillStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}

// StyleError colors text without an icon.
func StyleError(text string) string {
	return ErrorStyle.Render(text)
}
