// Package terminal renders verdicts for the palava CLI using lipgloss.
package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// SubtleColor is used for labels and secondary text
	SubtleColor = lipgloss.Color("#6B7280")
	// MeterTrackColor is the unfilled part of the confidence meter
	MeterTrackColor = lipgloss.Color("#E5E7EB")

	// TitleStyle formats section titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	// LabelStyle formats field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// PreviewStyle frames the analysed message
	PreviewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1).
			Italic(true)

	// ActionStyle formats the hints shown under a result
	ActionStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginRight(2)

	// TableHeaderStyle is used for table headers
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))
)
