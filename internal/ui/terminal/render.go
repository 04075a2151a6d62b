package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"palava-proof/internal/domain/models"
)

// MeterWidth is the number of cells in the confidence meter
const MeterWidth = 20

// Render draws a display payload as a terminal card
func Render(p *models.DisplayPayload) string {
	badge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.Color(p.BackgroundColor)).
		Foreground(lipgloss.Color(p.TextColor)).
		Render(p.Icon + " " + p.Title)

	sections := []string{
		badge,
		Meter(p.Confidence, p.ConfidenceColor) + " " + LabelStyle.Render(p.ConfidenceLabel),
	}

	if p.ShowFindings() {
		var b strings.Builder
		b.WriteString(TitleStyle.UnsetMarginBottom().Render(p.FindingsHeading))
		for _, f := range p.Findings {
			b.WriteString("\n  • " + f)
		}
		sections = append(sections, b.String())
	}

	sections = append(sections,
		LabelStyle.Render(p.PreviewLabel)+"\n"+PreviewStyle.Render(p.Preview),
	)

	if len(p.Actions) > 0 {
		hints := make([]string, len(p.Actions))
		for i, a := range p.Actions {
			hints[i] = ActionStyle.Render(a.Icon + " " + a.Label)
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, hints...))
	}

	return strings.Join(sections, "\n\n")
}

// Meter draws a confidence bar filled in the given color
func Meter(confidence int, color string) string {
	filled := max(0, min(confidence, 100)) * MeterWidth / 100
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled))
	track := lipgloss.NewStyle().Foreground(MeterTrackColor).Render(strings.Repeat("░", MeterWidth-filled))
	return bar + track
}

// RenderReports draws a list of reports as a simple table
func RenderReports(reports []models.Report) string {
	if len(reports) == 0 {
		return LabelStyle.Render("No reports yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-9s %-6s %s\n",
		TableHeaderStyle.Render("ID"),
		TableHeaderStyle.Render("TYPE"),
		TableHeaderStyle.Render("SEEN"),
		TableHeaderStyle.Render("MESSAGE"),
	)
	for _, r := range reports {
		fmt.Fprintf(&b, "%-6d %-9s %-6d %s\n", r.ID, r.Type, r.TimesReported, oneLine(r.Content, 60))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCategories draws the indicator table
func RenderCategories(categories []models.CategoryInfo) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Scam indicator categories"))
	for _, c := range categories {
		fmt.Fprintf(&b, "\n%-9s +%-3d %s", c.Category, c.Weight, c.Finding)
		if len(c.Keywords) > 0 {
			b.WriteString("\n          " + LabelStyle.Render(strings.Join(c.Keywords, ", ")))
		}
	}
	return b.String()
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
