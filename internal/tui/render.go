package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guttosm/nutriplate/internal/domain/model"
)

const barWidth = 24

// Bar draws value against target as a fixed-width gauge. Values above the
// target fill the bar.
func Bar(value, target float64, width int) string {
	if width <= 0 {
		width = barWidth
	}
	filled := 0
	if target > 0 && value > 0 {
		filled = int(value / target * float64(width))
	}
	filled = min(max(filled, 0), width)
	return barFullStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

// StatusStyle returns the colour used for a gap status.
func StatusStyle(status model.GapStatus) lipgloss.Style {
	if s, ok := statusStyles[string(status)]; ok {
		return s
	}
	return mutedStyle
}

// RenderResult lays out the analysis as cards: food items, totals,
// intake per consumption unit and the gap.
func RenderResult(r *model.AnalysisResult, width int) string {
	if r == nil {
		return ""
	}

	items := []string{headerStyle.Render("Food items")}
	if len(r.FoodItems) == 0 {
		items = append(items, mutedStyle.Render("none identified"))
	}
	for _, item := range r.FoodItems {
		items = append(items, fmt.Sprintf("%-18s %8s %6.0f kcal %5.1f g",
			truncate(item.Name, 18), truncate(item.QuantityEstimate, 8), item.Calories, item.Protein))
	}

	totals := []string{
		headerStyle.Render("Totals"),
		fmt.Sprintf("%.0f kcal", r.TotalCalories),
		fmt.Sprintf("%.1f g protein", r.TotalProtein),
		mutedStyle.Render(fmt.Sprintf("%.1f consumption units", r.ConsumptionUnits)),
	}

	perCU := []string{
		headerStyle.Render("Per consumption unit"),
		fmt.Sprintf("Calories %.1f / %.0f", r.IntakePerCU.Calories, r.StandardPerCU.Calories),
		Bar(r.IntakePerCU.Calories, r.StandardPerCU.Calories, barWidth),
		fmt.Sprintf("Protein  %.1f / %.0f g", r.IntakePerCU.Protein, r.StandardPerCU.Protein),
		Bar(r.IntakePerCU.Protein, r.StandardPerCU.Protein, barWidth),
		mutedStyle.Render(r.StandardPerCU.Source),
	}

	gap := []string{
		headerStyle.Render("Gap"),
		StatusStyle(r.Gap.Status).Render(string(r.Gap.Status)),
		fmt.Sprintf("Calories %+.1f%%", r.Gap.CaloriesPercent),
		fmt.Sprintf("Protein  %+.1f%%", r.Gap.ProteinPercent),
	}

	cards := []string{
		cardStyle.Render(strings.Join(items, "\n")),
		cardStyle.Render(strings.Join(totals, "\n")),
		cardStyle.Render(strings.Join(perCU, "\n")),
		cardStyle.Render(strings.Join(gap, "\n")),
	}

	var layout string
	if width > 0 && width < 100 {
		layout = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		top := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
		layout = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}

	summary := lipgloss.NewStyle().Width(max(width-2, 40)).Render(r.Summary)
	return layout + "\n" + summary
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
