// Package status renders the `wai status` view: session identity,
// provider connections, and content credits.
package status

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/workai-app/workai-cli/internal/domain"
)

type RenderOptions struct {
	NoColor bool
}

func renderView(report Report, s styles) string {
	lines := []string{
		s.title.Render("WorkAI"),
	}

	lines = append(lines, s.section.Render(renderSession(report, s)))
	lines = append(lines, s.section.Render(renderConnections(report.Connections, s)))

	if report.Credits != nil {
		lines = append(lines, s.section.Render(renderCredits(*report.Credits, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(report Report, s styles) string {
	if report.State != domain.StateAuthenticated {
		return s.empty.Render("Not logged in. Run `wai login` to start a session.")
	}

	parts := []string{
		s.identity.Render(report.User.DisplayName()),
		s.detail.Render(report.User.Email),
		s.detail.Render(planLabel(report.User)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func planLabel(user domain.User) string {
	plan := user.Plan
	if plan == "" {
		plan = "free"
	}
	billing := "monthly"
	if user.IsYearly {
		billing = "yearly"
	}
	if !user.IsSubscriber {
		return fmt.Sprintf("plan: %s", plan)
	}
	return fmt.Sprintf("plan: %s (%s)", plan, billing)
}

func renderConnections(connections []Connection, s styles) string {
	lines := []string{s.header.Render("connections")}

	if len(connections) == 0 {
		lines = append(lines, s.empty.Render("  none"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, conn := range connections {
		lines = append(lines, "  "+connectionLine(conn, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func connectionLine(conn Connection, s styles) string {
	name := providerLabel(conn.Provider)
	if conn.Connected {
		return fmt.Sprintf("%s %s", s.connected.Render("●"), name+" connected")
	}
	return s.offline.Render(fmt.Sprintf("○ %s not connected", name))
}

func providerLabel(provider domain.Provider) string {
	switch provider {
	case domain.ProviderZoom:
		return "Zoom"
	case domain.ProviderTeams:
		return "Microsoft Teams"
	default:
		return string(provider)
	}
}

func renderCredits(credits domain.Credits, s styles) string {
	lines := []string{s.header.Render("content credits")}

	bar := renderProgressBar(percentUsed(credits), 24, s)
	meta := s.detail.Render(fmt.Sprintf("%d/%d used, %d left", credits.Used, credits.Limit, credits.Remaining))
	lines = append(lines, "  "+lipgloss.JoinHorizontal(lipgloss.Top, bar, " ", meta))

	if credits.Remaining <= 0 && credits.Limit > 0 {
		lines = append(lines, "  "+s.warning.Render("no credits left"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func percentUsed(credits domain.Credits) float64 {
	if credits.Limit <= 0 {
		return 0
	}
	return float64(credits.Used) / float64(credits.Limit) * 100
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * used / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return s.barBracket.Render("[") +
		s.barFill.Render(strings.Repeat("█", filled)) +
		s.barEmpty.Render(strings.Repeat("░", width-filled)) +
		s.barBracket.Render("]")
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
