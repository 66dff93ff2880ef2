package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

var (
	colorPrimary   = lipgloss.Color("#10B981") // emerald
	colorSuccess   = lipgloss.Color("#22C55E") // green
	colorDanger    = lipgloss.Color("#EF4444") // red
	colorMuted     = lipgloss.Color("#6B7280") // gray
	colorSubtle    = lipgloss.Color("#374151") // dark gray
	colorText      = lipgloss.Color("#F9FAFB") // near white
	colorFavorite  = lipgloss.Color("#FACC15") // yellow
	colorCalories  = lipgloss.Color("#F97316") // orange
	colorProtein   = lipgloss.Color("#60A5FA") // blue
	colorCarbs     = lipgloss.Color("#FBBF24") // amber
	colorSugars    = lipgloss.Color("#FDE68A") // pale amber
	colorFat       = lipgloss.Color("#F472B6") // pink
	colorSaturated = lipgloss.Color("#FBCFE8") // pale pink

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingBottom(1)

	styleNav = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Padding(0, 1)

	styleSection = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginTop(1)

	styleItemName = lipgloss.NewStyle().
			Foreground(colorText)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleOK = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true)

	styleSelected = lipgloss.NewStyle().
			Background(colorSubtle).
			Foreground(colorPrimary).
			Bold(true)

	styleFavorite = lipgloss.NewStyle().
			Foreground(colorFavorite)

	styleTab = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted)

	styleTabActive = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)

	styleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	styleDialog = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	styleInput = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	styleDimmed = lipgloss.NewStyle().
			Foreground(colorMuted)
)

func nutrientColor(name string) lipgloss.Color {
	switch name {
	case models.NutrientEnergy:
		return colorCalories
	case models.NutrientProtein:
		return colorProtein
	case models.NutrientCarbs:
		return colorCarbs
	case models.NutrientSugars:
		return colorSugars
	case models.NutrientFat:
		return colorFat
	case models.NutrientSaturated:
		return colorSaturated
	default:
		return colorMuted
	}
}

// padRight pads by display width so emoji and accents line up.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

func tabs(labels []string, active int) string {
	var sb strings.Builder
	for i, t := range labels {
		if i == active {
			sb.WriteString(styleTabActive.Render(t))
		} else {
			sb.WriteString(styleTab.Render(t))
		}
	}
	return sb.String()
}
