package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/koriwi/nutriplan-cli/internal/favorites"
)

type toggleTarget int

const (
	targetMeal toggleTarget = iota
	targetDiet
	targetConsume
)

// toggleDoneMsg carries a finished toggle back to the app, which decides
// whether it needs a dialog.
type toggleDoneMsg struct {
	target  toggleTarget
	outcome favorites.Outcome
}

func toggleMeal(d *deps, id string) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{target: targetMeal, outcome: d.toggler.ToggleMeal(id)}
	}
}

func toggleDiet(d *deps, id string) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{target: targetDiet, outcome: d.toggler.ToggleDiet(id)}
	}
}

func consumeMeal(d *deps, id string) tea.Cmd {
	now := d.now()
	return func() tea.Msg {
		return toggleDoneMsg{target: targetConsume, outcome: d.toggler.ConsumeMeal(id, now)}
	}
}

func forceUnlink(d *deps, target toggleTarget, id string) tea.Cmd {
	return func() tea.Msg {
		var out favorites.Outcome
		if target == targetDiet {
			out = d.toggler.ForceUnlinkDiet(id)
		} else {
			out = d.toggler.ForceUnlinkMeal(id)
		}
		return toggleDoneMsg{target: target, outcome: out}
	}
}

// favoriteMark renders the saved star for list rows.
func favoriteMark(saved bool) string {
	if saved {
		return styleFavorite.Render("★")
	}
	return styleDimmed.Render("☆")
}
