package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

type builderFocus int

const (
	focusName builderFocus = iota
	focusDescription
	focusPicker
	focusDays
)

// dietBuilderModel assembles a diet from the user's saved meals.
type dietBuilderModel struct {
	deps        *deps
	focus       builderFocus
	name        textinput.Model
	description textinput.Model
	private     bool
	days        [][]models.Meal
	dayIdx      int
	pickIdx     int
	saving      bool
	err         string
	width       int
	height      int
}

type dietCreatedMsg struct{ diet models.DietPlan }
type dietCreateErrMsg struct{ err error }

func newDietBuilderModel(d *deps) dietBuilderModel {
	name := textinput.New()
	name.Placeholder = "Diet name"
	name.CharLimit = 100
	name.Width = 40
	name.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 2000
	desc.Width = 60

	return dietBuilderModel{
		deps:        d,
		name:        name,
		description: desc,
		days:        [][]models.Meal{nil},
	}
}

func (m dietBuilderModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !m.deps.state.Meals.Snapshot().Loaded {
		cmds = append(cmds, loadSavedMeals(m.deps))
	}
	return tea.Batch(cmds...)
}

func (m dietBuilderModel) typing() bool {
	return m.focus == focusName || m.focus == focusDescription
}

func (m *dietBuilderModel) setFocus(f builderFocus) {
	m.focus = f
	m.name.Blur()
	m.description.Blur()
	switch f {
	case focusName:
		m.name.Focus()
	case focusDescription:
		m.description.Focus()
	}
}

// draft converts the builder state into the create request.
func (m dietBuilderModel) draft() models.DietDraft {
	days := make([]models.DietDayDraft, len(m.days))
	for i, meals := range m.days {
		ids := make([]string, len(meals))
		for j, meal := range meals {
			ids[j] = meal.ID
		}
		days[i] = models.DietDayDraft{MealIDs: ids}
	}
	return models.DietDraft{
		Name:        strings.TrimSpace(m.name.Value()),
		Description: strings.TrimSpace(m.description.Value()),
		IsPrivate:   m.private,
		Days:        days,
	}
}

func (m dietBuilderModel) submit() (dietBuilderModel, tea.Cmd) {
	draft := m.draft()
	if err := models.Validate(draft); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.saving = true
	m.err = ""
	client := m.deps.client
	diets := m.deps.state.Diets
	return m, func() tea.Msg {
		diet, err := client.CreateDiet(draft)
		if err != nil {
			logger.Warn("create diet", zap.String("name", draft.Name), zap.Error(err))
			return dietCreateErrMsg{err: err}
		}
		diets.Dispatch(store.Add(*diet))
		logger.Info("diet created", zap.String("id", diet.ID), zap.Int("days", len(diet.Days)))
		return dietCreatedMsg{diet: *diet}
	}
}

func (m dietBuilderModel) Update(msg tea.Msg) (dietBuilderModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case dietCreateErrMsg:
		m.saving = false
		m.err = api.Describe(msg.err)

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backMsg{} }
		case "ctrl+s":
			return m.submit()
		case "tab":
			m.setFocus((m.focus + 1) % 4)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + 3) % 4)
			return m, nil
		}

		switch m.focus {
		case focusName:
			var cmd tea.Cmd
			m.name, cmd = m.name.Update(msg)
			return m, cmd
		case focusDescription:
			var cmd tea.Cmd
			m.description, cmd = m.description.Update(msg)
			return m, cmd
		case focusPicker:
			m.updatePicker(msg)
		case focusDays:
			m.updateDays(msg)
		}
	}
	return m, nil
}

func (m *dietBuilderModel) updatePicker(msg tea.KeyMsg) {
	pool := m.deps.state.Meals.Snapshot().Items
	switch msg.String() {
	case "j", "down":
		if m.pickIdx < len(pool)-1 {
			m.pickIdx++
		}
	case "k", "up":
		if m.pickIdx > 0 {
			m.pickIdx--
		}
	case "enter", " ":
		if m.pickIdx < len(pool) {
			m.days[m.dayIdx] = append(m.days[m.dayIdx], pool[m.pickIdx])
			m.err = ""
		}
	case "p":
		m.private = !m.private
	}
}

func (m *dietBuilderModel) updateDays(msg tea.KeyMsg) {
	switch msg.String() {
	case "left":
		if m.dayIdx > 0 {
			m.dayIdx--
		}
	case "right":
		if m.dayIdx < len(m.days)-1 {
			m.dayIdx++
		}
	case "a":
		m.days = append(m.days, nil)
		m.dayIdx = len(m.days) - 1
	case "x":
		if day := m.days[m.dayIdx]; len(day) > 0 {
			m.days[m.dayIdx] = day[:len(day)-1]
		}
	case "D":
		if len(m.days) > 1 {
			m.days = append(m.days[:m.dayIdx], m.days[m.dayIdx+1:]...)
			if m.dayIdx >= len(m.days) {
				m.dayIdx = len(m.days) - 1
			}
		}
	case "p":
		m.private = !m.private
	}
}

func (m dietBuilderModel) View() string {
	var lines []string
	lines = append(lines, styleHeader.Render("New diet plan"))

	label := func(f builderFocus, text string) string {
		if m.focus == f {
			return styleSelected.Render("> " + text)
		}
		return "  " + text
	}

	lines = append(lines,
		label(focusName, "Name"),
		styleInput.Render(m.name.View()),
		label(focusDescription, "Description"),
		styleInput.Render(m.description.View()),
	)
	visibility := "public"
	if m.private {
		visibility = "private"
	}
	lines = append(lines, row("Visibility", visibility+styleDimmed.Render("  [p] toggle")), "")

	lines = append(lines, label(focusPicker, "Your saved meals"))
	pool := m.deps.state.Meals.Snapshot().Items
	if len(pool) == 0 {
		lines = append(lines, styleDimmed.Render("    Save some meals first ([2] Meals, [f] save)."))
	}
	for i, meal := range pool {
		line := fmt.Sprintf("    %s %s", padRight(truncate(meal.Name, 36), 38), styleDimmed.Render(fmt.Sprintf("%4.0f kcal", meal.Macros.Calories)))
		if i == m.pickIdx && m.focus == focusPicker {
			line = styleSelected.Render(fmt.Sprintf("  > %s %4.0f kcal", padRight(truncate(meal.Name, 36), 38), meal.Macros.Calories))
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")

	dayLabels := make([]string, len(m.days))
	for i, day := range m.days {
		dayLabels[i] = fmt.Sprintf("Day %d (%d)", i+1, len(day))
	}
	lines = append(lines, label(focusDays, "Days"), tabs(dayLabels, m.dayIdx))
	day := m.days[m.dayIdx]
	for _, meal := range day {
		lines = append(lines, "    • "+meal.Name)
	}
	if len(day) < models.MinMealsPerDay {
		lines = append(lines, styleDimmed.Render(fmt.Sprintf("    Add at least %d meals to this day.", models.MinMealsPerDay)))
	}
	var kcal float64
	for _, meal := range day {
		kcal += meal.Macros.Calories
	}
	lines = append(lines, styleDimmed.Render(fmt.Sprintf("    %.0f kcal total", kcal)))

	switch {
	case m.saving:
		lines = append(lines, "", styleDimmed.Render("  Saving..."))
	case m.err != "":
		lines = append(lines, "", styleError.Render("  ✗ "+m.err))
	}

	lines = append(lines, styleHelp.Render("[Tab] next section  [Enter] add meal  [←/→] day  [a] add day  [x] remove meal  [D] drop day  [Ctrl+S] create  [Esc] cancel"))
	return applyScroll(lines, 0, m.height)
}
