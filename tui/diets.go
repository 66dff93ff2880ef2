package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

type dietsModel struct {
	deps    *deps
	tab     listTab
	results []models.DietPlan
	listIdx int
	loading bool
	fetched bool
	err     string
	status  string

	detail        *models.DietPlan
	detailLoading bool
	confirmDelete bool
	dayIdx        int
	scrollY       int

	width  int
	height int
}

type dietsLoadedMsg struct {
	diets []models.DietPlan
	err   error
}

type savedDietsLoadedMsg struct{ err error }

type dietLoadedMsg struct {
	id   string
	diet *models.DietPlan
	err  error
}

type dietDeletedMsg struct {
	id  string
	err error
}

type openBuilderMsg struct{}

func newDietsModel(d *deps) dietsModel {
	return dietsModel{deps: d}
}

func (m *dietsModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if !m.fetched && !m.loading {
		m.loading = true
		cmds = append(cmds, m.fetchList())
	}
	if !m.deps.state.Diets.Snapshot().Loaded {
		cmds = append(cmds, m.loadSaved())
	}
	return tea.Batch(cmds...)
}

// typing is always false; the diets page has no text input.
func (m dietsModel) typing() bool { return false }

func (m dietsModel) fetchList() tea.Cmd {
	client := m.deps.client
	return func() tea.Msg {
		diets, err := client.ListDiets("")
		return dietsLoadedMsg{diets: diets, err: err}
	}
}

func (m dietsModel) loadSaved() tea.Cmd {
	if !m.deps.state.Session.Authenticated() {
		return nil
	}
	client := m.deps.client
	diets := m.deps.state.Diets
	return func() tea.Msg {
		list, err := client.ListUserDiets()
		if err != nil {
			logger.Warn("load saved diets", zap.Error(err))
			return savedDietsLoadedMsg{err: err}
		}
		diets.Set(list)
		return savedDietsLoadedMsg{}
	}
}

func (m dietsModel) fetchDiet(id string) tea.Cmd {
	client := m.deps.client
	return func() tea.Msg {
		diet, err := client.GetDiet(id)
		return dietLoadedMsg{id: id, diet: diet, err: err}
	}
}

func (m dietsModel) deleteDiet(id string) tea.Cmd {
	client := m.deps.client
	diets := m.deps.state.Diets
	return func() tea.Msg {
		if err := client.DeleteDiet(id); err != nil {
			logger.Warn("delete diet", zap.String("diet_id", id), zap.Error(err))
			return dietDeletedMsg{id: id, err: err}
		}
		diets.Dispatch(store.Remove[models.DietPlan](id))
		logger.Info("diet deleted", zap.String("diet_id", id))
		return dietDeletedMsg{id: id}
	}
}

func (m dietsModel) owns(diet models.DietPlan) bool {
	return m.deps.state.Session.Authenticated() && diet.CreatedBy(m.deps.state.Session.Identity().UserID)
}

// openByID shows one diet, e.g. when following a conflict reference.
func (m *dietsModel) openByID(id string) tea.Cmd {
	m.detail = &models.DietPlan{ID: id}
	m.detailLoading = true
	m.confirmDelete = false
	m.dayIdx, m.scrollY = 0, 0
	m.err = ""
	return m.fetchDiet(id)
}

// afterCreate opens a diet the builder just created. The store already
// holds it.
func (m *dietsModel) afterCreate(diet models.DietPlan) {
	m.tab = tabSaved
	m.detail = &diet
	m.detailLoading = false
	m.dayIdx, m.scrollY = 0, 0
	m.status = fmt.Sprintf("Created %q", diet.Name)
}

func (m dietsModel) currentList() []models.DietPlan {
	if m.tab == tabSaved {
		return m.deps.state.Diets.Snapshot().Items
	}
	return m.results
}

func (m dietsModel) selected() (models.DietPlan, bool) {
	if m.detail != nil {
		return *m.detail, true
	}
	list := m.currentList()
	if m.listIdx < 0 || m.listIdx >= len(list) {
		return models.DietPlan{}, false
	}
	return list[m.listIdx], true
}

func (m dietsModel) Update(msg tea.Msg) (dietsModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case dietsLoadedMsg:
		m.loading = false
		m.fetched = true
		if msg.err != nil {
			m.err = api.Describe(msg.err)
		} else {
			m.err = ""
			m.results = msg.diets
			m.listIdx = 0
		}

	case savedDietsLoadedMsg:
		if msg.err != nil && m.tab == tabSaved {
			m.err = api.Describe(msg.err)
		}

	case dietLoadedMsg:
		if m.detail == nil || m.detail.ID != msg.id {
			break
		}
		m.detailLoading = false
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.detail = msg.diet
		m.dayIdx = min(m.dayIdx, max(len(msg.diet.Days)-1, 0))

	case dietDeletedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.results = slices.DeleteFunc(m.results, func(d models.DietPlan) bool { return d.ID == msg.id })
		m.listIdx = min(m.listIdx, max(len(m.currentList())-1, 0))
		if m.detail != nil && m.detail.ID == msg.id {
			m.detail = nil
		}
		m.status = "Diet deleted"

	case tea.KeyMsg:
		if m.detail != nil {
			return m.updateDetail(msg)
		}
		m.status = ""

		switch msg.String() {
		case "tab":
			m.tab = (m.tab + 1) % 2
			m.listIdx = 0
			m.err = ""
			if m.tab == tabSaved {
				cmds = append(cmds, m.loadSaved())
			}
		case "j", "down":
			if m.listIdx < len(m.currentList())-1 {
				m.listIdx++
			}
		case "k", "up":
			if m.listIdx > 0 {
				m.listIdx--
			}
		case "enter":
			if diet, ok := m.selected(); ok {
				m.detail = &diet
				m.detailLoading = true
				m.confirmDelete = false
				m.dayIdx, m.scrollY = 0, 0
				cmds = append(cmds, m.fetchDiet(diet.ID))
			}
		case "f":
			if diet, ok := m.selected(); ok {
				cmds = append(cmds, toggleDiet(m.deps, diet.ID))
			}
		case "n":
			cmds = append(cmds, func() tea.Msg { return openBuilderMsg{} })
		case "r":
			m.loading = true
			cmds = append(cmds, m.fetchList(), m.loadSaved())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m dietsModel) updateDetail(msg tea.KeyMsg) (dietsModel, tea.Cmd) {
	diet := *m.detail
	confirm := m.confirmDelete
	m.confirmDelete = false
	if confirm {
		m.status = ""
	}
	switch msg.String() {
	case "esc", "backspace":
		m.detail = nil
		m.detailLoading = false
		m.err = ""
		m.status = ""
	case "X":
		if !m.owns(diet) {
			return m, nil
		}
		if !confirm {
			m.confirmDelete = true
			m.status = fmt.Sprintf("Press [X] again to delete %q", diet.Name)
			return m, nil
		}
		return m, m.deleteDiet(diet.ID)
	case "left":
		if m.dayIdx > 0 {
			m.dayIdx--
			m.scrollY = 0
		}
	case "right":
		if m.dayIdx < len(diet.Days)-1 {
			m.dayIdx++
			m.scrollY = 0
		}
	case "j", "down":
		m.scrollY++
	case "k", "up":
		if m.scrollY > 0 {
			m.scrollY--
		}
	case "f":
		return m, toggleDiet(m.deps, diet.ID)
	case "c":
		// Log every meal of the shown day as eaten today.
		if m.dayIdx < len(diet.Days) {
			var cmds []tea.Cmd
			for _, meal := range diet.Days[m.dayIdx].Meals {
				cmds = append(cmds, consumeMeal(m.deps, meal.ID))
			}
			m.status = fmt.Sprintf("Logging day %d", m.dayIdx+1)
			return m, tea.Batch(cmds...)
		}
	}
	return m, nil
}

func (m dietsModel) View() string {
	if m.detail != nil {
		return m.viewDetail()
	}

	var sb strings.Builder
	saved := m.deps.state.Diets.Snapshot()
	sb.WriteString(tabs([]string{"Browse", fmt.Sprintf("Saved (%d)", len(saved.Items))}, int(m.tab)))
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(styleDimmed.Render("  Loading diets...") + "\n")
	case m.err != "":
		sb.WriteString(styleError.Render("  Error: "+m.err) + "\n")
	}

	list := m.currentList()
	if !m.loading && len(list) == 0 {
		empty := "  No diet plans found."
		if m.tab == tabSaved {
			empty = "  No saved diets yet. Press [f] to save one or [n] to build your own."
			if !m.deps.state.Session.Authenticated() {
				empty = "  Log in to see your saved diets."
			}
		}
		sb.WriteString(styleDimmed.Render(empty) + "\n")
	}

	for i, diet := range list {
		sb.WriteString(m.dietRow(diet, i == m.listIdx))
	}

	if m.status != "" {
		sb.WriteString("\n" + styleOK.Render("  ✓ "+m.status) + "\n")
	}
	help := []string{"[Tab] browse/saved", "[Enter] details", "[f] save", "[n] new diet", "[r] refresh"}
	sb.WriteString(styleHelp.Render(strings.Join(help, "  ")))
	return sb.String()
}

func (m dietsModel) dietRow(diet models.DietPlan, selected bool) string {
	mark := favoriteMark(m.deps.toggler.IsFavoriteDiet(diet.ID))
	if m.deps.toggler.Processing("diet:" + diet.ID) {
		mark = styleDimmed.Render("…")
	}
	name := truncate(diet.Name, 36)
	if diet.IsCopy() {
		name += " (copy)"
	}
	if diet.IsPrivate {
		name += " 🔒"
	}
	meta := fmt.Sprintf("%d days  ♥ %d", len(diet.Days), diet.SaveCount)
	if selected {
		return fmt.Sprintf("%s %s %s\n", mark, styleSelected.Render(padRight("> "+name, 44)), styleDimmed.Render(meta))
	}
	return fmt.Sprintf("%s %s %s\n", mark, styleItemName.Render(padRight("  "+name, 44)), styleDimmed.Render(meta))
}

func (m dietsModel) viewDetail() string {
	diet := *m.detail
	var lines []string

	title := diet.Name
	if title == "" {
		title = "Diet plan"
	}
	lines = append(lines, favoriteMark(m.deps.toggler.IsFavoriteDiet(diet.ID))+" "+styleHeader.Render(title))
	if m.detailLoading {
		lines = append(lines, styleDimmed.Render("  Loading..."))
	}
	if m.err != "" {
		lines = append(lines, styleError.Render("  Error: "+m.err))
	}
	if diet.Creator != nil && diet.Creator.Name != "" {
		lines = append(lines, row("Created by", diet.Creator.Name))
	}
	if diet.IsCopy() {
		lines = append(lines, row("Copy of", diet.OriginalDietID))
	}
	if diet.Description != "" {
		lines = append(lines, "", "  "+diet.Description)
	}

	if len(diet.Days) > 0 {
		labels := make([]string, len(diet.Days))
		for i := range diet.Days {
			labels[i] = fmt.Sprintf("Day %d", i+1)
		}
		lines = append(lines, "", tabs(labels, m.dayIdx), "")

		day := diet.Days[m.dayIdx]
		for _, meal := range day.Meals {
			lines = append(lines, fmt.Sprintf("  %s %s  %s",
				favoriteMark(m.deps.toggler.IsFavoriteMeal(meal.ID)),
				styleItemName.Render(padRight(truncate(meal.Name, 36), 38)),
				styleDimmed.Render(fmt.Sprintf("%4.0f kcal", meal.Macros.Calories))))
		}

		lines = append(lines, "", sectionLabel("Day total"))
		for _, n := range diet.DayMacros(m.dayIdx).Nutrients() {
			label := models.NutrientLabel(n.Name)
			if models.IsSubNutrient(n.Name) {
				label = "  " + label
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(nutrientColor(n.Name)).Render(fmt.Sprintf("  %-16s", label))+
				styleItemName.Render(fmt.Sprintf("%.1f %s", n.Value, n.Unit)))
		}
	} else if !m.detailLoading {
		lines = append(lines, "", styleDimmed.Render("  This plan has no days."))
	}

	if m.status != "" {
		lines = append(lines, "", styleOK.Render("  ✓ "+m.status))
	}
	help := "[←/→] day  [↑/↓] scroll  [f] save/unsave  [c] log this day  [Esc] back"
	if m.owns(diet) {
		help = "[←/→] day  [↑/↓] scroll  [f] save/unsave  [c] log this day  [X] delete  [Esc] back"
	}
	lines = append(lines, styleHelp.Render(help))
	return applyScroll(lines, m.scrollY, m.height-2)
}
