package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

type listTab int

const (
	tabBrowse listTab = iota
	tabSaved
)

type mealsModel struct {
	deps    *deps
	tab     listTab
	search  textinput.Model
	results []models.Meal
	listIdx int
	loading bool
	fetched bool
	err     string
	status  string

	// detail is non-nil while a single meal is open.
	detail        *models.Meal
	detailLoading bool
	confirmDelete bool

	width  int
	height int
}

type mealsLoadedMsg struct {
	meals []models.Meal
	err   error
}

type savedMealsLoadedMsg struct{ err error }

type mealLoadedMsg struct {
	id   string
	meal *models.Meal
	err  error
}

type mealCopiedMsg struct {
	meal *models.Meal
	err  error
}

type mealDeletedMsg struct {
	id  string
	err error
}

// authRequiredMsg asks the app to show the login prompt.
type authRequiredMsg struct{ text string }

func newMealsModel(d *deps) mealsModel {
	search := textinput.New()
	search.Placeholder = "Search meals..."
	search.CharLimit = 128
	search.Width = 40
	return mealsModel{deps: d, search: search}
}

func (m *mealsModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if !m.fetched && !m.loading {
		m.loading = true
		cmds = append(cmds, m.doSearch(""))
	}
	if !m.deps.state.Meals.Snapshot().Loaded {
		cmds = append(cmds, m.loadSaved())
	}
	return tea.Batch(cmds...)
}

func (m mealsModel) typing() bool {
	return m.search.Focused()
}

func (m mealsModel) doSearch(query string) tea.Cmd {
	client := m.deps.client
	return func() tea.Msg {
		meals, err := client.ListMeals(query)
		return mealsLoadedMsg{meals: meals, err: err}
	}
}

// loadSaved refreshes the saved-meals store. Logged out users have none.
func (m mealsModel) loadSaved() tea.Cmd {
	return loadSavedMeals(m.deps)
}

func loadSavedMeals(d *deps) tea.Cmd {
	if !d.state.Session.Authenticated() {
		return nil
	}
	client := d.client
	meals := d.state.Meals
	return func() tea.Msg {
		list, err := client.ListUserMeals()
		if err != nil {
			logger.Warn("load saved meals", zap.Error(err))
			return savedMealsLoadedMsg{err: err}
		}
		meals.Set(list)
		return savedMealsLoadedMsg{}
	}
}

func (m mealsModel) fetchMeal(id string) tea.Cmd {
	client := m.deps.client
	return func() tea.Msg {
		meal, err := client.GetMeal(id)
		return mealLoadedMsg{id: id, meal: meal, err: err}
	}
}

// deleteMeal removes a meal the user created, for everyone.
func (m mealsModel) deleteMeal(id string) tea.Cmd {
	client := m.deps.client
	meals := m.deps.state.Meals
	return func() tea.Msg {
		if err := client.DeleteMeal(id); err != nil {
			logger.Warn("delete meal", zap.String("meal_id", id), zap.Error(err))
			return mealDeletedMsg{id: id, err: err}
		}
		meals.Dispatch(store.Remove[models.Meal](id))
		logger.Info("meal deleted", zap.String("meal_id", id))
		return mealDeletedMsg{id: id}
	}
}

// owns reports whether the logged in user created meal.
func (m mealsModel) owns(meal models.Meal) bool {
	return m.deps.state.Session.Authenticated() && meal.CreatedBy(m.deps.state.Session.Identity().UserID)
}

func (m mealsModel) copyMeal(id string) tea.Cmd {
	if !m.deps.state.Session.Authenticated() {
		return func() tea.Msg { return authRequiredMsg{text: "Log in or register to copy meals."} }
	}
	client := m.deps.client
	meals := m.deps.state.Meals
	return func() tea.Msg {
		copied, err := client.CopyMeal(id)
		if err != nil {
			logger.Warn("copy meal", zap.String("meal_id", id), zap.Error(err))
			return mealCopiedMsg{err: err}
		}
		// The copy supersedes the original in the saved list.
		meals.Dispatch(store.Replace(id, *copied))
		return mealCopiedMsg{meal: copied}
	}
}

// openByID shows one meal, e.g. when following a conflict reference.
func (m *mealsModel) openByID(id string) tea.Cmd {
	m.detail = &models.Meal{ID: id}
	m.detailLoading = true
	m.confirmDelete = false
	m.err = ""
	return m.fetchMeal(id)
}

func (m mealsModel) currentList() []models.Meal {
	if m.tab == tabSaved {
		return m.deps.state.Meals.Snapshot().Items
	}
	return m.results
}

func (m mealsModel) selected() (models.Meal, bool) {
	if m.detail != nil {
		return *m.detail, true
	}
	list := m.currentList()
	if m.listIdx < 0 || m.listIdx >= len(list) {
		return models.Meal{}, false
	}
	return list[m.listIdx], true
}

func (m mealsModel) Update(msg tea.Msg) (mealsModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case mealsLoadedMsg:
		m.loading = false
		m.fetched = true
		if msg.err != nil {
			m.err = api.Describe(msg.err)
		} else {
			m.err = ""
			m.results = msg.meals
			m.listIdx = 0
		}

	case savedMealsLoadedMsg:
		if msg.err != nil && m.tab == tabSaved {
			m.err = api.Describe(msg.err)
		}

	case mealLoadedMsg:
		// The view was closed or moved on to another meal.
		if m.detail == nil || m.detail.ID != msg.id {
			break
		}
		m.detailLoading = false
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.detail = msg.meal

	case mealCopiedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.status = fmt.Sprintf("Copied %q to your meals", msg.meal.Name)
		if m.detail != nil {
			m.detail = msg.meal
		}

	case mealDeletedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		m.results = slices.DeleteFunc(m.results, func(meal models.Meal) bool { return meal.ID == msg.id })
		m.listIdx = min(m.listIdx, max(len(m.currentList())-1, 0))
		if m.detail != nil && m.detail.ID == msg.id {
			m.detail = nil
		}
		m.status = "Meal deleted"

	case tea.KeyMsg:
		if m.search.Focused() {
			switch msg.String() {
			case "enter":
				m.search.Blur()
				m.loading = true
				m.err = ""
				return m, m.doSearch(strings.TrimSpace(m.search.Value()))
			case "esc":
				m.search.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		m.status = ""
		if m.detail != nil {
			return m.updateDetail(msg)
		}

		switch msg.String() {
		case "tab":
			m.tab = (m.tab + 1) % 2
			m.listIdx = 0
			m.err = ""
			if m.tab == tabSaved {
				cmds = append(cmds, m.loadSaved())
			}
		case "/":
			if m.tab == tabBrowse {
				m.search.Focus()
				cmds = append(cmds, textinput.Blink)
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
			if meal, ok := m.selected(); ok {
				m.detail = &meal
				m.detailLoading = true
				m.confirmDelete = false
				cmds = append(cmds, m.fetchMeal(meal.ID))
			}
		case "f":
			if meal, ok := m.selected(); ok {
				cmds = append(cmds, toggleMeal(m.deps, meal.ID))
			}
		case "c":
			if meal, ok := m.selected(); ok {
				cmds = append(cmds, consumeMeal(m.deps, meal.ID))
			}
		case "y":
			if meal, ok := m.selected(); ok {
				cmds = append(cmds, m.copyMeal(meal.ID))
			}
		case "r":
			m.loading = true
			cmds = append(cmds, m.doSearch(strings.TrimSpace(m.search.Value())), m.loadSaved())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m mealsModel) updateDetail(msg tea.KeyMsg) (mealsModel, tea.Cmd) {
	meal := *m.detail
	confirm := m.confirmDelete
	m.confirmDelete = false
	switch msg.String() {
	case "esc", "backspace":
		m.detail = nil
		m.detailLoading = false
		m.err = ""
	case "X":
		if !m.owns(meal) {
			return m, nil
		}
		if !confirm {
			m.confirmDelete = true
			m.status = fmt.Sprintf("Press [X] again to delete %q", meal.Name)
			return m, nil
		}
		return m, m.deleteMeal(meal.ID)
	case "f":
		return m, toggleMeal(m.deps, meal.ID)
	case "c":
		return m, consumeMeal(m.deps, meal.ID)
	case "y":
		return m, m.copyMeal(meal.ID)
	}
	return m, nil
}

func (m mealsModel) View() string {
	if m.detail != nil {
		return m.viewDetail()
	}

	var sb strings.Builder
	saved := m.deps.state.Meals.Snapshot()
	sb.WriteString(tabs([]string{"Browse", fmt.Sprintf("Saved (%d)", len(saved.Items))}, int(m.tab)))
	sb.WriteString("\n\n")

	if m.tab == tabBrowse {
		sb.WriteString(styleInput.Render(m.search.View()))
		sb.WriteString("\n\n")
	}

	switch {
	case m.loading:
		sb.WriteString(styleDimmed.Render("  Loading meals...") + "\n")
	case m.err != "":
		sb.WriteString(styleError.Render("  Error: "+m.err) + "\n")
	}

	list := m.currentList()
	if !m.loading && len(list) == 0 {
		empty := "  No meals found."
		if m.tab == tabSaved {
			empty = "  No saved meals yet. Press [f] on a meal to save it."
			if !m.deps.state.Session.Authenticated() {
				empty = "  Log in to see your saved meals."
			}
		}
		sb.WriteString(styleDimmed.Render(empty) + "\n")
	}

	for i, meal := range m.visible(list) {
		sb.WriteString(m.mealRow(meal, i+m.offset(len(list)) == m.listIdx))
	}

	if m.status != "" {
		sb.WriteString("\n" + styleOK.Render("  ✓ "+m.status) + "\n")
	}
	help := []string{"[Tab] browse/saved", "[/] search", "[Enter] details", "[f] save", "[c] ate this", "[y] copy", "[r] refresh"}
	sb.WriteString(styleHelp.Render(strings.Join(help, "  ")))
	return sb.String()
}

// offset keeps the cursor on screen for long lists.
func (m mealsModel) offset(n int) int {
	rows := m.height - 12
	if rows < 5 || n <= rows {
		return 0
	}
	off := m.listIdx - rows/2
	if off < 0 {
		off = 0
	}
	if off > n-rows {
		off = n - rows
	}
	return off
}

func (m mealsModel) visible(list []models.Meal) []models.Meal {
	off := m.offset(len(list))
	rows := m.height - 12
	if rows < 5 || len(list) <= rows {
		return list
	}
	return list[off : off+rows]
}

func (m mealsModel) mealRow(meal models.Meal, selected bool) string {
	mark := favoriteMark(m.deps.toggler.IsFavoriteMeal(meal.ID))
	if m.deps.toggler.Processing("meal:" + meal.ID) {
		mark = styleDimmed.Render("…")
	}
	name := truncate(meal.Name, 36)
	if meal.IsCopy() {
		name += styleDimmed.Render(" (copy)")
	}
	kcal := fmt.Sprintf("%4.0f kcal", meal.Macros.Calories)
	macros := fmt.Sprintf("P %3.0f  C %3.0f  F %3.0f", meal.Macros.Protein, meal.Macros.Carbs, meal.Macros.Fat)

	if selected {
		return fmt.Sprintf("%s %s %s  %s\n", mark,
			styleSelected.Render(padRight("> "+name, 44)),
			lipgloss.NewStyle().Foreground(colorCalories).Render(kcal),
			styleDimmed.Render(macros))
	}
	return fmt.Sprintf("%s %s %s  %s\n", mark,
		styleItemName.Render(padRight("  "+name, 44)),
		styleDimmed.Render(kcal),
		styleDimmed.Render(macros))
}

func (m mealsModel) viewDetail() string {
	meal := *m.detail
	var lines []string

	title := meal.Name
	if title == "" {
		title = "Meal"
	}
	lines = append(lines, favoriteMark(m.deps.toggler.IsFavoriteMeal(meal.ID))+" "+styleHeader.Render(title))

	if m.detailLoading {
		lines = append(lines, styleDimmed.Render("  Loading..."))
	}
	if m.err != "" {
		lines = append(lines, styleError.Render("  Error: "+m.err))
	}

	if meal.Creator != nil && meal.Creator.Name != "" {
		lines = append(lines, row("Created by", meal.Creator.Name))
	}
	if meal.IsCopy() {
		lines = append(lines, row("Copy of", meal.OriginalMealID))
	}
	if meal.Description != "" {
		lines = append(lines, "", "  "+meal.Description)
	}

	lines = append(lines, "", sectionLabel("Nutrition"))
	for _, n := range meal.Macros.Nutrients() {
		label := models.NutrientLabel(n.Name)
		if models.IsSubNutrient(n.Name) {
			label = "  " + label
		}
		value := fmt.Sprintf("%.1f %s", n.Value, n.Unit)
		lines = append(lines, lipgloss.NewStyle().Foreground(nutrientColor(n.Name)).Render(fmt.Sprintf("  %-16s", label))+styleItemName.Render(value))
	}

	if len(meal.Ingredients) > 0 {
		lines = append(lines, "", sectionLabel("Ingredients"))
		for _, ing := range meal.Ingredients {
			lines = append(lines, fmt.Sprintf("  %s %s",
				styleDimmed.Render(padRight(fmt.Sprintf("%g %s", ing.Quantity, ing.Unit), 10)),
				styleItemName.Render(ing.FoodItem.Name)))
		}
	}

	var tags []string
	tags = append(tags, meal.Tags.MealType...)
	tags = append(tags, meal.Tags.Cuisine...)
	tags = append(tags, meal.Tags.Diet...)
	if len(tags) > 0 {
		lines = append(lines, "", row("Tags", strings.Join(tags, ", ")))
	}
	if len(meal.Media.Images) > 0 {
		lines = append(lines, row("Images", meal.Media.Images[0]))
	}
	if meal.Media.Video != "" {
		lines = append(lines, row("Video", meal.Media.Video))
	}

	if m.status != "" {
		lines = append(lines, "", styleOK.Render("  ✓ "+m.status))
	}
	help := "[f] save/unsave  [c] ate this today  [y] copy  [Esc] back"
	if m.owns(meal) {
		help = "[f] save/unsave  [c] ate this today  [y] copy  [X] delete  [Esc] back"
	}
	lines = append(lines, styleHelp.Render(help))
	return applyScroll(lines, 0, m.height-2)
}
