package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/favorites"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

type page int

const (
	pageLogin page = iota
	pageProgress
	pageMeals
	pageDiets
	pageDietBuilder
	pageProfile
	pageProbe
)

// deps is what every page shares. Nothing in here is copied per page.
type deps struct {
	client  *api.Client
	state   *store.App
	toggler *favorites.Toggler
	now     func() time.Time
}

type App struct {
	page     page
	prev     page
	deps     *deps
	login    loginModel
	progress progressModel
	meals    mealsModel
	diets    dietsModel
	builder  dietBuilderModel
	profile  profileModel
	probe    probeModel
	dialog   dialogModel
	width    int
	height   int
}

// New wires the UI to an API client and the stores. The session must
// already be restored.
func New(client *api.Client, state *store.App) *App {
	d := &deps{
		client:  client,
		state:   state,
		toggler: favorites.New(client, state.Session, state.Meals, state.Diets),
		now:     time.Now,
	}
	a := &App{
		deps:     d,
		login:    newLoginModel(),
		progress: newProgressModel(d),
		meals:    newMealsModel(d),
		diets:    newDietsModel(d),
		profile:  newProfileModel(d),
	}
	if state.Session.Authenticated() {
		a.page = pageProgress
	} else {
		a.page = pageMeals
	}
	a.prev = a.page
	return a
}

func (a *App) Init() tea.Cmd {
	if a.page == pageProgress {
		return tea.Batch(a.progress.Init(), a.meals.loadSaved(), a.diets.loadSaved())
	}
	return a.meals.Init()
}

// typing reports whether the current page has a focused text input, in
// which case single-letter global keys must reach the page instead.
func (a *App) typing() bool {
	switch a.page {
	case pageLogin:
		return true
	case pageMeals:
		return a.meals.typing()
	case pageDiets:
		return a.diets.typing()
	case pageDietBuilder:
		return a.builder.typing()
	case pageProfile:
		return a.profile.typing()
	}
	return false
}

func (a *App) switchTo(p page) tea.Cmd {
	if p == a.page {
		return nil
	}
	a.prev, a.page = a.page, p
	switch p {
	case pageProgress:
		return a.progress.Init()
	case pageMeals:
		return a.meals.Init()
	case pageDiets:
		return a.diets.Init()
	case pageProfile:
		return a.profile.Init()
	case pageProbe:
		a.probe = newProbeModel(a.deps)
		a.probe.resize(a.width, a.height)
		return a.probe.load()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.login.width, a.login.height = msg.Width, msg.Height
		a.progress.width, a.progress.height = msg.Width, msg.Height
		a.meals.width, a.meals.height = msg.Width, msg.Height
		a.diets.width, a.diets.height = msg.Width, msg.Height
		a.builder.width, a.builder.height = msg.Width, msg.Height
		a.profile.width, a.profile.height = msg.Width, msg.Height
		if a.page != pageProbe {
			a.probe.resize(msg.Width, msg.Height)
		}
		a.dialog.width, a.dialog.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.dialog.open() {
			var cmd tea.Cmd
			a.dialog, cmd = a.dialog.Update(msg)
			return a, cmd
		}
		if !a.typing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				return a, a.switchTo(pageProgress)
			case "2":
				return a, a.switchTo(pageMeals)
			case "3":
				return a, a.switchTo(pageDiets)
			case "4":
				return a, a.switchTo(pageProfile)
			case "?":
				return a, a.switchTo(pageProbe)
			case "L":
				if a.deps.state.Session.Authenticated() {
					return a, doLogout(a.deps)
				}
			case "l":
				if !a.deps.state.Session.Authenticated() {
					return a, a.openLogin()
				}
			}
		}

	case toggleDoneMsg:
		cmds = append(cmds, a.handleOutcome(msg))

	case openLoginMsg:
		a.dialog = dialogModel{}
		return a, a.openLogin()

	case viewReferenceMsg:
		a.dialog = dialogModel{}
		if msg.ref.Kind == "meal" {
			a.prev, a.page = a.page, pageMeals
			return a, a.meals.openByID(msg.ref.ID)
		}
		a.prev, a.page = a.page, pageDiets
		return a, a.diets.openByID(msg.ref.ID)

	case apiErrorMsg:
		a.dialog = newErrorDialog(msg.text)
		a.dialog.width, a.dialog.height = a.width, a.height
		return a, nil

	case authRequiredMsg:
		a.dialog = newAuthDialog(msg.text)
		a.dialog.width, a.dialog.height = a.width, a.height
		return a, nil

	case forceUnlinkMsg:
		a.dialog = dialogModel{}
		return a, forceUnlink(a.deps, msg.target, msg.id)

	case loginSuccessMsg:
		a.deps.client.SetToken(msg.tokens.AccessToken)
		a.deps.client.SetRefresh(msg.tokens.RefreshToken, refreshCallback(a.deps.state.Session))
		a.login = newLoginModel()
		a.login.width, a.login.height = a.width, a.height
		a.page = pageProgress
		return a, tea.Batch(a.progress.Init(), a.meals.loadSaved(), a.diets.loadSaved())

	case loginCancelMsg:
		a.page = a.prev
		return a, nil

	case logoutMsg:
		a.deps.client.SetToken("")
		a.deps.client.SetRefresh("", nil)
		a.progress = newProgressModel(a.deps)
		a.profile = newProfileModel(a.deps)
		a.meals = newMealsModel(a.deps)
		a.diets = newDietsModel(a.deps)
		a.resize()
		a.page = pageMeals
		return a, a.meals.Init()

	case dietCreatedMsg:
		a.page = pageDiets
		a.diets.afterCreate(msg.diet)
		return a, nil

	case openBuilderMsg:
		if !a.deps.state.Session.Authenticated() {
			return a, func() tea.Msg { return authRequiredMsg{text: "Log in to create diet plans."} }
		}
		a.builder = newDietBuilderModel(a.deps)
		a.builder.width, a.builder.height = a.width, a.height
		a.prev, a.page = a.page, pageDietBuilder
		return a, a.builder.Init()

	case backMsg:
		if a.page == a.prev {
			a.page = pageProgress
		} else {
			a.page = a.prev
		}
		return a, nil

	case profileSavedMsg:
		// Body metrics drive the RDI, so the progress page is stale now.
		cmds = append(cmds, a.progress.reload())
	}

	// Delegate to current page
	switch a.page {
	case pageLogin:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg, a.deps)
		cmds = append(cmds, cmd)
	case pageProgress:
		var cmd tea.Cmd
		a.progress, cmd = a.progress.Update(msg)
		cmds = append(cmds, cmd)
	case pageMeals:
		var cmd tea.Cmd
		a.meals, cmd = a.meals.Update(msg)
		cmds = append(cmds, cmd)
	case pageDiets:
		var cmd tea.Cmd
		a.diets, cmd = a.diets.Update(msg)
		cmds = append(cmds, cmd)
	case pageDietBuilder:
		var cmd tea.Cmd
		a.builder, cmd = a.builder.Update(msg)
		cmds = append(cmds, cmd)
	case pageProfile:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		cmds = append(cmds, cmd)
	case pageProbe:
		var cmd tea.Cmd
		a.probe, cmd = a.probe.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Background pages still need their async results.
	if a.page != pageProgress {
		if _, ok := msg.(rdiLoadedMsg); ok {
			a.progress, _ = a.progress.Update(msg)
		}
	}
	if a.page != pageMeals {
		if _, ok := msg.(savedMealsLoadedMsg); ok {
			a.meals, _ = a.meals.Update(msg)
		}
	}
	if a.page != pageDiets {
		if _, ok := msg.(savedDietsLoadedMsg); ok {
			a.diets, _ = a.diets.Update(msg)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize() {
	a.progress.width, a.progress.height = a.width, a.height
	a.profile.width, a.profile.height = a.width, a.height
	a.meals.width, a.meals.height = a.width, a.height
	a.diets.width, a.diets.height = a.width, a.height
}

func (a *App) openLogin() tea.Cmd {
	a.prev, a.page = a.page, pageLogin
	a.login = newLoginModel()
	a.login.width, a.login.height = a.width, a.height
	return nil
}

// handleOutcome turns a finished toggle into a dialog or a refresh.
func (a *App) handleOutcome(msg toggleDoneMsg) tea.Cmd {
	out := msg.outcome
	switch out.Kind {
	case favorites.NeedsAuth:
		text := "Log in or register to save favorites."
		if msg.target == targetConsume {
			text = "Log in or register to track what you eat."
		}
		a.dialog = newAuthDialog(text)
	case favorites.Conflict:
		a.dialog = newConflictDialog(msg.target, out.TargetID, out.Message, out.References)
	case favorites.Failed:
		a.dialog = newErrorDialog(out.Message)
	case favorites.Busy:
		a.dialog = newErrorDialog("Still working on the previous change. Try again in a moment.")
	case favorites.Mutated:
		if msg.target == targetConsume {
			return a.progress.reload()
		}
	}
	a.dialog.width, a.dialog.height = a.width, a.height
	return nil
}

func (a *App) View() string {
	var body string
	switch a.page {
	case pageLogin:
		body = a.login.View()
	case pageProgress:
		body = a.progress.View()
	case pageMeals:
		body = a.meals.View()
	case pageDiets:
		body = a.diets.View()
	case pageDietBuilder:
		body = a.builder.View()
	case pageProfile:
		body = a.profile.View()
	case pageProbe:
		body = a.probe.View()
	}
	if a.dialog.open() {
		return a.dialog.View()
	}
	if a.page == pageLogin || a.page == pageProbe {
		return body
	}
	return a.navBar() + "\n\n" + body
}

func (a *App) navBar() string {
	labels := []string{"[1] Progress", "[2] Meals", "[3] Diets", "[4] Profile"}
	active := -1
	switch a.page {
	case pageProgress:
		active = 0
	case pageMeals:
		active = 1
	case pageDiets, pageDietBuilder:
		active = 2
	case pageProfile:
		active = 3
	}
	bar := tabs(labels, active)
	id := a.deps.state.Session.Identity()
	if a.deps.state.Session.Authenticated() {
		who := id.Name
		if who == "" {
			who = id.Email
		}
		bar += "  " + styleDimmed.Render(who+"  [L] logout")
	} else {
		bar += "  " + styleDimmed.Render("[l] login")
	}
	return bar
}

// refreshCallback persists tokens the API client obtained by refreshing.
func refreshCallback(s *store.Session) func(access, refresh string) {
	return func(access, refresh string) {
		if err := s.UpdateTokens(access, refresh); err != nil {
			logger.Error("persist refreshed tokens", zap.Error(err))
		}
	}
}

type logoutMsg struct{}
type backMsg struct{}

func doLogout(d *deps) tea.Cmd {
	return func() tea.Msg {
		if err := d.client.Logout(); err != nil {
			logger.Warn("server logout failed", zap.Error(err))
		}
		if err := d.state.Clear(); err != nil {
			logger.Error("clear session", zap.Error(err))
		}
		return logoutMsg{}
	}
}

// RestoreSession loads saved tokens into the stores and the client.
func RestoreSession(client *api.Client, state *store.App) {
	if err := state.Session.Restore(); err != nil {
		logger.Warn("restore session", zap.Error(err))
		return
	}
	t := state.Session.Tokens()
	client.SetToken(t.AccessToken)
	client.SetRefresh(t.RefreshToken, refreshCallback(state.Session))
}
