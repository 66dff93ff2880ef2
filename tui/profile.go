package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
)

const (
	profGender = iota
	profAge
	profHeight
	profWeight
	profTarget
	profActivity
	profGoal
	profNewWeight
	profFieldCount
)

type profileModel struct {
	deps    *deps
	profile models.UserProfile
	weights []models.WeightEntry
	inputs  map[int]*textinput.Model
	focused int
	loaded  bool
	loading bool
	saving  bool
	err     string
	status  string
	width   int
	height  int
}

type profileLoadedMsg struct {
	profile *models.UserProfile
	weights []models.WeightEntry
	err     error
}

type profileSavedMsg struct{ profile models.UserProfile }
type profileErrMsg struct{ err error }
type weightAddedMsg struct{ entry models.WeightEntry }

func newNumberInput(placeholder string) *textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 6
	ti.Width = 8
	return &ti
}

func newProfileModel(d *deps) profileModel {
	return profileModel{
		deps: d,
		inputs: map[int]*textinput.Model{
			profAge:       newNumberInput("30"),
			profHeight:    newNumberInput("175"),
			profWeight:    newNumberInput("70"),
			profTarget:    newNumberInput("68"),
			profNewWeight: newNumberInput("70.5"),
		},
	}
}

func (m *profileModel) Init() tea.Cmd {
	if !m.deps.state.Session.Authenticated() || m.loading {
		return nil
	}
	m.loading = true
	m.err = ""
	client := m.deps.client
	return func() tea.Msg {
		var (
			g       errgroup.Group
			profile *models.UserProfile
			weights []models.WeightEntry
		)
		g.Go(func() error {
			var err error
			profile, err = client.GetProfile()
			return err
		})
		g.Go(func() error {
			var err error
			weights, err = client.ListWeights()
			return err
		})
		if err := g.Wait(); err != nil {
			logger.Warn("load profile", zap.Error(err))
			return profileLoadedMsg{profile: profile, weights: weights, err: err}
		}
		return profileLoadedMsg{profile: profile, weights: weights}
	}
}

func (m profileModel) typing() bool {
	_, ok := m.inputs[m.focused]
	return ok
}

func (m *profileModel) focus(field int) {
	m.focused = field
	for i, in := range m.inputs {
		if i == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (m *profileModel) fill(p models.UserProfile) {
	m.profile = p
	m.inputs[profAge].SetValue(formatNumber(float64(p.Age)))
	m.inputs[profHeight].SetValue(formatNumber(p.Height))
	m.inputs[profWeight].SetValue(formatNumber(p.Weight))
	m.inputs[profTarget].SetValue(formatNumber(p.TargetWeight))
}

func parseNumber(in *textinput.Model) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(in.Value(), ",", ".")), 64)
	return v
}

// collect reads the form back into a profile. Unparseable numbers become 0
// and are reported by validation.
func (m profileModel) collect() models.UserProfile {
	p := m.profile
	p.Age = int(parseNumber(m.inputs[profAge]))
	p.Height = parseNumber(m.inputs[profHeight])
	p.Weight = parseNumber(m.inputs[profWeight])
	p.TargetWeight = parseNumber(m.inputs[profTarget])
	return p
}

func cycle(options []string, current string, delta int) string {
	i := slices.Index(options, current)
	if i < 0 {
		if delta > 0 {
			return options[0]
		}
		return options[len(options)-1]
	}
	return options[(i+delta+len(options))%len(options)]
}

func (m profileModel) save() (profileModel, tea.Cmd) {
	p := m.collect()
	if err := models.Validate(p); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.saving = true
	m.err = ""
	client := m.deps.client
	return m, func() tea.Msg {
		saved, err := client.UpdateProfile(p)
		if err != nil {
			logger.Warn("update profile", zap.Error(err))
			return profileErrMsg{err: err}
		}
		logger.Info("profile updated", zap.String("goal", saved.Goal))
		return profileSavedMsg{profile: *saved}
	}
}

func (m profileModel) addWeight() (profileModel, tea.Cmd) {
	entry := models.WeightEntry{Weight: parseNumber(m.inputs[profNewWeight]), Date: m.deps.now()}
	if err := models.Validate(entry); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.saving = true
	m.err = ""
	client := m.deps.client
	return m, func() tea.Msg {
		saved, err := client.AddWeight(entry)
		if err != nil {
			logger.Warn("add weight", zap.Error(err))
			return profileErrMsg{err: err}
		}
		return weightAddedMsg{entry: *saved}
	}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case profileLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.err != nil {
			m.err = api.Describe(msg.err)
		}
		if msg.profile != nil {
			m.fill(*msg.profile)
		}
		if msg.weights != nil {
			m.weights = msg.weights
		}

	case profileSavedMsg:
		m.saving = false
		m.fill(msg.profile)
		m.status = "Profile saved. Targets are being recalculated."

	case weightAddedMsg:
		m.saving = false
		m.weights = append(m.weights, msg.entry)
		slices.SortFunc(m.weights, func(a, b models.WeightEntry) int { return a.Date.Compare(b.Date) })
		m.inputs[profNewWeight].SetValue("")
		m.status = fmt.Sprintf("Logged %.1f kg", msg.entry.Weight)

	case profileErrMsg:
		m.saving = false
		m.err = api.Describe(msg.err)

	case tea.KeyMsg:
		if m.saving || !m.deps.state.Session.Authenticated() {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focus((m.focused + 1) % profFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.focus((m.focused + profFieldCount - 1) % profFieldCount)
			return m, nil
		case "ctrl+s":
			m.status = ""
			return m.save()
		case "enter":
			m.status = ""
			if m.focused == profNewWeight {
				return m.addWeight()
			}
			return m.save()
		case "left", "right":
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			switch m.focused {
			case profGender:
				m.profile.Gender = cycle(models.Genders, m.profile.Gender, delta)
				return m, nil
			case profActivity:
				m.profile.ActivityLevel = cycle(models.ActivityLevels, m.profile.ActivityLevel, delta)
				return m, nil
			case profGoal:
				m.profile.Goal = cycle(models.Goals, m.profile.Goal, delta)
				return m, nil
			}
		}
		if in, ok := m.inputs[m.focused]; ok {
			updated, cmd := in.Update(msg)
			*in = updated
			return m, cmd
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	if !m.deps.state.Session.Authenticated() {
		return styleDimmed.Render("  Log in to manage your profile.  [l] login")
	}
	if m.loading && !m.loaded {
		return styleDimmed.Render("  Loading profile...")
	}

	var lines []string
	id := m.deps.state.Session.Identity()
	title := "Profile"
	if id.Name != "" {
		title = id.Name
	}
	lines = append(lines, styleHeader.Render(title))
	if id.Email != "" {
		lines = append(lines, row("Email", id.Email))
	}
	lines = append(lines, "", sectionLabel("Body metrics"))

	selector := func(field int, label, value string) string {
		if value == "" {
			value = "not set"
		}
		if m.focused == field {
			return styleSelected.Render(fmt.Sprintf("> %-16s", label)) + " ◀ " + styleItemName.Render(value) + " ▶"
		}
		return row(label, value)
	}
	input := func(field int, label, unit string) string {
		l := fmt.Sprintf("  %-16s", label)
		if m.focused == field {
			l = styleSelected.Render(fmt.Sprintf("> %-16s", label))
		} else {
			l = lipgloss.NewStyle().Foreground(colorMuted).Render(l)
		}
		return l + m.inputs[field].View() + " " + styleDimmed.Render(unit)
	}

	lines = append(lines,
		selector(profGender, "Gender", m.profile.Gender),
		input(profAge, "Age", "years"),
		input(profHeight, "Height", "cm"),
		input(profWeight, "Weight", "kg"),
		input(profTarget, "Target weight", "kg"),
		selector(profActivity, "Activity", models.ActivityLabel(m.profile.ActivityLevel)),
		selector(profGoal, "Goal", m.profile.Goal),
	)
	if !m.profile.Complete() {
		lines = append(lines, styleDimmed.Render("  Complete your metrics to get daily targets."))
	}

	lines = append(lines, "", sectionLabel("Weight history"), input(profNewWeight, "Log weight", "kg  [Enter] add"))
	if len(m.weights) == 0 {
		lines = append(lines, styleDimmed.Render("  No entries yet."))
	}
	start := 0
	if len(m.weights) > 8 {
		start = len(m.weights) - 8
	}
	for i := start; i < len(m.weights); i++ {
		w := m.weights[i]
		delta := ""
		if i > 0 {
			d := w.Weight - m.weights[i-1].Weight
			switch {
			case d > 0:
				delta = styleDimmed.Render(fmt.Sprintf("  +%.1f", d))
			case d < 0:
				delta = styleOK.Render(fmt.Sprintf("  %.1f", d))
			}
		}
		lines = append(lines, fmt.Sprintf("  %s  %6.1f kg%s", styleDimmed.Render(w.Date.Format("2006-01-02")), w.Weight, delta))
	}

	switch {
	case m.saving:
		lines = append(lines, "", styleDimmed.Render("  Saving..."))
	case m.err != "":
		lines = append(lines, "", styleError.Render("  ✗ "+m.err))
	case m.status != "":
		lines = append(lines, "", styleOK.Render("  ✓ "+m.status))
	}
	lines = append(lines, styleHelp.Render("[↑/↓] field  [←/→] change option  [Enter/Ctrl+S] save"))
	return applyScroll(lines, 0, m.height-2)
}
