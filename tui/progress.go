package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
	"github.com/koriwi/nutriplan-cli/internal/nutrition"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

type progressMode int

const (
	modeDay progressMode = iota
	modeWeek
	modeMonth
)

type progressModel struct {
	deps    *deps
	mode    progressMode
	date    time.Time
	state   store.RDIState
	loading bool
	err     string
	spinner spinner.Model
	width   int
	height  int
}

type rdiLoadedMsg struct {
	ticket store.Ticket
	err    error
}

func newProgressModel(d *deps) progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return progressModel{deps: d, date: d.now(), spinner: sp}
}

func (m *progressModel) Init() tea.Cmd {
	return m.reload()
}

func (m *progressModel) reload() tea.Cmd {
	if !m.deps.state.Session.Authenticated() {
		return nil
	}
	m.loading = true
	m.err = ""
	return tea.Batch(m.loadRDI(), m.spinner.Tick)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// loadRDI fetches every snapshot the page can show in one round. Results
// from an older round are dropped by the store.
func (m progressModel) loadRDI() tea.Cmd {
	client := m.deps.client
	rdi := m.deps.state.RDI
	date := m.date
	fetchDate := !sameDay(date, m.deps.now())

	ticket := rdi.Begin()
	rdi.SelectDate(date)

	return func() tea.Msg {
		var g errgroup.Group
		variants := []models.RDIVariant{models.RDIToday, models.RDIBase, models.RDIWeek, models.RDIMonth}
		if fetchDate {
			variants = append(variants, models.RDIDate)
		}
		for _, v := range variants {
			v := v
			g.Go(func() error {
				snap, err := client.GetRDI(v, date)
				if err != nil {
					return fmt.Errorf("rdi %s: %w", v, err)
				}
				rdi.Apply(ticket, v, snap)
				return nil
			})
		}
		err := g.Wait()
		if err != nil {
			logger.Error("load rdi", zap.Error(err))
		}
		return rdiLoadedMsg{ticket: ticket, err: err}
	}
}

func (m progressModel) Update(msg tea.Msg) (progressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case rdiLoadedMsg:
		if uint64(msg.ticket) != m.deps.state.RDI.Snapshot().Generation {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = api.Describe(msg.err)
		}
		m.state = m.deps.state.RDI.Snapshot()

	case tea.KeyMsg:
		if m.loading {
			break
		}
		switch msg.String() {
		case "left", "h":
			m.mode = modeDay
			m.date = m.date.AddDate(0, 0, -1)
			return m, m.reload()
		case "right", "l":
			if m.date.Before(startOfDay(m.deps.now())) {
				m.mode = modeDay
				m.date = m.date.AddDate(0, 0, 1)
				return m, m.reload()
			}
		case "t":
			m.mode = modeDay
			m.date = m.deps.now()
			return m, m.reload()
		case "d":
			m.mode = modeDay
		case "w":
			m.mode = modeWeek
		case "m":
			m.mode = modeMonth
		case "r":
			return m, m.reload()
		}
	}
	return m, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// remaining picks the "remaining" snapshot for the current day view.
func (m progressModel) remaining() *models.RDISnapshot {
	if sameDay(m.date, m.deps.now()) {
		return m.state.Today
	}
	return m.state.Date
}

func (m progressModel) View() string {
	if !m.deps.state.Session.Authenticated() {
		return styleDimmed.Render("  Log in to see your daily intake.  [l] login")
	}
	if m.loading {
		return fmt.Sprintf("\n  %s Loading intake...\n", m.spinner.View())
	}

	var sb strings.Builder
	sb.WriteString(tabs([]string{"[d] Day", "[w] Week avg", "[m] Month avg"}, int(m.mode)))
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(styleError.Render("Error: "+m.err) + "\n\n")
	}

	base := m.state.Base
	if base == nil || len(base.Nutrients) == 0 {
		sb.WriteString(styleDimmed.Render("  No targets yet. Fill in your profile ([4]) to get recommendations.") + "\n")
		return sb.String()
	}

	switch m.mode {
	case modeDay:
		sb.WriteString(m.viewDay(base))
	case modeWeek:
		now := m.deps.now()
		avg := nutrition.BuildWeeklyAverageRDI(m.state.Week, now)
		sb.WriteString(m.viewAverage("this week", avg, nutrition.RemainingDaysInWeek(now), base))
	case modeMonth:
		now := m.deps.now()
		avg := nutrition.BuildMonthlyAverageRDI(m.state.Month, now)
		sb.WriteString(m.viewAverage("this month", avg, nutrition.RemainingDaysInMonth(now), base))
	}

	help := []string{"[←/→] date", "[t] today", "[d/w/m] view", "[r] refresh", "[?] api probe", "[q] quit"}
	sb.WriteString(styleHelp.Render(strings.Join(help, "  ")))
	return sb.String()
}

func (m progressModel) viewDay(base *models.RDISnapshot) string {
	var sb strings.Builder

	canGoRight := m.date.Before(startOfDay(m.deps.now()))
	right := "→"
	if !canGoRight {
		right = styleDimmed.Render("→")
	}
	sb.WriteString(styleNav.Render(fmt.Sprintf("← %s %s", formatDate(m.date, m.deps.now()), right)))
	sb.WriteString("\n\n")

	remaining := m.remaining()
	var remainingList []models.Nutrient
	if remaining != nil {
		remainingList = remaining.Nutrients
	}
	progress := nutrition.CalculateNutritionProgress(remainingList, base.Nutrients)
	if progress == nil {
		sb.WriteString(styleDimmed.Render("  Nothing tracked for this day.") + "\n")
		return sb.String()
	}

	for _, row := range nutrition.MergeProgress(base.Nutrients, progress) {
		sb.WriteString(renderProgressRow(row, 30))
	}

	radial := nutrition.BuildPercentRadialData(nutrition.ConsumedList(progress), base.Nutrients)
	sb.WriteString("\n")
	sb.WriteString(renderRadial(radial))
	return sb.String()
}

func (m progressModel) viewAverage(period string, avg *models.RDISnapshot, days int, base *models.RDISnapshot) string {
	var sb strings.Builder
	if avg == nil {
		sb.WriteString(styleDimmed.Render("  No data for "+period+".") + "\n")
		return sb.String()
	}
	note := fmt.Sprintf("Remaining per day for the %d days left %s", days, period)
	if days <= 1 {
		note = "Last day of the period: remaining totals"
	}
	sb.WriteString(styleSection.Render(note) + "\n\n")
	sb.WriteString(styleDimmed.Render(fmt.Sprintf("  %s %12s %12s", padRight("", 12), "per day", "daily target")) + "\n")
	for _, n := range avg.Nutrients {
		target := 0.0
		if t, ok := models.FindNutrient(base.Nutrients, n.Name); ok {
			target = t.Value
		}
		label := models.NutrientLabel(n.Name)
		if models.IsSubNutrient(n.Name) {
			label = "  " + label
		}
		style := lipgloss.NewStyle().Foreground(nutrientColor(n.Name))
		value := fmt.Sprintf("%12.0f", n.Value)
		if n.Value < 0 {
			value = styleError.Render(value)
		}
		sb.WriteString(fmt.Sprintf("  %s %s %12.0f %s\n", style.Render(padRight(label, 12)), value, target, n.Unit))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderProgressRow(row nutrition.Row, width int) string {
	label := models.NutrientLabel(row.Name)
	barW := width
	if models.IsSubNutrient(row.Name) {
		label = "  " + label
		barW = width - 10
	}
	p := row.Progress
	if p == nil {
		return fmt.Sprintf("  %s  %s\n", padRight(label, 12), styleDimmed.Render(fmt.Sprintf("%.0f %s", row.Value, row.Unit)))
	}
	bar := renderBar(p.Percent, barW, nutrientColor(row.Name))
	status := styleDimmed.Render(p.Status)
	if p.Status == nutrition.StatusGoalExceeded {
		status = styleError.Render(p.Status)
	}
	nums := fmt.Sprintf("%.0f / %.0f %s", p.Consumed, p.Target, p.Unit)
	return fmt.Sprintf("  %s [%s] %7s  %-22s %s\n",
		padRight(label, 12), bar, nutrition.FormatPercent(p.Percent), nums, status)
}

func renderBar(percent float64, width int, color lipgloss.Color) string {
	pct := percent / 100
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	empty := width - filled
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("░", empty))
}

// renderRadial draws the ring chart as one compact gauge per ring.
func renderRadial(data nutrition.RadialData) string {
	var parts []string
	for _, e := range data.Entries {
		if e.Opacity == 0 {
			continue
		}
		gauge := renderBar(e.Percent, 10, nutrientColor(e.Name))
		parts = append(parts, fmt.Sprintf("%s %s %3.0f%%", models.NutrientLabel(e.Name), gauge, e.Percent))
	}
	out := "  " + strings.Join(parts, "   ") + "\n"
	if data.AllGoalsReached {
		out += "  " + styleOK.Render("✓ All goals reached") + "\n"
	}
	return out
}

func formatDate(t, now time.Time) string {
	if sameDay(t, now) {
		return "Today"
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return t.Format("Mon, Jan 2")
}
