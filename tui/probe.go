package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/koriwi/nutriplan-cli/internal/auth"
)

type probeResult struct {
	label  string
	path   string
	status int
	took   time.Duration
	body   string
	err    string
}

// probeModel hits the read-only endpoints with the current session and
// shows the raw answers. Used to diagnose backend or token problems.
type probeModel struct {
	deps     *deps
	identity auth.Identity
	token    string
	results  []probeResult
	loading  bool
	vp       viewport.Model
	width    int
	height   int
}

type probeLoadedMsg struct{ results []probeResult }

func newProbeModel(d *deps) probeModel {
	return probeModel{
		deps:     d,
		identity: d.state.Session.Identity(),
		token:    d.client.Token(),
		loading:  true,
		vp:       viewport.New(0, 0),
	}
}

// resize fits the scroll area between the header and the help line.
func (m *probeModel) resize(width, height int) {
	m.width, m.height = width, height
	m.vp.Width = width
	m.vp.Height = max(height-2, 1)
	m.vp.SetContent(m.body())
}

func (m probeModel) load() tea.Cmd {
	client := m.deps.client
	today := m.deps.now().Format(time.DateOnly)
	authed := m.deps.state.Session.Authenticated()

	return func() tea.Msg {
		paths := []struct{ label, path string }{
			{"meals", "/meals"},
			{"diets", "/diets"},
		}
		if authed {
			paths = append(paths, []struct{ label, path string }{
				{"profile", "/users/me/profile"},
				{"saved meals", "/users/me/meals"},
				{"saved diets", "/users/me/diets"},
				{"weights", "/users/me/weights"},
				{"rdi base", "/rdi/base"},
				{"rdi today", "/rdi/today"},
				{"rdi date", "/rdi/date?date=" + today},
				{"rdi week", "/rdi/week"},
				{"rdi month", "/rdi/month"},
			}...)
		}

		results := make([]probeResult, len(paths))
		var g errgroup.Group
		g.SetLimit(4)
		for i, p := range paths {
			i, p := i, p
			g.Go(func() error {
				start := time.Now()
				body, status, err := client.GetRaw(p.path)
				r := probeResult{label: p.label, path: p.path, status: status, took: time.Since(start)}
				if err != nil {
					r.err = err.Error()
				} else {
					r.body = truncateLines(prettyJSON(body), 12)
				}
				results[i] = r
				return nil
			})
		}
		_ = g.Wait()
		return probeLoadedMsg{results: results}
	}
}

func (m probeModel) Update(msg tea.Msg) (probeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backMsg{} }
		case "g":
			m.vp.GotoTop()
			return m, nil
		case "r":
			m.loading = true
			m.vp.SetContent(m.body())
			return m, m.load()
		}

	case probeLoadedMsg:
		m.loading = false
		m.results = msg.results
		m.vp.SetContent(m.body())
		m.vp.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m probeModel) View() string {
	help := "[↑/↓] scroll  [g] top  [r] rerun  [Esc] back"
	return m.vp.View() + "\n" + styleHelp.Render(help)
}

func (m probeModel) body() string {
	var lines []string

	lines = append(lines, styleHeader.Render("API probe"), "")

	lines = append(lines, sectionLabel("Session"))
	if m.identity.UserID == "" && m.token == "" {
		lines = append(lines, styleDimmed.Render("  not logged in"))
	} else {
		lines = append(lines, row("User", m.identity.UserID))
		lines = append(lines, row("Email", m.identity.Email))
		if !m.identity.ExpiresAt.IsZero() {
			exp := m.identity.ExpiresAt.Format(time.RFC3339)
			if m.identity.Expired(m.deps.now()) {
				exp += styleError.Render("  expired")
			}
			lines = append(lines, row("Expires", exp))
		}
		tokenPreview := m.token
		if len(m.token) > 16 {
			tokenPreview = m.token[:8] + "…" + m.token[len(m.token)-8:]
		}
		lines = append(lines, row("Token", tokenPreview))
	}
	lines = append(lines, "")

	if m.loading {
		lines = append(lines, styleDimmed.Render("  Probing…"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, sectionLabel("Endpoints"))
	okStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	for _, r := range m.results {
		statusStyle := okStyle
		if r.err != "" || r.status >= 400 {
			statusStyle = styleError
		}
		lines = append(lines, fmt.Sprintf("  %s  %s  %s  %s",
			styleDimmed.Render(padRight(r.label, 12)),
			styleItemName.Render(r.path),
			statusStyle.Render(fmt.Sprintf("HTTP %d", r.status)),
			styleDimmed.Render(r.took.Round(time.Millisecond).String()),
		))
		if r.err != "" {
			lines = append(lines, styleError.Render("    "+r.err))
		} else {
			for _, l := range strings.Split(r.body, "\n") {
				lines = append(lines, "    "+styleDimmed.Render(l))
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func applyScroll(lines []string, scrollY, height int) string {
	visible := lines
	if scrollY > 0 {
		if scrollY < len(lines) {
			visible = lines[scrollY:]
		} else {
			visible = lines[len(lines)-1:]
		}
	}
	if height > 2 && len(visible) > height-1 {
		visible = visible[:height-1]
	}
	return strings.Join(visible, "\n")
}

func sectionLabel(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("── " + s + " ──")
}

func row(label, value string) string {
	l := lipgloss.NewStyle().Foreground(colorMuted).Render(fmt.Sprintf("  %-16s", label))
	return l + styleItemName.Render(value)
}

func prettyJSON(s string) string {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s
	}
	return string(b)
}

func truncateLines(s string, max int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[:max], "\n") + fmt.Sprintf("\n  … (%d more lines)", len(lines)-max)
}
