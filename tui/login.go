package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/auth"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
)

type loginModel struct {
	register bool
	inputs   []textinput.Model // name (register only), email, password
	focused  int
	err      string
	loading  bool
	width    int
	height   int
}

type loginSuccessMsg struct{ tokens auth.Tokens }
type loginErrMsg struct{ err string }
type loginCancelMsg struct{}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

func newLoginModel() loginModel {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 60
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Width = 40

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128
	pass.Width = 40

	m := loginModel{inputs: []textinput.Model{name, email, pass}}
	m.focus(fieldEmail)
	return m
}

// fields lists the visible inputs in tab order.
func (m loginModel) fields() []int {
	if m.register {
		return []int{fieldName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m *loginModel) focus(field int) {
	m.focused = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *loginModel) move(delta int) {
	fields := m.fields()
	pos := 0
	for i, f := range fields {
		if f == m.focused {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	m.focus(fields[pos])
}

func doLogin(d *deps, creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		resp, err := d.client.Login(creds)
		return finishLogin(d, creds.Email, resp, err)
	}
}

func doRegister(d *deps, reg models.Registration) tea.Cmd {
	return func() tea.Msg {
		resp, err := d.client.Register(reg)
		return finishLogin(d, reg.Email, resp, err)
	}
}

func finishLogin(d *deps, email string, resp api.TokenResponse, err error) tea.Msg {
	if err != nil {
		logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return loginErrMsg{err: api.Describe(err)}
	}
	tokens := auth.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := d.state.Session.Login(tokens); err != nil {
		logger.Error("store session", zap.Error(err))
		return loginErrMsg{err: "logged in but failed to save session: " + err.Error()}
	}
	logger.Info("logged in", zap.String("email", email))
	return loginSuccessMsg{tokens: tokens}
}

func (m loginModel) submit(d *deps) (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if m.register {
		reg := models.Registration{Name: strings.TrimSpace(m.inputs[fieldName].Value()), Email: email, Password: password}
		if err := models.Validate(reg); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.loading, m.err = true, ""
		return m, doRegister(d, reg)
	}
	creds := models.Credentials{Email: email, Password: password}
	if err := models.Validate(creds); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.loading, m.err = true, ""
	return m, doLogin(d, creds)
}

func (m loginModel) Update(msg tea.Msg, d *deps) (loginModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case loginErrMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return loginCancelMsg{} }
		case "ctrl+r":
			m.register = !m.register
			m.err = ""
			if m.register {
				m.focus(fieldName)
			} else {
				m.focus(fieldEmail)
			}
			return m, nil
		case "tab", "down":
			m.move(1)
			return m, nil
		case "shift+tab", "up":
			m.move(-1)
			return m, nil
		case "enter":
			if m.focused != fieldPassword {
				m.move(1)
				return m, nil
			}
			return m.submit(d)
		}
	}

	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m loginModel) View() string {
	title := "Log in"
	if m.register {
		title = "Create account"
	}
	logo := styleHeader.Render("NUTRIPLAN · " + title)
	subtitle := styleDimmed.Render("Meals, diet plans and daily intake from the terminal")

	labels := map[int]string{fieldName: "Name", fieldEmail: "Email", fieldPassword: "Password"}
	var form []string
	for _, f := range m.fields() {
		label := "  " + labels[f]
		if f == m.focused {
			label = styleSelected.Render("> " + labels[f])
		}
		form = append(form, label, styleInput.Width(m.inputs[f].Width).Render(m.inputs[f].View()), "")
	}

	var status string
	switch {
	case m.loading:
		status = styleDimmed.Render("Please wait...")
	case m.err != "":
		status = styleError.Render("✗ " + m.err)
	default:
		other := "register"
		if m.register {
			other = "log in instead"
		}
		status = styleDimmed.Render(fmt.Sprintf("Enter submit • Tab switch field • Ctrl+R %s • Esc back", other))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		logo,
		subtitle,
		"",
		lipgloss.JoinVertical(lipgloss.Left, form...),
		status,
	)

	box := styleBorder.Render(content)
	if m.width > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return fmt.Sprintf("\n%s\n", strings.TrimSpace(box))
}
