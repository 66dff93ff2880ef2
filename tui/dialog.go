package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/models"
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogAuth
	dialogError
	dialogConflict
)

// dialogModel is the modal shown over any page. Only one is open at a time.
type dialogModel struct {
	kind     dialogKind
	message  string
	refs     []models.Reference
	target   toggleTarget
	targetID string
	selected int
	width    int
	height   int
}

// apiErrorMsg puts a failed call in front of the user.
type apiErrorMsg struct{ text string }

func showError(err error) tea.Cmd {
	text := api.Describe(err)
	return func() tea.Msg { return apiErrorMsg{text: text} }
}

type openLoginMsg struct{}
type viewReferenceMsg struct{ ref models.Reference }
type forceUnlinkMsg struct {
	target toggleTarget
	id     string
}

func newAuthDialog(text string) dialogModel {
	return dialogModel{kind: dialogAuth, message: text}
}

func newErrorDialog(text string) dialogModel {
	if text == "" {
		text = "Something went wrong."
	}
	return dialogModel{kind: dialogError, message: text}
}

func newConflictDialog(target toggleTarget, id, text string, refs []models.Reference) dialogModel {
	return dialogModel{kind: dialogConflict, target: target, targetID: id, message: text, refs: refs}
}

func (m dialogModel) open() bool { return m.kind != dialogNone }

func (m dialogModel) Update(msg tea.Msg) (dialogModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.kind {
	case dialogAuth:
		switch key.String() {
		case "enter", "l":
			return dialogModel{}, func() tea.Msg { return openLoginMsg{} }
		case "esc", "q":
			return dialogModel{}, nil
		}

	case dialogError:
		switch key.String() {
		case "enter", "esc", "q":
			return dialogModel{}, nil
		}

	case dialogConflict:
		switch key.String() {
		case "j", "down":
			if m.selected < len(m.refs)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "enter", "v":
			if len(m.refs) > 0 {
				ref := m.refs[m.selected]
				return dialogModel{}, func() tea.Msg { return viewReferenceMsg{ref: ref} }
			}
		case "F":
			target, id := m.target, m.targetID
			return dialogModel{}, func() tea.Msg { return forceUnlinkMsg{target: target, id: id} }
		case "esc", "q":
			return dialogModel{}, nil
		}
	}
	return m, nil
}

func (m dialogModel) View() string {
	var lines []string
	switch m.kind {
	case dialogAuth:
		lines = append(lines,
			styleHeader.Render("Login required"),
			m.message,
			"",
			styleHelp.Render("[Enter] log in / register  [Esc] not now"),
		)

	case dialogError:
		lines = append(lines,
			styleError.Render("✗ Error"),
			"",
			m.message,
			"",
			styleHelp.Render("[Enter] close"),
		)

	case dialogConflict:
		what := "meal"
		if m.target == targetDiet {
			what = "diet"
		}
		lines = append(lines,
			styleError.Render(fmt.Sprintf("This %s is still in use", what)),
			m.message,
			"",
			styleDimmed.Render("Referenced by:"),
		)
		for i, r := range m.refs {
			line := "  " + r.Label()
			if i == m.selected {
				line = styleSelected.Render("> " + r.Label())
			}
			lines = append(lines, line)
		}
		lines = append(lines,
			"",
			styleHelp.Render("[↑/↓] select  [Enter] view reference  [F] force unlink  [Esc] cancel"),
		)
	}

	box := styleDialog.Render(strings.Join(lines, "\n"))
	if m.width > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
