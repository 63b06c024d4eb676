package ui

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
	tea "github.com/charmbracelet/bubbletea"
)

// ── Bubble Tea model ─────────────────────────────────────────────────────────

// EditorModel is the Bubble Tea model for the constructor parameter editor.
// It lists one field per constructor input, lets the user navigate with
// ↑↓ / j k, edit the highlighted field with Enter and save with s. Every
// edit goes through Draft.Update, so a value only lands if the re-encoded
// blob decodes cleanly.
type EditorModel struct {
	ContractName string
	Draft        *ctorargs.Draft

	cursor   int
	editing  bool
	input    string
	rejected int // index of the field whose last edit was not applied, -1 if none

	// output
	Saved    bool
	Quitting bool
}

// NewEditor wraps d for editing.
func NewEditor(name string, d *ctorargs.Draft) EditorModel {
	return EditorModel{ContractName: name, Draft: d, rejected: -1}
}

func (m EditorModel) Init() tea.Cmd { return nil }

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.editing {
		return m.updateEditing(key), nil
	}

	params := m.Draft.Params()
	switch key.String() {
	case "q", "esc":
		m.Quitting = true
		return m, tea.Quit
	case "s":
		if m.Draft.Status().Valid {
			m.Saved = true
			return m, tea.Quit
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.rejected = -1
		}
	case "down", "j":
		if m.cursor < len(params)-1 {
			m.cursor++
			m.rejected = -1
		}
	case "enter", " ":
		if len(params) > 0 && m.Draft.Status().Valid {
			m.editing = true
			m.input = m.currentValue(m.cursor)
			m.rejected = -1
		}
	}
	return m, nil
}

func (m EditorModel) updateEditing(key tea.KeyMsg) EditorModel {
	switch key.Type {
	case tea.KeyEnter:
		name := m.Draft.Params()[m.cursor].Name
		if err := m.Draft.Update(name, m.input); err != nil {
			m.rejected = m.cursor
		}
		m.editing = false
		m.input = ""
	case tea.KeyEsc:
		m.editing = false
		m.input = ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m
}

// currentValue is the display form of field i, or "" when the blob is invalid.
func (m EditorModel) currentValue(i int) string {
	values, err := m.Draft.Values()
	if err != nil || i >= len(values) {
		return ""
	}
	return values[i].String()
}

func (m EditorModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	const sepWidth = 72

	title := "  Constructor Parameters"
	if m.ContractName != "" {
		title += "  ·  " + m.ContractName
	}
	sb.WriteString(StyleTitle.Render(title) + "\n\n")

	params := m.Draft.Params()
	status := m.Draft.Status()

	switch {
	case len(params) == 0:
		sb.WriteString("  " + StyleMeta.Render("constructor takes no arguments") + "\n")
	case !status.Valid:
		sb.WriteString("  " + StyleError.Render(status.Message()) + "\n")
	default:
		width := 0
		for _, p := range params {
			width = max(width, len(p.Name)+len(p.Type)+1)
		}
		for i, p := range params {
			selected := i == m.cursor
			prefix := "    "
			if selected {
				prefix = "  ▸ "
			}
			label := padR(p.Type+" "+p.Name, width)

			value := StyleValue.Render(m.currentValue(i))
			if selected && m.editing {
				value = StyleAddress.Render(m.input) + "█"
			}
			line := prefix + StyleMeta.Render(label) + "  " + value
			if i == m.rejected {
				line += "  " + StyleError.Render("✗ not applied")
			}

			if selected && !m.editing {
				sb.WriteString(StyleSelected.Render(line) + "\n")
			} else {
				sb.WriteString(line + "\n")
			}
		}
	}

	ruler := StyleMeta.Render(strings.Repeat("─", sepWidth))
	sb.WriteString("\n" + ruler + "\n")
	sb.WriteString(StyleMeta.Render("  0x") + StyleAddress.Render(wrapHex(m.Draft.Blob(), 64, "    ")) + "\n")
	sb.WriteString(ruler + "\n\n")

	if m.editing {
		sb.WriteString(
			StyleInfo.Render("  [ Enter ]") + " apply   " +
				StyleMeta.Render("[ Esc ]") + " cancel\n")
	} else {
		sb.WriteString(
			StyleMeta.Render("  [ ↑↓ / jk ]") + " navigate   " +
				StyleInfo.Render("[ Enter ]") + " edit   " +
				StyleSuccess.Render("[ s ]") + " save   " +
				StyleMeta.Render("[ q ]") + " quit\n")
	}

	return sb.String()
}

// RunEditor launches the parameter editor with altscreen. It returns the
// committed blob and whether the user saved it.
func RunEditor(m EditorModel) (string, bool, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("editor: %w", err)
	}
	fm := final.(EditorModel)
	if !fm.Saved {
		return "", false, nil
	}
	return fm.Draft.Blob(), true, nil
}

// padR pads s with spaces to width. Longer strings are returned as-is.
func padR(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// wrapHex breaks s into lines of n characters, indenting continuation lines.
func wrapHex(s string, n int, indent string) string {
	if len(s) <= n {
		return s
	}
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"+indent)
}
