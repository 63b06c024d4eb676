package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WizardResult holds answers collected by the setup wizard.
type WizardResult struct {
	DefaultNetwork string
	BackendURL     string
}

// --- Bubble Tea model ---

type wizardStep int

const (
	stepNetwork wizardStep = iota
	stepBackend
	stepDone
)

type wizardModel struct {
	step      wizardStep
	result    WizardResult
	cursor    int
	choices   []string
	input     string
	inputMode bool
	aborted   bool
}

func initialWizard(networks []string, backend string) wizardModel {
	return wizardModel{
		step:    stepNetwork,
		choices: networks,
		input:   backend,
	}
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit

		case tea.KeyUp:
			if !m.inputMode && m.cursor > 0 {
				m.cursor--
			}

		case tea.KeyDown:
			if !m.inputMode && m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case tea.KeyEnter:
			if m.inputMode {
				m.result.BackendURL = strings.TrimSpace(m.input)
				m.inputMode = false
			} else if m.cursor < len(m.choices) {
				m.result.DefaultNetwork = m.choices[m.cursor]
			}
			m.advance()

		case tea.KeyBackspace:
			if m.inputMode && len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}

		case tea.KeyRunes:
			if m.inputMode {
				m.input += string(msg.Runes)
				break
			}
			switch msg.String() {
			case "q":
				m.aborted = true
				return m, tea.Quit
			case "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "j":
				if m.cursor < len(m.choices)-1 {
					m.cursor++
				}
			}
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

func (m *wizardModel) advance() {
	m.step++
	m.cursor = 0
	if m.step == stepBackend {
		m.choices = nil
		m.inputMode = true
	}
}

func (m wizardModel) View() string {
	var s string

	switch m.step {
	case stepNetwork:
		s = renderMenu("Select default network:", m.choices, m.cursor)
	case stepBackend:
		s = StyleTitle.Render("Deployment backend") + "\n\n"
		s += StyleMeta.Render("Base URL (Enter to keep):") + "\n"
		s += "> " + StyleAddress.Render(m.input) + "█\n"
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}

	return StyleBorder.Render(s) + "\n"
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · q quit")
	return s
}

// RunWizard launches the interactive setup wizard. networks are offered as the
// default network; backend pre-fills the backend URL. A nil result means the
// user quit.
func RunWizard(networks []string, backend string) (*WizardResult, error) {
	m := initialWizard(networks, backend)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	fm := final.(wizardModel)
	if fm.aborted {
		return nil, nil
	}
	result := fm.result
	return &result, nil
}
