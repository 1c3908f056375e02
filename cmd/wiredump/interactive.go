package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/peer-interop/inspect"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// rows of chrome around the viewport: title, blank, detail, blank, help
const chromeHeight = 6

type interactiveModel struct {
	err      error
	data     []byte
	values   []inspect.Value
	viewport viewport.Model
	selected int
	ready    bool
}

func newInteractiveModel(data []byte, values []inspect.Value, err error) *interactiveModel {
	return &interactiveModel{data: data, values: values, err: err}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}

		case "down", "j":
			if m.selected < len(m.values)-1 {
				m.selected++
				m.refresh()
			}

		case "home", "g":
			m.selected = 0
			m.refresh()

		case "end", "G":
			m.selected = max(len(m.values)-1, 0)
			m.refresh()
		}
	}
	return m, nil
}

// refresh redraws the field list and keeps the selection visible.
func (m *interactiveModel) refresh() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, v := range m.values {
		line := fmt.Sprintf("%5d  %-16s %-18s %s", v.Offset, v.Name, v.Kind, v.String())
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	m.viewport.SetContent(b.String())

	switch {
	case m.selected < m.viewport.YOffset:
		m.viewport.SetYOffset(m.selected)
	case m.selected >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.selected - m.viewport.Height + 1)
	}
}

// detail renders the dump with the selected field's bytes highlighted.
func (m *interactiveModel) detail() string {
	if len(m.values) == 0 {
		return hexStyle.Render(hex.EncodeToString(m.data))
	}
	v := m.values[m.selected]
	return hexStyle.Render(hex.EncodeToString(m.data[:v.Offset])) +
		markStyle.Render(hex.EncodeToString(m.data[v.Offset:v.Offset+v.Size])) +
		hexStyle.Render(hex.EncodeToString(m.data[v.Offset+v.Size:]))
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Wire Dump"))
	b.WriteString(fmt.Sprintf(" %d bytes, %d fields\n\n", len(m.data), len(m.values)))
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select • g/G first/last • q quit"))
	return b.String()
}

func runInteractive(data []byte, values []inspect.Value, err error) error {
	p := tea.NewProgram(newInteractiveModel(data, values, err), tea.WithAltScreen())
	_, runErr := p.Run()
	return runErr
}
