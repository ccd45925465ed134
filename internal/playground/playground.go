// Package playground is a live two-pane TUI: Elan source on the left,
// its Python translation on the right, retranslated on every edit.
package playground

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/elan-tools/elan2py/internal/translate"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	copiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

type model struct {
	translator *translate.Translator
	logger     *zap.Logger

	input  textarea.Model
	output viewport.Model

	target   string
	lastErr  error
	copied   bool
	width    int
	height   int
	quitting bool
}

func initialModel(translator *translate.Translator, logger *zap.Logger) model {
	ti := textarea.New()
	ti.Placeholder = "main\n  println \"hello\"\nend main"
	ti.Focus()

	return model{
		translator: translator,
		logger:     logger,
		input:      ti,
		output:     viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+y":
			if m.target != "" {
				if err := clipboard.WriteAll(m.target); err != nil {
					m.logger.Warn("clipboard write failed", zap.Error(err))
				} else {
					m.copied = true
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.copied = false
	m.refresh()
	return m, cmd
}

// resize splits the terminal into two side-by-side panes.
func (m *model) resize() {
	paneWidth := m.paneWidth()
	paneHeight := m.height - 4
	if paneHeight < 3 {
		paneHeight = 3
	}

	m.input.SetWidth(paneWidth - 2)
	m.input.SetHeight(paneHeight)
	m.output.Width = paneWidth - 2
	m.output.Height = paneHeight
}

func (m *model) paneWidth() int {
	paneWidth := m.width / 2
	if paneWidth < 20 {
		paneWidth = 20
	}
	return paneWidth
}

// refresh retranslates the buffer and updates the output pane.
func (m *model) refresh() {
	source := m.input.Value()
	if strings.TrimSpace(source) == "" {
		m.target = ""
		m.lastErr = nil
		m.output.SetContent("")
		return
	}

	target, err := m.translator.Translate(source)
	m.lastErr = err
	if err != nil {
		m.output.SetContent(errorStyle.Render(wordwrap.String(err.Error(), m.output.Width)))
		return
	}

	m.target = target
	m.output.SetContent(wordwrap.String(target, m.output.Width))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	paneWidth := m.paneWidth()
	left := paneStyle.Render(m.input.View())
	right := paneStyle.Render(m.output.View())

	// Pad with runewidth rather than styling first, so ANSI sequences do
	// not count toward the column width.
	header := titleStyle.Render(runewidth.FillRight("Elan", paneWidth) + "Python")

	status := helpStyle.Render("ctrl+y copy output • esc quit")
	if m.copied {
		status = copiedStyle.Render("copied to clipboard") + "  " + status
	}

	return header + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" +
		status + "\n"
}

// Run starts the playground and blocks until the user exits.
func Run(translator *translate.Translator, logger *zap.Logger) error {
	p := tea.NewProgram(initialModel(translator, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
