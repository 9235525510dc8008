// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model of the interactive action REPL. Each input
//              line is a JSON action or list of actions run as one batch;
//              lines starting with ':' are REPL commands.
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/session"
)

const helpText = `Enter a JSON action or a JSON list of actions, e.g.
  {"action":"ASSIGN","identifier":["a"],"content":1}
Commands:
  :get <path>   print the value at a dotted path
  :store        print the whole store
  :stats        show session counters
  :clear        clear the transcript
  :help         show this help
  :quit         leave the REPL`

// Config holds REPL configuration
type Config struct {
	HistoryFile string
	Version     string
}

// Model is the Bubbletea model of the REPL
type Model struct {
	host *session.Host

	width   int
	height  int
	ready   bool
	running bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	entries []Entry
	stats   session.Stats

	history      []string
	historyIndex int // -1 while not navigating
	currentInput string

	cfg Config
}

// New creates a REPL over host
func New(host *session.Host, cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = Prompt
	ti.Placeholder = `{"action":"PRINT","identifier":["a"]}`
	ti.CharLimit = 16000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := Model{
		host:         host,
		input:        ti,
		spinner:      sp,
		stats:        host.Stats(),
		history:      LoadHistory(cfg.HistoryFile),
		historyIndex: -1,
		cfg:          cfg,
	}
	m.appendEntry(EntryInfo, "Type :help for help.")
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // title panel
		footerHeight := 5 // input + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 6
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.running {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case batchDoneMsg:
		m.running = false
		m.stats = m.host.Stats()
		m.appendResult(msg.result)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		_ = SaveHistory(m.cfg.HistoryFile, m.history)
		return m, tea.Quit

	case tea.KeyEnter:
		input := strings.TrimSpace(m.input.Value())
		if input == "" || m.running {
			return m, nil
		}
		m.remember(input)
		m.input.Reset()
		return m.submit(input)

	case tea.KeyUp:
		if len(m.history) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.history) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.history[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.history)-1 {
				m.historyIndex++
				m.input.SetValue(m.history[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs a command or starts a batch
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	m.appendEntry(EntryInput, input)

	if strings.HasPrefix(input, ":") {
		return m.command(input)
	}

	m.running = true
	return m, tea.Batch(m.spinner.Tick, m.execute(input))
}

func (m Model) execute(input string) tea.Cmd {
	host := m.host
	return func() tea.Msg {
		return batchDoneMsg{result: host.ExecuteScript(context.Background(), []byte(input), action.FormatJSON)}
	}
}

func (m Model) command(input string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(input, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		_ = SaveHistory(m.cfg.HistoryFile, m.history)
		return m, tea.Quit

	case "h", "help":
		m.appendEntry(EntryInfo, helpText)

	case "clear":
		m.entries = nil
		m.updateViewportContent()

	case "store":
		text, _, _ := m.host.Render(nil)
		m.appendEntry(EntryOutput, text)

	case "get":
		if arg == "" {
			m.appendEntry(EntryError, "usage: :get <path>")
			break
		}
		id := action.ParseIdentifier(arg)
		text, found, err := m.host.Render(id)
		switch {
		case found:
			m.appendEntry(EntryOutput, text)
		case err == nil || mdwerror.HasCode(err, mdwerror.CodePathNotFound):
			m.appendEntry(EntryOutput, interp.NotFoundMessage(id))
		default:
			m.appendEntry(EntryError, err.Error())
		}

	case "stats":
		s := m.host.Stats()
		m.appendEntry(EntryInfo, fmt.Sprintf("session %s: %d batches, %d actions, %d failures",
			s.SessionID, s.Batches, s.Actions, s.Failures))

	default:
		m.appendEntry(EntryError, "unknown command :"+name)
	}
	return m, nil
}

func (m *Model) appendResult(r *session.Result) {
	for _, line := range r.Output {
		m.appendEntry(EntryOutput, line)
	}
	if r.Err != nil {
		m.appendEntry(EntryError, r.Err.Error())
		return
	}
	m.appendEntry(EntryInfo, fmt.Sprintf("%d action(s) in %s", r.Executed, r.Duration.Round(time.Microsecond)))
}

func (m *Model) appendEntry(kind EntryKind, text string) {
	m.entries = append(m.entries, Entry{Kind: kind, Text: text, Timestamp: time.Now()})
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// remember adds input to the history unless it repeats the last entry
func (m *Model) remember(input string) {
	if len(m.history) == 0 || m.history[len(m.history)-1] != input {
		m.history = append(m.history, input)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	m.historyIndex = -1
	m.currentInput = ""
}

func (m *Model) updateViewportContent() {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(RenderEntry(e))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting REPL..."
	}

	var b strings.Builder
	b.WriteString(TitlePanelStyle.Width(m.width - 4).Render(LogoStyle.Render(Logo)))
	b.WriteString("\n")
	b.WriteString(TranscriptPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	if m.running {
		b.WriteString(m.spinner.View() + " running...")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		RenderKeyHint("Enter", "Run"),
		RenderKeyHint("↑/↓", "History"),
		RenderKeyHint("PgUp/PgDn", "Scroll"),
		RenderKeyHint(":help", "Commands"),
		RenderKeyHint("Ctrl+C", "Quit"),
	}, "  "))
	return b.String()
}

func (m Model) renderStatusBar() string {
	id := m.stats.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	left := HelpDescStyle.Render("session " + id)
	right := HelpDescStyle.Render(fmt.Sprintf("batches %d  failures %d  v%s",
		m.stats.Batches, m.stats.Failures, m.cfg.Version))
	if m.stats.Failures == 0 {
		right = OKStyle.Render("● ") + right
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", padding) + right)
}

// Run starts the REPL
func Run(host *session.Host, cfg Config) error {
	p := tea.NewProgram(New(host, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
