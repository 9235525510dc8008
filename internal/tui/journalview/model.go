// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     journalview
// Description: Live terminal view of the batch journal
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package journalview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/actionvm/internal/history"
)

// Filter tracks which batch outcomes are shown
type Filter struct {
	OK     bool
	Failed bool
}

// Config holds journal viewer configuration
type Config struct {
	Journal history.Journal

	// Session restricts the view to one session when set
	Session string

	Limit   int
	Refresh time.Duration
	Version string
}

// DefaultConfig returns default configuration
func DefaultConfig(j history.Journal) Config {
	return Config{
		Journal: j,
		Limit:   500,
		Refresh: 2 * time.Second,
	}
}

// Model is the Bubbletea model for the journal viewer
type Model struct {
	// State
	width      int
	height     int
	ready      bool
	loading    bool
	paused     bool
	autoScroll bool
	err        error

	// Components
	viewport viewport.Model
	spinner  spinner.Model

	// Journal state
	all      []*history.Entry
	filtered []*history.Entry
	filter   Filter
	stats    map[string]interface{}

	cfg Config
}

// New creates a journal viewer model
func New(cfg Config) Model {
	if cfg.Limit <= 0 {
		cfg.Limit = 500
	}
	if cfg.Refresh <= 0 {
		cfg.Refresh = 2 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		spinner:    sp,
		loading:    true,
		filter:     Filter{OK: true, Failed: true},
		autoScroll: true,
		stats:      map[string]interface{}{},
		cfg:        cfg,
	}
}

// Init loads the journal and starts polling
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadEntries,
		m.loadStats,
		m.tick(),
	)
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

		headerHeight := 4 // Title + filter bar
		footerHeight := 4 // Status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case entriesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.all = msg.entries
			m.applyFilter()
			m.updateViewportContent()
		}

	case statsLoadedMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}

	case tickMsg:
		if !m.paused {
			cmds = append(cmds, m.loadEntries, m.loadStats)
		}
		cmds = append(cmds, m.tick())
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit

		// Outcome filters
		case "1":
			m.filter.OK = !m.filter.OK
		case "2":
			m.filter.Failed = !m.filter.Failed
		case "0":
			m.filter = Filter{OK: true, Failed: true}

		case "p", " ":
			m.paused = !m.paused
			return m, nil

		case "r":
			m.loading = true
			return m, tea.Batch(m.loadEntries, m.loadStats)

		case "a":
			m.autoScroll = !m.autoScroll
			if m.autoScroll {
				m.viewport.GotoBottom()
			}
			return m, nil

		case "g":
			m.viewport.GotoTop()
			m.autoScroll = false
			return m, nil

		case "G":
			m.viewport.GotoBottom()
			m.autoScroll = true
			return m, nil

		default:
			return m, nil
		}
		m.applyFilter()
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		m.autoScroll = false
	case tea.KeyPgDown:
		m.viewport.ViewDown()
	case tea.KeyUp:
		m.viewport.LineUp(1)
		m.autoScroll = false
	case tea.KeyDown:
		m.viewport.LineDown(1)
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading journal..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(PanelStyle.Width(m.width - 2).Height(m.viewport.Height + 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	scope := "all sessions"
	if m.cfg.Session != "" {
		scope = "session " + m.cfg.Session
	}
	header := LogoStyle.Render(Logo) + "   " + HelpDescStyle.Render(scope)
	if m.paused {
		header += "  " + StatusPausedStyle.Render("PAUSED")
	}
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderFilterBar() string {
	filters := []string{
		"1:" + RenderFilterStatus("OK", m.filter.OK),
		"2:" + RenderFilterStatus("FAILED", m.filter.Failed),
	}
	content := strings.Join(filters, "  ") + "  " +
		HelpDescStyle.Render(fmt.Sprintf("[%d/%d batches]", len(m.filtered), len(m.all)))
	if m.autoScroll {
		content += "  " + FilterActiveStyle.Render("[Auto-Scroll]")
	}
	return FilterBarStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderStatusBar() string {
	left := HelpDescStyle.Render(fmt.Sprintf("Batches: %v  Failures: %v  Actions: %v",
		m.stats["batches"], m.stats["failures"], m.stats["actions"]))

	var right string
	switch {
	case m.loading:
		right = m.spinner.View() + " Loading..."
	case m.err != nil:
		right = ErrorTextStyle.Render("Error: " + m.err.Error())
	default:
		right = HelpDescStyle.Render("v" + m.cfg.Version)
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("1-2", "Filter"),
		RenderKeyHint("0", "All"),
		RenderKeyHint("p", "Pause"),
		RenderKeyHint("r", "Refresh"),
		RenderKeyHint("a", "AutoScroll"),
		RenderKeyHint("g/G", "Top/Bottom"),
		RenderKeyHint("q", "Quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}

	var content strings.Builder
	for _, e := range m.filtered {
		content.WriteString(renderRow(e))
		content.WriteString("\n")
	}
	m.viewport.SetContent(content.String())
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

// renderRow formats one batch as [TIME] [STATUS] BATCH executed/total summary
func renderRow(e *history.Entry) string {
	summary := SummaryStyle.Render(firstLine(e.Output))
	if e.Failed() {
		summary = ErrorTextStyle.Render(e.ErrorCode + ": " + e.ErrorMessage)
	}
	return fmt.Sprintf("%s %s %s %s %s",
		TimestampStyle.Render(e.CreatedAt.Local().Format("15:04:05")),
		RenderStatusBadge(e.Failed()),
		BatchIDStyle.Render(truncate(e.BatchID, 8)),
		HelpDescStyle.Render(fmt.Sprintf("%d/%d", e.Executed, e.Total)),
		summary,
	)
}

func (m *Model) applyFilter() {
	m.filtered = make([]*history.Entry, 0, len(m.all))
	for _, e := range m.all {
		if e.Failed() && !m.filter.Failed || !e.Failed() && !m.filter.OK {
			continue
		}
		m.filtered = append(m.filtered, e)
	}
}

// loadEntries reads the latest batches, oldest first
func (m Model) loadEntries() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := m.cfg.Journal.Recent(ctx, m.cfg.Session, m.cfg.Limit)
	if err != nil {
		return entriesLoadedMsg{err: err}
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entriesLoadedMsg{entries: entries}
}

func (m Model) loadStats() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := m.cfg.Journal.Statistics(ctx)
	return statsLoadedMsg{stats: stats, err: err}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func firstLine(output []string) string {
	switch len(output) {
	case 0:
		return ""
	case 1:
		return output[0]
	default:
		return fmt.Sprintf("%s (+%d lines)", output[0], len(output)-1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Run starts the journal viewer
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
