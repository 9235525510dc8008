// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     journalview
// Description: Styles for the journal viewer
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package journalview

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette - Same as the REPL
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel   = lipgloss.Color("#1E293B") // Slate 800
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2).
			MarginBottom(1)
)

// Batch row styles
var (
	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	BatchIDStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	SummaryStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	OKBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	FailedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)
)

// Panel and bar styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Help and filter styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)
)

// Logo
const Logo = "actionvm journal"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderStatusBadge renders the outcome of a batch
func RenderStatusBadge(failed bool) string {
	if failed {
		return FailedBadgeStyle.Render("[FAIL]")
	}
	return OKBadgeStyle.Render("[ OK ]")
}

// RenderFilterStatus renders a filter status indicator
func RenderFilterStatus(name string, active bool) string {
	if active {
		return FilterActiveStyle.Render(name)
	}
	return FilterInactiveStyle.Render(name)
}
