// ============================================================================
// actionvm - Embeddable action interpreter
// ============================================================================
//
// Package:     repl
// Description: Input history persistence for the REPL
// Author:      msto63
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package repl

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const maxHistory = 100

// DefaultHistoryFile returns ~/.config/actionvm/repl_history.json
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".actionvm", "repl_history.json")
	}
	return filepath.Join(home, ".config", "actionvm", "repl_history.json")
}

// LoadHistory reads the input history. A missing or unreadable file yields
// an empty history.
func LoadHistory(path string) []string {
	if path == "" {
		return []string{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{}
	}
	var history []string
	if err := json.Unmarshal(data, &history); err != nil {
		return []string{}
	}
	return history
}

// SaveHistory writes the last maxHistory entries
func SaveHistory(path string, history []string) error {
	if path == "" {
		return nil
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
