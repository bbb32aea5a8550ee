package main

import (
	"cirquity-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- THEME (Lip Gloss) --------------------
// Palette lives in the styles package and can switch at runtime, so
// everything here is built on demand.

// logStyles returns the log panel styles for the active palette
func logStyles() *log.Styles {
	s := log.DefaultStyles()
	s.Timestamp = lipgloss.NewStyle().Foreground(styles.CMuted)
	s.Caller = lipgloss.NewStyle().Faint(true)
	s.Prefix = lipgloss.NewStyle().Bold(true).Foreground(styles.CAccent2)
	s.Message = lipgloss.NewStyle().Foreground(styles.CText)
	s.Key = lipgloss.NewStyle().Foreground(styles.CAccent)
	s.Value = lipgloss.NewStyle().Foreground(styles.CText)
	s.Separator = lipgloss.NewStyle().Faint(true)
	s.Levels = map[log.Level]lipgloss.Style{
		log.DebugLevel: lipgloss.NewStyle().Foreground(styles.CMuted).SetString("DEBUG"),
		log.InfoLevel:  lipgloss.NewStyle().Foreground(styles.CAccent2).SetString("INFO"),
		log.WarnLevel:  lipgloss.NewStyle().Foreground(styles.CWarn).SetString("WARN"),
		log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
		log.FatalLevel: lipgloss.NewStyle().Foreground(styles.CError).Bold(true).SetString("FATAL"),
	}
	return s
}

// promptStyle, textStyle and cursorStyle colour the wizard text fields
func promptStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.CAccent)
}

func textStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.CText)
}

func cursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.CAccent2)
}
