package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, selectors
// - Muted (gray): Secondary info, line numbers
// - No colored success/error/warning - use unicode symbols only

const defaultAccentColor = "#A78BFA"

var (
	// Accent style for catalog paths, selectors, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor)).Bold(true)
)

// accentColor holds the configured accent override. Empty means the
// default palette is in effect.
var accentColor string

// ConfigureTheme applies an accent color override from config.
// Unset or unusable values fall back to the default palette.
func ConfigureTheme(accent string) {
	normalized, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor))
		AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccentColor)).Bold(true)
		return
	}

	accentColor = normalized
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(normalized))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(normalized)).Bold(true)
}

// AccentColor returns the configured accent override, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor validates an accent value from config.
// Accepted forms are ANSI color codes ("0" to "255") and hex colors
// ("#RGB" or "#RRGGBB"). Everything else, including the keywords
// "none", "off", and "default", reports ok=false.
func normalizeAccentColor(input string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	switch trimmed {
	case "", "none", "off", "default":
		return "", false
	}

	if code, err := strconv.Atoi(trimmed); err == nil {
		if code < 0 || code > 255 {
			return "", false
		}
		return trimmed, true
	}

	if hex, ok := strings.CutPrefix(trimmed, "#"); ok {
		if len(hex) == 3 {
			// Expand #abc to #aabbcc.
			var expanded strings.Builder
			for _, ch := range hex {
				expanded.WriteRune(ch)
				expanded.WriteRune(ch)
			}
			hex = expanded.String()
		}
		if len(hex) != 6 {
			return "", false
		}
		for _, ch := range hex {
			if !isHexDigit(ch) {
				return "", false
			}
		}
		return "#" + hex, true
	}

	return "", false
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f')
}
