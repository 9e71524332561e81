package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The panel must stay readable on light and dark terminals, so every color is adaptive.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "235")
	colorAccent     = ac("27", "62")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorError      = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
}

func styleTab(active bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return st.Background(colorAccent).Foreground(ac("255", "255")).Bold(true)
	}
	return st.Foreground(colorMuted)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts TERM/COLORTERM over the
// detector, which under-reports on some terminals.
func applyColorProfilePreference() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// darkBackgroundPreference resolves FOLIO_TUI_THEME=light|dark|auto, then the COLORFGBG
// "fg;bg" heuristic. ok is false when neither decides.
func darkBackgroundPreference() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FOLIO_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7, true
		}
	}
	return false, false
}

func applyThemePreference() {
	if dark, ok := darkBackgroundPreference(); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}
