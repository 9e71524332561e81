package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal queries, so styles are
	// picked up front and renderers reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle picks notty under NO_COLOR, otherwise light or dark to match the panel theme.
func markdownStyle() string {
	if termenv.EnvNoColor() {
		return styles.NoTTYStyle
	}
	if dark, ok := darkBackgroundPreference(); ok {
		if dark {
			return styles.DarkStyle
		}
		return styles.LightStyle
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	switch style {
	case styles.NoTTYStyle:
		return styles.NoTTYStyleConfig
	case styles.LightStyle:
		cfg := styles.LightStyleConfig
		applyMarkdownPalette(&cfg, false)
		return cfg
	default:
		cfg := styles.DarkStyleConfig
		applyMarkdownPalette(&cfg, true)
		return cfg
	}
}

// applyMarkdownPalette aligns headings, links and code with the panel colors.
func applyMarkdownPalette(cfg *ansi.StyleConfig, dark bool) {
	text := mdColor(colorSurfaceFg, dark)
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H2.Color = text
	cfg.H3.Color = text

	link := mdColor(colorAccent, dark)
	cfg.Link.Color = link
	cfg.Link.Underline = mdBoolPtr(true)
	cfg.LinkText.Color = link

	cfg.Code.Color = text
	cfg.CodeBlock.Color = text
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = mdColor(colorControlBg, dark)
	}
	cfg.Text.Color = text
}

func mdColor(c lipgloss.AdaptiveColor, dark bool) *string {
	if dark {
		return mdStrPtr(c.Dark)
	}
	return mdStrPtr(c.Light)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }
