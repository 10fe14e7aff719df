package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// docMargin is the left margin applied to rendered markdown.
const docMargin = 2

// defaultCodeTheme is the Chroma theme used when none is configured.
const defaultCodeTheme = "monokai"

// markdownCodeTheme is the active Chroma theme for fenced code blocks.
var markdownCodeTheme = defaultCodeTheme

// knownCodeThemes are the Chroma themes accepted from config.
var knownCodeThemes = map[string]bool{
	"monokai":         true,
	"dracula":         true,
	"github":          true,
	"github-dark":     true,
	"nord":            true,
	"solarized-dark":  true,
	"solarized-light": true,
	"vim":             true,
	"pygments":        true,
}

// ConfigureMarkdownCodeTheme sets the syntax theme for rendered code blocks.
// Unknown themes fall back to the default.
func ConfigureMarkdownCodeTheme(theme string) {
	normalized := strings.ToLower(strings.TrimSpace(theme))
	if !knownCodeThemes[normalized] {
		normalized = defaultCodeTheme
	}
	markdownCodeTheme = normalized
}

// RenderMarkdown renders markdown for terminal display, word-wrapped to
// width. Used for the bundled docs topics.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(docStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour pads with trailing newlines; keep exactly one.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// docStyle builds the glamour style for roost docs. The topics use
// headings, lists, tables, links, and fenced spawn-file examples; anything
// beyond that renders unstyled.
func docStyle() ansi.StyleConfig {
	muted := stylePtr("8")
	code := stylePtr("5")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = stylePtr(color)
	}

	cfg := ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockPrefix: "\n",
				BlockSuffix: "\n",
			},
			Margin: uintPtr(docMargin),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted},
			Indent:         uintPtr(1),
			IndentToken:    stylePtr("│ "),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       accent,
				Bold:        boolPtr(true),
			},
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n--------\n",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Link: ansi.StylePrimitive{
			Color:     muted,
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: muted,
			Bold:  boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "`",
				Suffix: "`",
				Color:  code,
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: code},
			},
			Theme: markdownCodeTheme,
		},
		Table: ansi.StyleTable{
			CenterSeparator: stylePtr("│"),
			ColumnSeparator: stylePtr("│"),
			RowSeparator:    stylePtr("─"),
		},
	}

	cfg.H1 = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Prefix: "# ", Underline: boolPtr(true)},
	}
	cfg.H2 = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Prefix: "## ", Underline: boolPtr(true)},
	}
	cfg.H3 = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Prefix: "### "},
	}
	cfg.H4 = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Prefix: "#### "},
	}
	return cfg
}

func boolPtr(v bool) *bool { return &v }

func stylePtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }
