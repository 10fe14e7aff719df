package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# Spawn Files", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected rendered markdown to end with newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected single trailing newline, got %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("bot spawn lines go here", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestDocStyleEmphasizesHeadingsAndCode(t *testing.T) {
	style := docStyle()

	if style.H1.Underline == nil || !*style.H1.Underline {
		t.Errorf("expected H1 headings to be underlined")
	}
	if style.H2.Underline == nil || !*style.H2.Underline {
		t.Errorf("expected H2 headings to be underlined")
	}
	if style.Code.Color == nil {
		t.Errorf("expected inline code to have a color")
	}
	if style.CodeBlock.StylePrimitive.Color == nil {
		t.Errorf("expected code blocks to have a color")
	}
	if style.CodeBlock.Theme == "" {
		t.Errorf("expected code blocks to use a syntax theme")
	}
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "known theme", input: "dracula", want: "dracula"},
		{name: "case insensitive", input: "DrAcUlA", want: "dracula"},
		{name: "whitespace trimmed", input: "  nord ", want: "nord"},
		{name: "unknown falls back", input: "not-a-real-theme", want: defaultCodeTheme},
		{name: "empty falls back", input: "", want: defaultCodeTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ConfigureMarkdownCodeTheme(tt.input)
			if markdownCodeTheme != tt.want {
				t.Fatalf("expected code theme %q, got %q", tt.want, markdownCodeTheme)
			}
			if got := docStyle().CodeBlock.Theme; got != tt.want {
				t.Fatalf("expected rendered style theme %q, got %q", tt.want, got)
			}
		})
	}
}
