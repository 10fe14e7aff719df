// Package extract pulls spawn commands out of markdown documents.
//
// Fenced code blocks are located with the goldmark AST so that spawn
// lines in prose, inline code, or blocks tagged with another language
// are never picked up by mistake.
package extract

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/roostlabs/roost/internal/catalog"
)

// Block is one fenced code block that yielded spawn content.
type Block struct {
	// StartLine is the 1-based document line of the first line inside
	// the fence.
	StartLine int
	// Info is the fence's info string ("spawn" or "" for untagged).
	Info string
	// Records are the parsed commands. Paths come from header lines
	// inside the block, relative to the block itself.
	Records []*catalog.Record
	// Diagnostics list skipped lines, with document line numbers.
	Diagnostics []catalog.Diagnostic
}

// Result aggregates the spawn blocks found in one document.
type Result struct {
	Blocks []Block
}

// Records returns every extracted record in document order.
func (r *Result) Records() []*catalog.Record {
	var records []*catalog.Record
	for _, block := range r.Blocks {
		records = append(records, block.Records...)
	}
	return records
}

// Diagnostics returns every skipped-line diagnostic in document order.
func (r *Result) Diagnostics() []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, block := range r.Blocks {
		diags = append(diags, block.Diagnostics...)
	}
	return diags
}

// FromMarkdown scans a markdown document for fenced code blocks carrying
// spawn commands. Blocks tagged `spawn` are always parsed and report
// their skipped lines; untagged blocks are included only when at least
// one line parses as a command, so untagged prose snippets stay out.
// Blocks tagged with any other language are ignored.
func FromMarkdown(content []byte) *Result {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(content)
	result := &Result{}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		info := strings.TrimSpace(string(fence.Language(content)))
		if info != "spawn" && info != "" {
			return ast.WalkSkipChildren, nil
		}

		lines := fence.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		var body strings.Builder
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(content))
		}

		startLine := lineForOffset(lineStarts, lines.At(0).Start)
		parsed := catalog.Parse([]byte(body.String()))

		if info == "" && len(parsed.Records) == 0 {
			return ast.WalkSkipChildren, nil
		}

		block := Block{
			StartLine: startLine,
			Info:      info,
			Records:   parsed.Records,
		}
		for _, diag := range parsed.Diagnostics {
			diag.Line = startLine + diag.Line - 1
			block.Diagnostics = append(block.Diagnostics, diag)
		}
		result.Blocks = append(result.Blocks, block)

		return ast.WalkSkipChildren, nil
	})

	return result
}

// computeLineStarts returns the byte offset of each line start.
func computeLineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-based line number containing offset.
func lineForOffset(starts []int, offset int) int {
	idx := sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	})
	return idx
}
