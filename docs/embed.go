package docs

import "embed"

// FS holds the Markdown help topics compiled into the binary.
// `roost docs` lists and renders them.
//
//go:embed topics
var FS embed.FS
