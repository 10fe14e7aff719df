package catalog

import "errors"

var (
	// ErrMalformed marks a record whose fields cannot round-trip
	// through the spawn line grammar. During parsing these are skipped
	// and reported as diagnostics rather than failing the parse.
	ErrMalformed = errors.New("malformed record")

	// ErrInvariant marks an internal precondition failure, such as
	// serializing a record with no kind. It indicates a caller bug,
	// not a runtime condition to recover from.
	ErrInvariant = errors.New("catalog invariant violated")

	// ErrNotFound is returned when a referenced record or folder is
	// not part of the catalog.
	ErrNotFound = errors.New("not found")

	// ErrFolderExists is returned when a rename would collide with an
	// existing sibling folder. Merging folders would duplicate order
	// values within the merged path.
	ErrFolderExists = errors.New("folder already exists")
)

// DiagReason classifies a skipped input line.
type DiagReason string

const (
	// DiagMalformed lines matched a spawn command shape but carried
	// unparseable or non-finite numeric fields.
	DiagMalformed DiagReason = "malformed"
	// DiagUnknown lines matched no known directive. They are skipped
	// so files can carry directives this tool does not understand.
	DiagUnknown DiagReason = "unknown"
)

// Diagnostic describes one input line the parser skipped.
type Diagnostic struct {
	Line   int        `json:"line"` // 1-based
	Text   string     `json:"text"` // trimmed line content
	Reason DiagReason `json:"reason"`
}
