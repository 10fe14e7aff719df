package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Spawn file grammar. Lines are trimmed before matching. The count
// field after the command tag is ignored on input and written as the
// literal "1" on output (reserved, currently unused).
var (
	headerRe = regexp.MustCompile(`^(#+)\s*(.*)$`)
	actorRe  = regexp.MustCompile(`^bot spawn \d+ (\S+) ([\-\d.]+) ([\-\d.]+) ([\-\d.]+)(?: ([\-\d.]+))?$`)
	propRe   = regexp.MustCompile(`^spawn \d+ (\S+) ([\-\d.]+) ([\-\d.]+) ([\-\d.]+) ([\-\d.]+) ([\-\d.]+) ([\-\d.]+)$`)
)

// ParseResult is the outcome of parsing one spawn file.
type ParseResult struct {
	// Records in file order. Each record's Order is a per-path counter
	// starting at 0, assigned in file order.
	Records []*Record
	// Folders holds every path a header line introduced, deduplicated,
	// in encounter order. It includes folders with no records so they
	// survive a save.
	Folders []Path
	// Diagnostics lists the skipped lines.
	Diagnostics []Diagnostic
}

// Parse reads the spawn file format. It never fails: lines that match
// no directive or carry bad numbers are skipped and reported in the
// result's Diagnostics.
//
// Header lines maintain a folder stack: a depth-N header truncates the
// stack to N-1 segments and pushes its name. A header whose name is
// empty after trimming is ignored. Records take the stack at their line
// as their path.
func Parse(data []byte) *ParseResult {
	res := &ParseResult{}
	var stack Path
	counters := make(map[string]int)
	seenFolders := make(map[string]bool)

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			depth := len(m[1])
			name := strings.TrimSpace(m[2])
			if name == "" {
				continue
			}
			if depth-1 < len(stack) {
				stack = stack[:depth-1]
			}
			stack = append(stack, name)
			path := stack.Clone()
			if key := path.Key(); !seenFolders[key] {
				seenFolders[key] = true
				res.Folders = append(res.Folders, path)
			}
			continue
		}

		rec, reason := parseCommand(line)
		if reason != "" {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Line:   i + 1,
				Text:   line,
				Reason: reason,
			})
			continue
		}
		rec.Path = stack.Clone()
		key := rec.Path.Key()
		rec.Order = counters[key]
		counters[key] = rec.Order + 1
		res.Records = append(res.Records, rec)
	}
	return res
}

// ParseCommandLine parses a single trimmed spawn command line, without
// header context. It reports false for anything that is not a valid
// actor or prop line, including command-shaped lines with bad numbers.
func ParseCommandLine(line string) (*Record, bool) {
	rec, reason := parseCommand(strings.TrimSpace(line))
	return rec, reason == ""
}

// parseCommand matches line against the two command shapes. A nil
// record with an empty reason never occurs: the reason is "" exactly
// when rec is valid.
func parseCommand(line string) (rec *Record, reason DiagReason) {
	if m := actorRe.FindStringSubmatch(line); m != nil {
		pos, ok := parsePosition(m[2], m[3], m[4])
		if !ok {
			return nil, DiagMalformed
		}
		orientation := 0.0
		if m[5] != "" {
			o, ok := parseFinite(m[5])
			if !ok {
				return nil, DiagMalformed
			}
			orientation = o
		}
		r, err := NewActor(m[1], pos, orientation)
		if err != nil {
			return nil, DiagMalformed
		}
		return r, ""
	}

	if m := propRe.FindStringSubmatch(line); m != nil {
		pos, ok := parsePosition(m[2], m[3], m[4])
		if !ok {
			return nil, DiagMalformed
		}
		rx, okX := parseFinite(m[5])
		ry, okY := parseFinite(m[6])
		rz, okZ := parseFinite(m[7])
		if !okX || !okY || !okZ {
			return nil, DiagMalformed
		}
		r, err := NewProp(m[1], pos, Rotation{X: rx, Y: ry, Z: rz})
		if err != nil {
			return nil, DiagMalformed
		}
		return r, ""
	}

	return nil, DiagUnknown
}

func parsePosition(x, y, z string) (Position, bool) {
	px, okX := parseFinite(x)
	py, okY := parseFinite(y)
	pz, okZ := parseFinite(z)
	if !okX || !okY || !okZ {
		return Position{}, false
	}
	return Position{X: px, Y: py, Z: pz}, true
}

// parseFinite parses a decimal float. The field regex admits strings
// like "1.2.3" or "-" that strconv rejects, and those lines are then
// skipped as malformed.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
