package catalog

import "strings"

// Path is the ordered sequence of folder segments that places a record
// in the catalog hierarchy. An empty Path is the catalog root. Segments
// are never empty strings; the slash-joined form exists only at the
// display and CLI boundaries.
type Path []string

// pathKeySep joins segments for map keys. Segment names may contain
// literal slashes, so the display form is not collision-free.
const pathKeySep = "\x00"

// ParsePath splits a slash-joined folder reference into segments.
// Empty segments are dropped, so "Zone1//Camp/" equals "Zone1/Camp".
func ParsePath(s string) Path {
	var p Path
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

// String returns the slash-joined display form. Root is "".
func (p Path) String() string {
	return strings.Join(p, "/")
}

// Key returns a canonical, collision-free map key for p.
func (p Path) Key() string {
	return strings.Join(p, pathKeySep)
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p) }

// IsRoot reports whether p has no segments.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Name returns the last segment, or "" for the root.
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path one level up. The root's parent is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Child returns p extended with one segment.
func (p Path) Child(name string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and q have identical segments.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p begins with every segment of prefix.
// Every path has the root as a prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// CommonPrefixLen returns the number of leading segments shared by p and q.
func (p Path) CommonPrefixLen(q Path) int {
	n := 0
	for n < len(p) && n < len(q) && p[n] == q[n] {
		n++
	}
	return n
}

// Compare orders paths segment-wise lexicographically. A path orders
// before any longer path it prefixes, so a folder's own records sort
// ahead of its subfolders' records.
func (p Path) Compare(q Path) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i] != q[i] {
			if p[i] < q[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	default:
		return 0
	}
}
