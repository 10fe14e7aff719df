package catalog

import (
	"bytes"
	"fmt"
	"strings"
)

// Encode renders records and folder paths back to the spawn file
// format. The output re-parses to a field-equal record set with
// identical paths and orders, and each folder's header appears exactly
// once.
//
// Emission walks the built tree depth-first: root records first, then
// per folder its header, its records sorted by order, then its
// subfolders. Ancestor headers always precede descendants, and a
// record line always follows its own folder's header with no deeper
// header in between. Header lines are emitted only for the segments
// past the common prefix with the previously emitted path.
//
// Records that fail validation are an invariant violation: Encode is
// only called with records the catalog already accepted.
func Encode(records []*Record, folders []Path) ([]byte, error) {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: unserializable record %s: %v", ErrInvariant, r.Selector(), err)
		}
	}

	tree := BuildTree(records, folders)
	var buf bytes.Buffer
	var last Path
	tree.Walk(func(n *Node) error {
		if !n.Path.IsRoot() {
			writeHeaders(&buf, last, n.Path)
			last = n.Path
		}
		for _, r := range n.Records {
			buf.WriteString(r.Line())
			buf.WriteByte('\n')
		}
		return nil
	})
	return buf.Bytes(), nil
}

// writeHeaders emits the header lines for path's segments beyond the
// common prefix with last. Depth N headers are N '#' characters, a
// space, and the segment name.
func writeHeaders(buf *bytes.Buffer, last, path Path) {
	for i := last.CommonPrefixLen(path); i < len(path); i++ {
		buf.WriteString(strings.Repeat("#", i+1))
		buf.WriteByte(' ')
		buf.WriteString(path[i])
		buf.WriteByte('\n')
	}
}
