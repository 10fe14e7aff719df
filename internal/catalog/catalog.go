// Package catalog implements the hierarchical spawn catalog: placed
// entity records with path and order metadata, the spawn file parser
// and serializer, the derived folder tree, and the mutation operations
// (rename, reorder, move, delete, append) that keep the invariants.
//
// A Catalog is exclusively owned by its session. Nothing here locks or
// spawns goroutines; callers serialize access.
package catalog

import (
	"fmt"
	"sort"
)

// Direction selects a reorder neighbor.
type Direction int

const (
	// Earlier swaps a record with its predecessor in the folder.
	Earlier Direction = -1
	// Later swaps a record with its successor in the folder.
	Later Direction = 1
)

// Catalog is the in-memory state of one spawn file: the record list
// plus every known folder path, including folders that currently hold
// no records. The derived tree is cached and rebuilt on demand after
// mutations.
type Catalog struct {
	records []*Record
	folders []Path
	seen    map[string]bool // folder path keys

	version     uint64
	tree        *Tree
	treeVersion uint64
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{seen: make(map[string]bool)}
}

// FromParse builds a catalog from a parse result. The result's records
// and folders are adopted, not copied.
func FromParse(res *ParseResult) *Catalog {
	c := New()
	for _, p := range res.Folders {
		c.AddFolder(p)
	}
	c.records = res.Records
	c.touch()
	return c
}

func (c *Catalog) touch() {
	c.version++
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns the records in catalog order. The slice is a copy;
// the pointed-to records are live and must only be mutated through
// catalog operations.
func (c *Catalog) Records() []*Record {
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

// Folders returns the known folder paths in registration order.
func (c *Catalog) Folders() []Path {
	out := make([]Path, len(c.folders))
	copy(out, c.folders)
	return out
}

// Tree returns the derived folder tree, rebuilding it only when the
// catalog changed since the last build.
func (c *Catalog) Tree() *Tree {
	if c.tree == nil || c.treeVersion != c.version {
		c.tree = BuildTree(c.records, c.folders)
		c.treeVersion = c.version
	}
	return c.tree
}

// Encode serializes the catalog, preserving empty folders.
func (c *Catalog) Encode() ([]byte, error) {
	return Encode(c.records, c.folders)
}

// AddFolder registers a folder path and its ancestors. It reports
// whether the path itself was new. Registering the root is a no-op.
func (c *Catalog) AddFolder(p Path) bool {
	if p.IsRoot() {
		return false
	}
	added := false
	for i := range p {
		prefix := p[:i+1]
		key := prefix.Key()
		if c.seen[key] {
			continue
		}
		c.seen[key] = true
		c.folders = append(c.folders, prefix.Clone())
		if i == len(p)-1 {
			added = true
		}
	}
	if added {
		c.touch()
	}
	return added
}

// HasFolder reports whether p is a known folder path.
func (c *Catalog) HasFolder(p Path) bool {
	return c.seen[p.Key()]
}

// At returns the records whose path equals p, sorted by order.
func (c *Catalog) At(p Path) []*Record {
	var out []*Record
	for _, r := range c.records {
		if r.Path.Equal(p) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Under returns the records at p and every descendant path, in catalog
// order.
func (c *Catalog) Under(p Path) []*Record {
	var out []*Record
	for _, r := range c.records {
		if r.Path.HasPrefix(p) {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the record at (path, order), or nil.
func (c *Catalog) Find(p Path, order int) *Record {
	for _, r := range c.records {
		if r.Order == order && r.Path.Equal(p) {
			return r
		}
	}
	return nil
}

// MaxOrder returns the highest order at p, or -1 when p has no records.
func (c *Catalog) MaxOrder(p Path) int {
	max := -1
	for _, r := range c.records {
		if r.Path.Equal(p) && r.Order > max {
			max = r.Order
		}
	}
	return max
}

func (c *Catalog) contains(rec *Record) bool {
	for _, r := range c.records {
		if r == rec {
			return true
		}
	}
	return false
}

// Append adds records at path in the supplied sequence, with orders
// continuing from the path's current maximum. Records must validate;
// their Path and Order fields are overwritten.
func (c *Catalog) Append(recs []*Record, path Path) error {
	if len(recs) == 0 {
		return nil
	}
	for _, r := range recs {
		r.Path, r.Order = path.Clone(), 0
		if err := r.Validate(); err != nil {
			return err
		}
	}
	next := c.MaxOrder(path) + 1
	for i, r := range recs {
		r.Order = next + i
	}
	c.records = append(c.records, recs...)
	c.AddFolder(path)
	c.touch()
	return nil
}

// Rename gives the folder at path a new segment name, rewriting the
// renamed segment in every record and folder path under it. Deeper
// segments and orders are unchanged. Renaming onto an existing sibling
// fails with ErrFolderExists: merging folders would duplicate order
// values.
//
// It returns the number of records whose path changed.
func (c *Catalog) Rename(path Path, newName string) (int, error) {
	if path.IsRoot() {
		return 0, fmt.Errorf("%w: cannot rename the catalog root", ErrInvariant)
	}
	if newName == "" {
		return 0, fmt.Errorf("%w: folder name cannot be empty", ErrMalformed)
	}
	if !c.seen[path.Key()] && c.MaxOrder(path) < 0 && len(c.Under(path)) == 0 {
		return 0, fmt.Errorf("folder %q: %w", path.String(), ErrNotFound)
	}
	if newName == path.Name() {
		return 0, nil
	}

	newPath := path.Parent().Child(newName)
	if c.seen[newPath.Key()] {
		return 0, fmt.Errorf("folder %q: %w", newPath.String(), ErrFolderExists)
	}
	for _, r := range c.records {
		if r.Path.HasPrefix(newPath) {
			return 0, fmt.Errorf("folder %q: %w", newPath.String(), ErrFolderExists)
		}
	}

	depth := len(path) - 1
	renamed := 0
	for _, r := range c.records {
		if r.Path.HasPrefix(path) {
			r.Path[depth] = newName
			renamed++
		}
	}
	rebuilt := make([]Path, 0, len(c.folders))
	seen := make(map[string]bool, len(c.folders))
	for _, f := range c.folders {
		if f.HasPrefix(path) {
			f[depth] = newName
		}
		if key := f.Key(); !seen[key] {
			seen[key] = true
			rebuilt = append(rebuilt, f)
		}
	}
	c.folders, c.seen = rebuilt, seen
	c.touch()
	return renamed, nil
}

// Reorder swaps rec's order value with its neighbor in the given
// direction among the records sharing its path. At the first or last
// position it is a no-op and reports false.
func (c *Catalog) Reorder(rec *Record, dir Direction) (bool, error) {
	if !c.contains(rec) {
		return false, fmt.Errorf("record: %w", ErrNotFound)
	}
	siblings := c.At(rec.Path)
	idx := -1
	for i, r := range siblings {
		if r == rec {
			idx = i
			break
		}
	}
	n := idx + int(dir)
	if n < 0 || n >= len(siblings) {
		return false, nil
	}
	neighbor := siblings[n]
	rec.Order, neighbor.Order = neighbor.Order, rec.Order
	c.touch()
	return true, nil
}

// Move reassigns recs to dest, placing them after the destination's
// existing records in the supplied sequence, then renumbers every
// path's records contiguously from 0 in their current order. This is
// the drag-and-drop semantic: unlike Reorder's pairwise swap, Move
// closes all order gaps catalog-wide.
func (c *Catalog) Move(recs []*Record, dest Path) error {
	if len(recs) == 0 {
		return nil
	}
	for _, r := range recs {
		if !c.contains(r) {
			return fmt.Errorf("record %s: %w", r.Selector(), ErrNotFound)
		}
	}
	next := c.MaxOrder(dest) + 1
	for i, r := range recs {
		r.Path = dest.Clone()
		r.Order = next + i
	}
	c.AddFolder(dest)
	c.renumber()
	c.touch()
	return nil
}

// Delete removes recs by identity and returns how many were removed.
// Survivors keep their order values; gaps are tolerated everywhere.
// Folder paths stay registered so emptied folders survive a save.
func (c *Catalog) Delete(recs []*Record) int {
	doomed := make(map[*Record]bool, len(recs))
	for _, r := range recs {
		doomed[r] = true
	}
	kept := c.records[:0]
	removed := 0
	for _, r := range c.records {
		if doomed[r] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	c.records = kept
	if removed > 0 {
		c.touch()
	}
	return removed
}

// FieldEdit describes an in-place record edit. Nil fields are left
// unchanged.
type FieldEdit struct {
	Type        *string
	Position    *Position
	Orientation *float64  // actors only
	Rotation    *Rotation // props only
}

// SetFields applies edit to rec, validating the result before
// committing. Path and order are untouched.
func (c *Catalog) SetFields(rec *Record, edit FieldEdit) error {
	if !c.contains(rec) {
		return fmt.Errorf("record: %w", ErrNotFound)
	}
	if edit.Orientation != nil && rec.Kind != KindActor {
		return fmt.Errorf("%w: orientation applies to actors", ErrMalformed)
	}
	if edit.Rotation != nil && rec.Kind != KindProp {
		return fmt.Errorf("%w: rotation applies to props", ErrMalformed)
	}

	next := rec.Clone()
	if edit.Type != nil {
		next.Type = *edit.Type
	}
	if edit.Position != nil {
		next.Position = *edit.Position
	}
	if edit.Orientation != nil {
		next.Orientation = *edit.Orientation
	}
	if edit.Rotation != nil {
		next.Rotation = *edit.Rotation
	}
	if err := next.Validate(); err != nil {
		return err
	}

	rec.Type = next.Type
	rec.Position = next.Position
	rec.Orientation = next.Orientation
	rec.Rotation = next.Rotation
	c.touch()
	return nil
}

// renumber reassigns each path's orders to 0..n-1 in their current
// order-sorted sequence.
func (c *Catalog) renumber() {
	groups := make(map[string][]*Record)
	for _, r := range c.records {
		key := r.Path.Key()
		groups[key] = append(groups[key], r)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Order < group[j].Order })
		for i, r := range group {
			r.Order = i
		}
	}
}
