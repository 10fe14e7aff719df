package catalog

import "sort"

// Node is one folder in the derived tree. Children iterate in
// lexicographic segment order; Records holds the folder's direct
// records sorted by Order. The root node has an empty Name and Path.
type Node struct {
	Name     string
	Path     Path
	Children []*Node
	Records  []*Record
}

// Tree is the hierarchical view of a record set. It is a pure
// projection: building it has no side effects, and it is never mutated
// in place. Structural changes are edits to the records followed by a
// rebuild.
type Tree struct {
	Root *Node
}

// BuildTree groups records by successive path segments and grafts in
// the supplied folder paths, including empty ones, so they are not lost
// on serialization. Building twice from the same inputs yields
// structurally identical trees.
func BuildTree(records []*Record, folders []Path) *Tree {
	root := &Node{}
	b := &treeBuilder{
		root:  root,
		index: map[string]*Node{"": root},
	}

	for _, p := range folders {
		b.ensure(p)
	}
	for _, r := range records {
		n := b.ensure(r.Path)
		n.Records = append(n.Records, r)
	}

	b.finalize(b.root)
	return &Tree{Root: b.root}
}

type treeBuilder struct {
	root  *Node
	index map[string]*Node // path key -> node
}

// ensure returns the node for p, creating it and any missing ancestors.
func (b *treeBuilder) ensure(p Path) *Node {
	if n, ok := b.index[p.Key()]; ok {
		return n
	}
	parent := b.root
	for i := range p {
		prefix := p[:i+1]
		key := prefix.Key()
		n, ok := b.index[key]
		if !ok {
			n = &Node{Name: p[i], Path: prefix.Clone()}
			b.index[key] = n
			parent.Children = append(parent.Children, n)
		}
		parent = n
	}
	return parent
}

// finalize sorts children lexicographically and records by order.
// Record sorting is stable so duplicate orders from a hand-edited file
// keep their file sequence.
func (b *treeBuilder) finalize(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		return n.Children[i].Name < n.Children[j].Name
	})
	sort.SliceStable(n.Records, func(i, j int) bool {
		return n.Records[i].Order < n.Records[j].Order
	})
	for _, c := range n.Children {
		b.finalize(c)
	}
}

// Walk visits nodes depth-first, the root first, children in their
// sorted order. A non-nil error from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node) error) error {
	return walkNode(t.Root, fn)
}

func walkNode(n *Node, fn func(n *Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := walkNode(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Folders returns every folder path in walk order, excluding the root.
func (t *Tree) Folders() []Path {
	var out []Path
	t.Walk(func(n *Node) error {
		if !n.Path.IsRoot() {
			out = append(out, n.Path)
		}
		return nil
	})
	return out
}

// TotalRecords counts the records in this folder and all descendants.
func (n *Node) TotalRecords() int {
	total := len(n.Records)
	for _, c := range n.Children {
		total += c.TotalRecords()
	}
	return total
}
