package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which spawn command a record serializes to.
type Kind uint8

const (
	// KindActor records come from "bot spawn" lines and carry a single
	// heading in degrees.
	KindActor Kind = iota + 1
	// KindProp records come from "spawn" lines and carry three Euler
	// rotation angles.
	KindProp
)

// String returns the CLI token for k.
func (k Kind) String() string {
	switch k {
	case KindActor:
		return "actor"
	case KindProp:
		return "prop"
	default:
		return "unknown"
	}
}

// ParseKind maps a CLI token to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "actor":
		return KindActor, true
	case "prop":
		return KindProp, true
	default:
		return 0, false
	}
}

// Position is a location in the source coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a set of Euler angles for props.
type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Record is one placed entity. Path and Order place it in the catalog
// hierarchy: Order is unique among the records sharing a Path after any
// completed mutation, but not necessarily contiguous (deletions leave
// gaps).
type Record struct {
	Kind        Kind     `json:"kind"`
	Type        string   `json:"type"`
	Position    Position `json:"position"`
	Orientation float64  `json:"orientation,omitempty"` // actors only, degrees
	Rotation    Rotation `json:"rotation,omitempty"`    // props only
	Path        Path     `json:"path"`
	Order       int      `json:"order"`
}

// NewActor builds a validated actor record. Path and Order are assigned
// when the record is appended to a catalog.
func NewActor(entityType string, pos Position, orientation float64) (*Record, error) {
	r := &Record{
		Kind:        KindActor,
		Type:        entityType,
		Position:    pos,
		Orientation: orientation,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewProp builds a validated prop record.
func NewProp(entityType string, pos Position, rot Rotation) (*Record, error) {
	r := &Record{
		Kind:     KindProp,
		Type:     entityType,
		Position: pos,
		Rotation: rot,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the construction invariants: a determinable kind, a
// serializable entity type token, and finite numeric fields.
func (r *Record) Validate() error {
	switch r.Kind {
	case KindActor, KindProp:
	default:
		return fmt.Errorf("%w: kind is not set", ErrMalformed)
	}
	if r.Type == "" || strings.ContainsAny(r.Type, " \t") {
		return fmt.Errorf("%w: entity type %q is not a bare token", ErrMalformed, r.Type)
	}
	for _, f := range r.numericFields() {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite numeric field", ErrMalformed)
		}
	}
	if r.Order < 0 {
		return fmt.Errorf("%w: negative order %d", ErrMalformed, r.Order)
	}
	return nil
}

func (r *Record) numericFields() []float64 {
	fields := []float64{r.Position.X, r.Position.Y, r.Position.Z}
	if r.Kind == KindActor {
		return append(fields, r.Orientation)
	}
	return append(fields, r.Rotation.X, r.Rotation.Y, r.Rotation.Z)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	out := *r
	out.Path = r.Path.Clone()
	return &out
}

// Line renders r as its spawn command line, without a trailing newline.
// The count field is always the literal "1" and the orientation is
// always written, so a reparse reproduces the record exactly. The
// result is undefined for records that fail Validate.
func (r *Record) Line() string {
	var b strings.Builder
	switch r.Kind {
	case KindActor:
		b.WriteString("bot spawn 1 ")
		b.WriteString(r.Type)
		writeFloat(&b, r.Position.X)
		writeFloat(&b, r.Position.Y)
		writeFloat(&b, r.Position.Z)
		writeFloat(&b, r.Orientation)
	case KindProp:
		b.WriteString("spawn 1 ")
		b.WriteString(r.Type)
		writeFloat(&b, r.Position.X)
		writeFloat(&b, r.Position.Y)
		writeFloat(&b, r.Position.Z)
		writeFloat(&b, r.Rotation.X)
		writeFloat(&b, r.Rotation.Y)
		writeFloat(&b, r.Rotation.Z)
	}
	return b.String()
}

// Selector returns the record's display identity, "folder/path:order".
// Root records render as ":order".
func (r *Record) Selector() string {
	return r.Path.String() + ":" + strconv.Itoa(r.Order)
}

// writeFloat appends a space and the canonical decimal form of v.
// The 'f' format never produces an exponent, which the line grammar
// cannot express.
func writeFloat(b *strings.Builder, v float64) {
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
}
