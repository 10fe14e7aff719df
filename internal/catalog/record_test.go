package catalog

import (
	"errors"
	"math"
	"testing"
)

func TestRecordLine(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "actor",
			rec: Record{
				Kind:        KindActor,
				Type:        "Goblin",
				Position:    Position{X: 10, Y: 20, Z: 30},
				Orientation: 90,
			},
			want: "bot spawn 1 Goblin 10 20 30 90",
		},
		{
			name: "actor with default orientation",
			rec: Record{
				Kind:     KindActor,
				Type:     "Guard",
				Position: Position{X: 1, Y: 2, Z: 3},
			},
			want: "bot spawn 1 Guard 1 2 3 0",
		},
		{
			name: "actor with fractional and negative coordinates",
			rec: Record{
				Kind:        KindActor,
				Type:        "Wolf",
				Position:    Position{X: -12.5, Y: 0.25, Z: 3},
				Orientation: 180,
			},
			want: "bot spawn 1 Wolf -12.5 0.25 3 180",
		},
		{
			name: "prop",
			rec: Record{
				Kind:     KindProp,
				Type:     "Barrel",
				Position: Position{X: 1, Y: 2, Z: 3},
				Rotation: Rotation{X: 0, Y: 45, Z: 90},
			},
			want: "spawn 1 Barrel 1 2 3 0 45 90",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

// The line a record renders must match the grammar its kind parses
// with, or saved files would not reload.
func TestRecordLineReparses(t *testing.T) {
	recs := []*Record{
		{Kind: KindActor, Type: "Goblin", Position: Position{X: 1e21, Y: -0.0001, Z: 7}, Orientation: 359.5},
		{Kind: KindProp, Type: "Crate", Position: Position{X: -1, Y: -2, Z: -3}, Rotation: Rotation{X: 0.5, Y: 0, Z: -90}},
	}
	for _, r := range recs {
		got, ok := ParseCommandLine(r.Line())
		if !ok {
			t.Fatalf("line %q does not reparse", r.Line())
		}
		if !sameFields(got, r) {
			t.Fatalf("reparse of %q = %+v, want %+v", r.Line(), got, r)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"kind unset", Record{Type: "Goblin"}},
		{"empty type", Record{Kind: KindActor}},
		{"type with space", Record{Kind: KindActor, Type: "two words"}},
		{"type with tab", Record{Kind: KindProp, Type: "a\tb"}},
		{"nan position", Record{Kind: KindActor, Type: "G", Position: Position{X: math.NaN()}}},
		{"inf orientation", Record{Kind: KindActor, Type: "G", Orientation: math.Inf(1)}},
		{"inf rotation", Record{Kind: KindProp, Type: "G", Rotation: Rotation{Z: math.Inf(-1)}}},
		{"negative order", Record{Kind: KindActor, Type: "G", Order: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("error %v does not wrap ErrMalformed", err)
			}
		})
	}

	ok := Record{Kind: KindProp, Type: "Barrel", Order: 12}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewActorRejectsBadType(t *testing.T) {
	if _, err := NewActor("two words", Position{}, 0); err == nil {
		t.Fatal("expected error")
	}
	if _, err := NewProp("", Position{}, Rotation{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"actor", KindActor, true},
		{"Prop", KindProp, true},
		{" ACTOR ", KindActor, true},
		{"bot", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseKind(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParseKind(%q) = %v, %v, want %v, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestRecordSelector(t *testing.T) {
	root := Record{Kind: KindActor, Type: "G", Order: 0}
	if got := root.Selector(); got != ":0" {
		t.Fatalf("Selector() = %q, want %q", got, ":0")
	}
	nested := Record{Kind: KindProp, Type: "B", Path: ParsePath("A/B"), Order: 3}
	if got := nested.Selector(); got != "A/B:3" {
		t.Fatalf("Selector() = %q, want %q", got, "A/B:3")
	}
}

func TestRecordCloneIndependent(t *testing.T) {
	r := &Record{Kind: KindActor, Type: "G", Path: ParsePath("A")}
	c := r.Clone()
	c.Path[0] = "X"
	c.Order = 9
	if r.Path[0] != "A" || r.Order != 0 {
		t.Fatalf("clone aliases original: %+v", r)
	}
}

// sameFields reports field equality ignoring nothing: kind, type,
// position, orientation, rotation, path, and order all count.
func sameFields(a, b *Record) bool {
	return a.Kind == b.Kind &&
		a.Type == b.Type &&
		a.Position == b.Position &&
		a.Orientation == b.Orientation &&
		a.Rotation == b.Rotation &&
		a.Path.Equal(b.Path) &&
		a.Order == b.Order
}
