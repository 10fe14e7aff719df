package slugs

import "testing"

func TestComponentSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Arena", "arena"},
		{"Boss Arena", "boss-arena"},
		{"UPPER CASE", "upper-case"},
		{"wave-три", "wave-tri"},
		{"Special: Characters!", "special-characters"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ComponentSlug(tt.in); got != tt.want {
				t.Fatalf("ComponentSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"spawns.spawn", "spawns"},
		{"maps/arena.spawn", "maps-arena"},
		{"maps/Boss Arena.spawn", "maps-boss-arena"},
		{"dungeon", "dungeon"},
		{"", "catalog"},
		{"!!!.spawn", "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExportName(tt.in); got != tt.want {
				t.Fatalf("ExportName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFolderSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"arena/waves", "arena/waves"},
		{"arena/Boss Waves", "arena/boss-waves"},
		{"Hub Plaza", "hub-plaza"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FolderSlug(tt.in); got != tt.want {
				t.Fatalf("FolderSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
