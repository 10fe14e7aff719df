// Package slugs provides filename slugification helpers used across roost.
//
// Export output names are derived from catalog paths and folder paths, which
// may contain spaces, mixed case, and punctuation that have no business in a
// generated filename. Everything funnels through gosimple/slug so the two
// call sites cannot drift apart.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// ComponentSlug converts a string to a URL-safe slug appropriate for file/path components.
func ComponentSlug(s string) string {
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// ExportName derives a flat output file name from a catalog's relative path.
//
// The .spawn extension is stripped and each path component is slugged, so
// "maps/Boss Arena.spawn" becomes "maps-boss-arena". An empty or fully
// slug-resistant path falls back to "catalog".
func ExportName(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, ".spawn")

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		slugged := ComponentSlug(part)
		if slugged == "" {
			continue
		}
		out = append(out, slugged)
	}
	if len(out) == 0 {
		return "catalog"
	}
	return strings.Join(out, "-")
}

// FolderSlug slugifies each component of a folder path, keeping the slashes.
func FolderSlug(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = ComponentSlug(part)
	}
	return strings.Join(parts, "/")
}
