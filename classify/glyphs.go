package classify

import (
	"strings"
)

// Glyph maps one symbolic marker to its semantic tag.
type Glyph struct {
	Symbol string
	Tag    string
}

// OfficialGlyph marks entries maintained by the upstream vendor.
const OfficialGlyph = "🎖️"

// The tables are ordered slices rather than maps so that the tag sets built
// from a glyph cluster come out in a stable order regardless of runtime map
// iteration.
var (
	LanguageGlyphs = []Glyph{
		{"🐍", "Python"},
		{"📇", "TypeScript"},
		{"🏎️", "Go"},
		{"🦀", "Rust"},
		{"#️⃣", "C#"},
		{"☕", "Java"},
		{"🌊", "C/C++"},
		{"💎", "Ruby"},
	}

	ScopeGlyphs = []Glyph{
		{"☁️", "Cloud"},
		{"🏠", "Local"},
		{"📟", "Embedded"},
	}

	PlatformGlyphs = []Glyph{
		{"🍎", "macOS"},
		{"🪟", "Windows"},
		{"🐧", "Linux"},
	}
)

// Languages returns the language tags whose glyphs occur anywhere in the
// cluster.
func Languages(cluster string) []string {
	return tags(LanguageGlyphs, cluster)
}

// Scopes returns the deployment-scope tags present in the cluster.
func Scopes(cluster string) []string {
	return tags(ScopeGlyphs, cluster)
}

// Platforms returns the OS platform tags present in the cluster.
func Platforms(cluster string) []string {
	return tags(PlatformGlyphs, cluster)
}

// IsOfficial reports whether the cluster carries the official marker.
func IsOfficial(cluster string) bool {
	return strings.Contains(cluster, OfficialGlyph)
}

func tags(table []Glyph, cluster string) []string {
	found := []string{}
	for _, g := range table {
		if strings.Contains(cluster, g.Symbol) {
			found = append(found, g.Tag)
		}
	}
	return found
}
