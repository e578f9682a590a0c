package item

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	variationSelectorText  = '\uFE0E'
	variationSelectorEmoji = '\uFE0F'
)

var aliases = map[string]Kind{
	"brain":     Education,
	"brains":    Education,
	"knowledge": KnowledgePoints,
	"work":      WorkingPoints,
	"salary":    Money,
	"cash":      Money,
	"potato":    Food,
	"cd":        MusicCD,
	"music":     MusicCD,
	"pills":     Pill,
	"plane":     AirplaneTicket,
	"ticket":    AirplaneTicket,
	"lottery":   LotteryTicket,
	"tp":        ToiletPaper,
	"knife":     Dagger,
	"test":      VirusTest,
}

// NormalizeGlyph drops emoji variation selectors and surrounding spaces so
// "✈️" and "✈" resolve to the same kind.
func NormalizeGlyph(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r == variationSelectorText || r == variationSelectorEmoji {
			return -1
		}
		return r
	}, s)
}

// Parse resolves a rendered glyph back to its kind. An exact match wins;
// otherwise the first catalog glyph contained in s is used, which is how
// chat clients that append skin-tone or selector runes still resolve.
func Parse(s string) (Kind, bool) {
	s = NormalizeGlyph(s)
	if s == "" {
		return KindInvalid, false
	}
	for _, k := range Catalog {
		if k.Glyph() == s {
			return k, true
		}
	}
	for _, k := range Catalog {
		if strings.Contains(s, k.Glyph()) {
			return k, true
		}
	}
	return KindInvalid, false
}

// Lookup resolves either a glyph or a typed name ("toilet paper",
// "music_cd", "vacine") to a kind. Names tolerate small typos.
func Lookup(s string) (Kind, bool) {
	if k, ok := Parse(s); ok {
		return k, true
	}
	name := normalizeName(s)
	if name == "" {
		return KindInvalid, false
	}
	for _, k := range Catalog {
		if k.String() == name {
			return k, true
		}
	}
	if k, ok := aliases[name]; ok {
		return k, true
	}

	best := KindInvalid
	bestDist := -1
	for _, k := range Catalog {
		cand := k.String()
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	return best, best != KindInvalid
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return strings.Trim(s, "_")
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 5:
		return 1
	default:
		return 2
	}
}
