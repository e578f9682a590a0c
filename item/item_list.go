package item

import "strings"

// KindList is an ordered list of kinds, used for drop pools.
type KindList []Kind

func (l KindList) Count() int {
	return len(l)
}

// At returns the kind at index i, or KindInvalid when out of range.
func (l KindList) At(i int) Kind {
	if i < 0 || i >= len(l) {
		return KindInvalid
	}
	return l[i]
}

func (l KindList) Contains(k Kind) bool {
	for _, kk := range l {
		if kk == k {
			return true
		}
	}
	return false
}

// Glyphs renders the list as a space separated glyph string.
func (l KindList) Glyphs() string {
	out := make([]string, 0, len(l))
	for _, k := range l {
		out = append(out, k.Glyph())
	}
	return strings.Join(out, " ")
}

// Weighted expands (kind, weight) pairs into a flat pool where each kind
// appears weight times, so a uniform index draw honours the weights.
func Weighted(pairs ...WeightedKind) KindList {
	out := make(KindList, 0, len(pairs)*2)
	for _, p := range pairs {
		for i := 0; i < p.Weight; i++ {
			out = append(out, p.Kind)
		}
	}
	return out
}

// WeightedKind is a pool entry repeated Weight times.
type WeightedKind struct {
	Kind   Kind
	Weight int
}
