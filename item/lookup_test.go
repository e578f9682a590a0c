package item

import "testing"

func TestParse_RoundTripsEveryGlyph(t *testing.T) {
	for _, k := range Catalog {
		got, ok := Parse(k.Glyph())
		if !ok || got != k {
			t.Fatalf("Parse(%q) = %v,%v want %v", k.Glyph(), got, ok, k)
		}
	}
}

func TestParse_IgnoresVariationSelector(t *testing.T) {
	got, ok := Parse("✈️")
	if !ok || got != AirplaneTicket {
		t.Fatalf("expected airplane ticket, got %v (ok=%v)", got, ok)
	}
	got, ok = Parse(" 🛠️ ")
	if !ok || got != WorkingPoints {
		t.Fatalf("expected working points, got %v (ok=%v)", got, ok)
	}
}

func TestParse_Unknown(t *testing.T) {
	if k, ok := Parse("🍕"); ok {
		t.Fatalf("expected no match, got %v", k)
	}
	if _, ok := Parse(""); ok {
		t.Fatalf("empty string should not resolve")
	}
}

func TestLookup_Names(t *testing.T) {
	cases := map[string]Kind{
		"toilet paper": ToiletPaper,
		"music_cd":     MusicCD,
		"Vaccine":      Vaccine,
		"vacine":       Vaccine,
		"tp":           ToiletPaper,
		"dager":        Dagger,
		"🔫":            Gun,
	}
	for in, want := range cases {
		got, ok := Lookup(in)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = %v,%v want %v", in, got, ok, want)
		}
	}
}

func TestLookup_RejectsFarNames(t *testing.T) {
	for _, in := range []string{"spaceship", "gnu", "x"} {
		if k, ok := Lookup(in); ok {
			t.Fatalf("Lookup(%q) unexpectedly matched %v", in, k)
		}
	}
}

func TestTransferable(t *testing.T) {
	for _, k := range []Kind{Education, KnowledgePoints, WorkingPoints} {
		if k.Transferable() {
			t.Fatalf("%v must not be transferable", k)
		}
	}
	for _, k := range []Kind{Money, Soap, Gun, VirusTest} {
		if !k.Transferable() {
			t.Fatalf("%v should be transferable", k)
		}
	}
	if KindInvalid.Transferable() {
		t.Fatalf("invalid kind must not be transferable")
	}
}

func TestWeighted(t *testing.T) {
	pool := Weighted(WeightedKind{Mask, 3}, WeightedKind{Herb, 1})
	if pool.Count() != 4 {
		t.Fatalf("expected 4 slots, got %d", pool.Count())
	}
	if pool.At(3) != Herb || pool.At(0) != Mask || pool.At(9) != KindInvalid {
		t.Fatalf("unexpected pool layout: %v", pool)
	}
}
