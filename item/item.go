package item

import "strings"

// Kind is the stable symbolic key of an inventory entry.
//
// Encoding:
// - 0x01..0x0F: resources (earned counters, cannot be handed over)
// - 0x10..:     physical items
type Kind byte

type meta struct {
	key   string
	glyph string
}

var kindMeta = map[Kind]meta{
	Education:       {"education", "🧠"},
	KnowledgePoints: {"knowledge_points", "🔬"},
	WorkingPoints:   {"working_points", "🛠"},
	Money:           {"money", "💰"},
	Soap:            {"soap", "🧼"},
	Food:            {"food", "🥔"},
	Herb:            {"herb", "🌿"},
	MusicCD:         {"music_cd", "💿"},
	Pill:            {"pill", "💊"},
	Vaccine:         {"vaccine", "💉"},
	Mask:            {"mask", "😷"},
	AirplaneTicket:  {"airplane_ticket", "✈"},
	LotteryTicket:   {"lottery_ticket", "🎫"},
	ToiletPaper:     {"toilet_paper", "🧻"},
	Gun:             {"gun", "🔫"},
	Dagger:          {"dagger", "🔪"},
	VirusTest:       {"virus_test", "📊"},
}

func (k Kind) String() string {
	if m, ok := kindMeta[k]; ok {
		return m.key
	}
	return "invalid"
}

// Glyph is the emoji the chat surface shows for the kind.
func (k Kind) Glyph() string {
	if m, ok := kindMeta[k]; ok {
		return m.glyph
	}
	return "?"
}

// Label is the key with underscores replaced, used in outcome messages.
func (k Kind) Label() string {
	return strings.ReplaceAll(k.String(), "_", " ")
}

// Valid reports whether k is a known item.
func (k Kind) Valid() bool {
	_, ok := kindMeta[k]
	return ok
}

// IsResource reports whether k is an earned counter rather than a held item.
func (k Kind) IsResource() bool {
	return k >= Education && k <= Money
}

// Transferable reports whether one unit of k can be handed to another player.
// Money is a resource but can still change hands.
func (k Kind) Transferable() bool {
	switch k {
	case Education, KnowledgePoints, WorkingPoints:
		return false
	}
	return k.Valid()
}
