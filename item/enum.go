package item

const KindInvalid Kind = 0

// Resources are counters that live in the inventory but are earned, not held.
const (
	Education Kind = iota + 0x01
	KnowledgePoints
	WorkingPoints
	Money
)

// Physical items, in catalog order.
const (
	Soap Kind = iota + 0x10
	Food
	Herb
	MusicCD
	Pill
	Vaccine
	Mask
	AirplaneTicket
	LotteryTicket
	ToiletPaper
	Gun
	Dagger
	VirusTest
)

// Catalog lists every kind in the order glyph resolution walks them.
var Catalog = KindList{
	Education, KnowledgePoints, WorkingPoints, Money,
	Soap, Food, Herb, MusicCD, Pill, Vaccine, Mask,
	AirplaneTicket, LotteryTicket, ToiletPaper, Gun, Dagger, VirusTest,
}
