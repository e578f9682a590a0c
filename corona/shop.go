package corona

import (
	"fmt"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

// hospitalStock is what the lab can produce, and its price in knowledge
// points. Order matters for the suggestions in confused messages.
var hospitalStock = item.KindList{
	item.Vaccine, item.Soap, item.Herb, item.Mask, item.ToiletPaper, item.Pill, item.VirusTest,
}

var hospitalPrices = map[item.Kind]int64{
	item.Vaccine:     10000,
	item.Pill:        5000,
	item.Mask:        2500,
	item.Soap:        300,
	item.Herb:        200,
	item.VirusTest:   420,
	item.ToiletPaper: 69,
}

// HospitalBatch is how many units one production run yields.
const HospitalBatch = 10

// emojiLimits is the raw argument length (in runes) from which the argument
// is clearly not a single glyph.
var emojiLimits = map[Action]int{
	ActionShop:     3,
	ActionUse:      3,
	ActionHospital: 2,
	ActionGive:     2,
}

// ResolveItem turns a raw command argument into an item kind. When that
// fails, the returned outcome is what the player should be told.
func (e *Engine) ResolveItem(a Action, raw string) (item.Kind, Outcome, bool) {
	if k, ok := item.Lookup(raw); ok {
		return k, Outcome{}, true
	}
	if limit, ok := emojiLimits[a]; ok && utf8.RuneCountInString(item.NormalizeGlyph(raw)) >= limit {
		return item.KindInvalid, confused(a, fmt.Sprintf("It's %d and we still don't know how to use emoji lol", e.now().Year())), false
	}
	return item.KindInvalid, e.confusedAbout(a), false
}

func (e *Engine) confusedAbout(a Action) Outcome {
	year := e.now().Year()
	anyItem := func() string { return item.Catalog.At(e.roll(0, item.Catalog.Count()-1)).Glyph() }
	labItem := func() string { return hospitalStock.At(e.roll(0, hospitalStock.Count()-1)).Glyph() }

	var pool []string
	switch a {
	case ActionShop:
		pool = []string{
			fmt.Sprintf("It's %d and we still don't know what emoji to use lol", year),
			"Hmm... what are you buying? 🤔",
			"I'm sorry Dave, I'm afraid I cannot let you do that...",
		}
	case ActionHospital:
		pool = []string{
			fmt.Sprintf("It's %d and we still don't know what emoji to use lol", year),
			"Hmm... what are you making? 🤔",
			"I know, science can be hard to understand, but that??",
			fmt.Sprintf("Heh, is that thing a %s? No? Then maybe find something else to do.", labItem()),
			fmt.Sprintf("I'd really prefer to see you creating a new %s...", labItem()),
			fmt.Sprintf("Why don't you make a %s instead?", labItem()),
		}
	case ActionGive:
		pool = []string{
			"Don't you think you could give me something useful ?",
			"Hmm... what are you making? 🤔",
			"What do you want to give to me ??",
		}
	default:
		pool = []string{
			fmt.Sprintf("It's %d and we still don't know what emoji to use lol", year),
			"Hmm... what are you using? 🤔",
			"I'm sorry Dave, I'm afraid I cannot let you do that...",
			fmt.Sprintf("You saw an %s in a delivery truck yesterday, maybe you could try to buy it instead?", anyItem()),
		}
	}
	return confused(a, e.pick(pool))
}

// Shop is Jeff's store: cash your working points in, or spend money.
func (e *Engine) Shop(p *Player, k item.Kind) Outcome {
	if p.IsDead() {
		return denied(ActionShop, "❌ Oh no! It appears that you are not alive :(")
	}
	if !k.Valid() {
		return e.confusedAbout(ActionShop)
	}

	g := k.Glyph()
	money := item.Money.Glyph()
	var o Outcome
	switch k {
	case item.Money:
		if p.Inventory.WorkingPoints < 6 {
			return denied(ActionShop, g+" : Go to work, you lazy ass!")
		}
		pay := int64(e.roll(5, 30))
		p.Inventory.Add(item.WorkingPoints, -int64(e.roll(1, 6)))
		p.Inventory.Add(item.Money, pay)
		o = info(ActionShop, fmt.Sprintf("%s : Here's your pay... [**money**: %s]", g, humanize.Comma(pay)))
	case item.Soap:
		if p.Inventory.Money < 60 {
			return denied(ActionShop, fmt.Sprintf("%s : Y'know, I also need payment sometimes... Get some %s and come back later!", g, money))
		}
		cost := e.buy(p, k, -40, -10)
		o = info(ActionShop, fmt.Sprintf("%s : Wash your hands regularly... [**soap**: 1, **money**: %s]", g, humanize.Comma(cost)))
	case item.Food:
		if p.Inventory.Money < 70 {
			return denied(ActionShop, fmt.Sprintf("%s : I know, we all want to eat, but still... Get some %s and come back later!", g, money))
		}
		cost := e.buy(p, k, -70, -5)
		o = info(ActionShop, fmt.Sprintf("%s : Don't forget to eat 5 vegetables a day... [**food**: 1, **money**: %s]", g, humanize.Comma(cost)))
	case item.AirplaneTicket:
		if p.Inventory.Money < 3000 {
			return denied(ActionShop, g+" : WTF No, don't fly during this outbreak!")
		}
		cost := e.buy(p, k, -2500, -2500)
		o = info(ActionShop, fmt.Sprintf("%s : Flying during a global outbreak of a deadly pandemic ? Sure!... [**airplane ticket**: 1, **money**: %s]", g, humanize.Comma(cost)))
	case item.LotteryTicket:
		if p.Inventory.Money < 150 {
			return denied(ActionShop, fmt.Sprintf("%s : You are not even rich enough to buy a friggin' lottery ticket... Get some %s and come back later!", g, money))
		}
		cost := e.buy(p, k, -150, 5)
		o = info(ActionShop, fmt.Sprintf("%s : Your chances of winning are so small... [**lottery ticket**: 1, **money**: %s]", g, humanize.Comma(cost)))
	default:
		return denied(ActionShop, fmt.Sprintf("%s : I'm sorry, I don't have stock for %s yet... Hopefully there will be a delivery sometimes soon...", g, g))
	}

	if e.d100(2) {
		p.Isolation = IsolationGoesToParties
	}
	return o
}

// buy charges a random cost in [lo,hi] (negative is a charge) and hands
// over one unit of k. The cost is returned.
func (e *Engine) buy(p *Player, k item.Kind, lo, hi int) int64 {
	cost := int64(e.roll(lo, hi))
	p.Inventory.Add(item.Money, cost)
	p.Inventory.Add(k, 1)
	return cost
}

// Hospital lets doctors turn knowledge points into medical supplies.
func (e *Engine) Hospital(p *Player, k item.Kind) Outcome {
	if p.IsDead() {
		return denied(ActionHospital, "❌ Oh no! It appears that you are not alive. You should be going to the morgue, not the hospital :(")
	}
	if !p.Doctor {
		if e.percent(2) {
			p.Inventory.Add(item.ToiletPaper, 1)
			return info(ActionHospital, fmt.Sprintf(
				"❌ Sorry dude, this is a restricted area. You need to be part of the hospital to enter. (You managed to steal 1x%s before leaving)",
				item.ToiletPaper.Glyph()))
		}
		return denied(ActionHospital, "❌ Sorry dude, this is a restricted area. You need to be part of the hospital to enter")
	}

	price, ok := hospitalPrices[k]
	if !ok {
		return e.confusedAbout(ActionHospital)
	}
	if p.Inventory.KnowledgePoints < price {
		return denied(ActionHospital, k.Glyph()+" : This laboratory is not a place for interns. Go away!")
	}

	p.Inventory.Add(item.KnowledgePoints, -price)
	p.Inventory.Add(k, HospitalBatch)
	if k == item.Vaccine {
		p.Statistics.MadeVaccines += HospitalBatch
	}
	return info(ActionHospital, fmt.Sprintf("%s : Heh, I made that myself! [**%s**: %d]", k.Glyph(), k, HospitalBatch))
}
