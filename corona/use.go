package corona

import (
	"fmt"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

const airplaneMeme = "memes/airplane_ticket.png"

// Use consumes an item from p's inventory. target is only meaningful for
// weapons and may be nil; it may also be p itself.
func (e *Engine) Use(p *Player, k item.Kind, target *Player) Outcome {
	if p.IsDead() {
		return denied(ActionUse, "❌ Oh no! It appears that you are not alive, you can't use things if you are dead :(")
	}
	if !k.Valid() {
		return e.confusedAbout(ActionUse)
	}

	var o Outcome
	switch k {
	case item.Gun:
		if target == nil && p.Inventory.Gun >= 1 {
			return note(ActionUse, k.Glyph()+" : Do not kill me, I swear I'll do no harm!")
		}
		o = e.useWeapon(p, k, target)
	case item.Dagger:
		o = e.useWeapon(p, k, target)
	default:
		o = e.useOn(p, k)
	}

	if o.Kind == OutcomeInfo && e.d100(2) {
		p.Isolation = IsolationStaysAtHomeCity
	}
	return o
}

func (e *Engine) useOn(p *Player, k item.Kind) Outcome {
	g := k.Glyph()
	if _, ok := useEmpty[k]; !ok {
		return denied(ActionUse, fmt.Sprintf("%s : Do you know how to use an %s anyway ?", g, g))
	}
	if !p.Inventory.Take(k) {
		return denied(ActionUse, fmt.Sprintf(useEmpty[k], g))
	}

	var o Outcome
	switch k {
	case item.Soap:
		e.Infect(p, -3)
		o = info(ActionUse, g+" : You washed your hands. Good job! [**soap**: -1]")

	case item.Food:
		e.Infect(p, -4)
		o = info(ActionUse, g+" : Home cooked meals FTW!... [**food**: -1]")

	case item.AirplaneTicket:
		e.Infect(p, 25)
		p.Isolation = IsolationGoesToParties
		p.Achievements.Set(AchievementTraveler)
		o = info(ActionUse, g+" : I'm going to the airport and flying to another channel to avoid the virus!")
		o.attach(airplaneMeme)

	case item.LotteryTicket:
		o = e.lottery(p)

	case item.Herb:
		e.Infect(p, e.roll(-10, 10))
		p.Isolation = IsolationStaysAtHomeCountry
		o = info(ActionUse, g+" : Does homeopathy works ?!")

	case item.MusicCD:
		e.Infect(p, e.roll(-14, 5))
		if e.percent(15) {
			p.Isolation = IsolationGoesToParties
		}
		o = info(ActionUse, g+" : Music cures boredoom ?!")

	case item.Pill:
		if e.percent(8) {
			e.Infect(p)
			o = info(ActionUse, g+" : Huh ?! It's rat poison, why would you eat that ?")
			break
		}
		e.Infect(p, e.roll(-70, 0))
		if e.percent(15) {
			p.Isolation = IsolationNormalLife
		}
		o = info(ActionUse, g+" : Acetaminophen cures cancer, change my mind ?!")

	case item.Vaccine:
		if !e.percent(70) {
			e.Infect(p)
			o = info(ActionUse, g+" : You fu*king junkie!")
			break
		}
		e.Infect(p, -100)
		p.Achievements.Set(AchievementVaccined)
		p.markCured()
		o = info(ActionUse, g+" : IMMUNITY !")
		o.grantRole(p, RoleCured)

	case item.Mask:
		e.Infect(p, e.roll(-6, 0))
		if e.percent(15) {
			p.Isolation = IsolationStaysAtHomeCity
		}
		o = info(ActionUse, g+" : Achoo ?!")

	case item.ToiletPaper:
		e.Infect(p, e.roll(-3, -1))
		o = info(ActionUse, g+" : Clean ass!")

	case item.VirusTest:
		o = info(ActionUse, fmt.Sprintf(
			"%s : An extensive test was done on your virtual body. You are infected at %d%% If this goes to 100%% you are dead.\n"+
				"Historical analysis reveals you were infected at %d%% maximum, and you managed to cure yourself from %d%% of the sickness.",
			g, p.PercentInfected, p.MaximumInfectedPoints, p.TotalCuredPoints))
	}
	return o
}

// useEmpty holds, for every item with a use, what to say when none is left.
var useEmpty = map[item.Kind]string{
	item.Soap:           "%[1]s : Go and buy some %[1]s first!",
	item.Food:           "%s : Oh no! Your fridge is empty!",
	item.AirplaneTicket: "%s : Airports are closed!!",
	item.LotteryTicket:  "%s : You are still poor!!",
	item.Herb:           "%s : lol no.",
	item.MusicCD:        "%s : Maybe if you sing out loud it could have the same effect.",
	item.Pill:           "%s : You'd have to go and see a doctor for that buddy.",
	item.Vaccine:        "%s : Creating a vaccine takes 18 months, do you really expect that you'll be provided one ?",
	item.Mask:           "%s : There is no more of that, buddy.",
	item.ToiletPaper:    "%s : There is no more of that, buddy.",
	item.VirusTest:      "%s : You need a test first, to test yourself, y'know.",
}

// lottery draws 0..100: 0 is a catastrophe, up to 31 a small win, 100 the
// big one. The ticket is already spent.
func (e *Engine) lottery(p *Player) Outcome {
	g := item.LotteryTicket.Glyph()
	switch n := e.roll(0, 100); {
	case n == 0:
		// The only path that takes the cured status away.
		p.Cured = false
		p.Immunodeficient = true
		p.Charisma = -999
		e.Infect(p, 100)
		return info(ActionUse, g+" : Oopsie...")
	case n <= 31:
		p.Inventory.Add(item.Money, 100)
		return info(ActionUse, g+" : Jackpot!")
	case n == 100:
		p.Inventory.Add(item.Money, 5000)
		return info(ActionUse, g+" : Jackpot! 💸")
	default:
		return info(ActionUse, g+" : You won nothing. Better luck next time!")
	}
}

// useWeapon handles the gun and the dagger. Both weapons are confiscated
// after any attack, and the attacker goes into hiding.
func (e *Engine) useWeapon(p *Player, k item.Kind, target *Player) Outcome {
	g := k.Glyph()
	if p.Inventory.Count(k) < 1 {
		if k == item.Gun {
			return denied(ActionUse, g+" : You are too young to use firearms anyway.")
		}
		return denied(ActionUse, fmt.Sprintf("%s : You don't have any clean %s left.", g, g))
	}

	if target == nil {
		// dagger only, the gun case returns earlier
		p.Inventory.Add(item.Dagger, -1)
		p.Inventory.Add(item.Food, 3)
		return info(ActionUse, g+" : You cooked yourself some meals!")
	}

	var prefix string
	if target.Identity == p.Identity {
		target = p
		p.Achievements.Set(AchievementSuicided)
		prefix = g + " : Suicide sure is an option to not get infected!\n"
	}

	p.Inventory.Gun = 0
	p.Inventory.Dagger = 0
	p.Isolation = IsolationLivesInBunker
	p.Achievements.Set(AchievementMurderer)
	target.Achievements.Set(AchievementVictim)

	if k == item.Gun {
		e.Infect(p, e.roll(25, 75))
		e.Infect(target, e.roll(25, 75))
		return info(ActionUse, fmt.Sprintf("%s%s : BLOODY MURDER! YOU FUCKING SHOT %s!!!!!!", prefix, g, TargetPlaceholder))
	}

	e.Infect(p, e.roll(5, 25))
	e.Infect(target, e.roll(5, 23))
	if e.percent(10) {
		// revenge
		target.Inventory.Add(item.Gun, 1)
		return info(ActionUse, fmt.Sprintf("%s%s : Stabby stabby %s!", prefix, g, TargetPlaceholder))
	}
	return info(ActionUse, fmt.Sprintf("%s%s : BLOODY MURDER! YOU FUCKING STABBED %s!!!!!!", prefix, g, TargetPlaceholder))
}
