package corona

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

// findPool holds what can be picked up from a channel, with weights.
var findPool = item.Weighted(
	item.WeightedKind{Kind: item.Mask, Weight: 3},
	item.WeightedKind{Kind: item.ToiletPaper, Weight: 3},
	item.WeightedKind{Kind: item.VirusTest, Weight: 3},
	item.WeightedKind{Kind: item.MusicCD, Weight: 3},
	item.WeightedKind{Kind: item.Herb, Weight: 1},
)

// AmbientOptions tunes one ambient tick.
type AmbientOptions struct {
	// SkipFind is set for messages the bot wrote itself.
	SkipFind bool
}

// AmbientResult is what one ambient tick produced.
type AmbientResult struct {
	Outcomes []Outcome
	Infected bool
	Changed  bool
}

// Ambient runs the passive per-message tick for the author p: find,
// infect, test, in that order. peers are the other players who spoke in the
// same channel during the exposure window.
func (e *Engine) Ambient(p *Player, peers []*Player, opts AmbientOptions) AmbientResult {
	var res AmbientResult
	if !opts.SkipFind {
		if o, ok := e.MaybeFind(p); ok {
			res.Outcomes = append(res.Outcomes, o)
			res.Changed = true
		}
	}
	if e.MaybeInfect(p, peers) {
		res.Infected = true
		res.Changed = true
	}
	if o, ok := e.MaybeTest(p); ok {
		res.Outcomes = append(res.Outcomes, o)
		res.Changed = true
	}
	return res
}

// MaybeFind occasionally hands the player an item lying around.
func (e *Engine) MaybeFind(p *Player) (Outcome, bool) {
	if p.IsDead() {
		return Outcome{}, false
	}
	findChance := p.Isolation.Value() / 2
	if e.roll(0, 1000) > findChance {
		return Outcome{}, false
	}

	k := findPool.At(e.roll(0, findPool.Count()-1))
	p.Inventory.Add(k, 1)
	return info(ActionFind, fmt.Sprintf(
		"Hey %s, is that %s yours? I found it in this channel, guess you can keep it, I have no use for it anyway.",
		ActorPlaceholder, k.Glyph())), true
}

// InfectionChance is the percentage MaybeInfect rolls against. peers is
// everyone who spoke in the channel recently; each identity counts once,
// p included when present, with p's own state standing in for its entry.
func InfectionChance(p *Player, peers []*Player) int {
	chance := 10.0

	seen := make(map[uint64]bool, len(peers))
	for _, peer := range peers {
		if peer == nil || seen[peer.Identity] {
			continue
		}
		seen[peer.Identity] = true
		if peer.Identity == p.Identity {
			peer = p
		}
		switch {
		case peer.IsDead():
			chance += 20
		case peer.IsInfected():
			chance += 8
		}
	}

	if p.Immunodeficient {
		chance *= 2
	}
	chance *= float64(p.Isolation.Value()) / 10

	if p.IsInfected() {
		// already sick: slow the snowball down
		chance -= 10
		chance /= 2
	}
	chance /= 4
	if p.Cured {
		chance /= 2
	}

	return max(int(math.RoundToEven(chance)), 1)
}

// MaybeInfect exposes p to the people around them. It reports whether an
// infection delta was applied.
func (e *Engine) MaybeInfect(p *Player, peers []*Player) bool {
	if p.IsDead() || p.Achievements.Vaccined {
		return false
	}
	chance := InfectionChance(p, peers)
	infect := e.roll(0, 100) <= chance

	e.log.WithFields(logrus.Fields{
		"identity": p.Identity,
		"chance":   chance,
		"infect":   infect,
	}).Debug("Infection roll")

	if infect {
		e.Infect(p)
	}
	return infect
}

// MaybeTest records a death the first time it is noticed, or lets a sick
// player find out they are positive.
func (e *Engine) MaybeTest(p *Player) (Outcome, bool) {
	if p.IsDead() {
		if !p.Achievements.Set(AchievementDied) {
			return Outcome{}, false
		}
		o := info(ActionTest, fmt.Sprintf("🎈 RIP %s. Dead, Jim!", ActorPlaceholder))
		o.log(p, fmt.Sprintf("Looks like %s is dead :(", ActorPlaceholder))
		o.grantRole(p, RoleDead)
		return o, true
	}

	if p.Achievements.TestedPositive {
		return Outcome{}, false
	}
	if !p.IsInfected() || p.PercentInfected <= 15 {
		return Outcome{}, false
	}
	if e.roll(0, 100) > p.PercentInfected/10 {
		return Outcome{}, false
	}

	var msg string
	switch {
	case p.PercentInfected <= 30:
		p.Achievements.Set(AchievementItWasJustACold)
		msg = "🤒 Bruh %s, you don't feel so well... Maybe you should have some rest!"
	case p.PercentInfected <= 40:
		p.Achievements.Set(AchievementSymptoms)
		msg = "🤒 Bruh %s, you don't feel so well... Maybe you should see a doctor!"
	case p.PercentInfected <= 50:
		p.Achievements.Set(AchievementBadSymptoms)
		msg = "🤒 Bruh %s, control yourself and stop vomiting on my shoes!"
	case p.PercentInfected <= 60:
		p.Achievements.Set(AchievementHospitalStay)
		msg = "🤒 Bruh %s, you should go to the hospital!"
	default:
		msg = "🤒 Bruh %s, you look terrible. Don't you think you should get tested?"
	}
	p.Achievements.Set(AchievementTestedPositive)

	o := info(ActionTest, fmt.Sprintf(msg, ActorPlaceholder))
	o.grantRole(p, RoleInfected)
	o.log(p, fmt.Sprintf("Looks like %s is infected :(", ActorPlaceholder))
	return o, true
}
