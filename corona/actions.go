package corona

import (
	"fmt"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

// Work earns working points that the shop converts into money.
func (e *Engine) Work(p *Player) Outcome {
	if p.IsDead() {
		return denied(ActionWork, "❌ It's harder to work if you are dead :(")
	}

	p.Inventory.Add(item.WorkingPoints, 2)
	p.Statistics.WorkedTimes++
	if e.percent(6) {
		p.Isolation = IsolationConstructionWorker
	}
	return info(ActionWork, "🧰 You worked for a while")
}

// School raises education and is the road to a medical degree.
func (e *Engine) School(p *Player) Outcome {
	if p.IsDead() {
		return denied(ActionSchool, "❌ It's harder to do science when you are dead :(")
	}

	if e.percent(35 * (1 + b2i(p.Doctor))) {
		p.Inventory.Add(item.Education, 1+p.Inventory.Education/10)
		if e.percent(6) {
			p.Isolation = IsolationEssentialWorker
		}
		return info(ActionSchool, "🧬 Let's practice medicine")
	}

	if !p.Doctor && (e.percent(10) || p.Inventory.Education >= 15) {
		p.Inventory.Add(item.Education, 3)
		p.Doctor = true
		if e.percent(6) {
			p.Isolation = IsolationEssentialWorker
		}
		return info(ActionSchool, "🎓️ Doctor, you completed your degree!")
	}

	o := note(ActionSchool, "❌ You really should stop going out every night, it would be better for your studies...")
	if e.percent(6) {
		p.Isolation = IsolationGoesToParties
		o.Changed = true
	}
	return o
}

// Research turns education into knowledge points. Doctors only.
func (e *Engine) Research(p *Player) Outcome {
	if p.IsDead() {
		return denied(ActionResearch, "❌ It's harder to do science when you are dead :(")
	}
	if !p.Doctor {
		return denied(ActionResearch, "❌ Maybe you should leave that to professionals :(")
	}

	p.Statistics.ResearchedTimes++
	if e.percent(5) {
		p.Inventory.KnowledgePoints = p.Inventory.KnowledgePoints/10 + 1
		return info(ActionResearch, "👎️ You failed your research, badly :(")
	}

	p.Inventory.Add(item.KnowledgePoints, 2*p.Inventory.Education)
	if e.percent(6) {
		p.Isolation = IsolationMedicalPersonnel
	}
	return info(ActionResearch, "🧬 You are searching for a cure...")
}

// Hug is close contact: if either side is sick, both get worse.
func (e *Engine) Hug(actor, target *Player) Outcome {
	if actor.Identity == target.Identity {
		return denied(ActionHug, "❌ So cute... Hugging yourself... (call the psychologists!)")
	}
	if actor.IsDead() {
		return denied(ActionHug, "❌ Ghost hug ? :(")
	}
	if target.IsDead() {
		return denied(ActionHug, "❌ They are not really in a hugging mood, being dead and all.")
	}
	now := e.now()
	if !actor.CanBeTouched(now, e.cfg) {
		return denied(ActionHug, "❌ You probably shouldn't be doing that right now...")
	}
	if !target.CanBeTouched(now, e.cfg) {
		return denied(ActionHug, "❌ Don't hug me, I'm not feeling well...")
	}

	actor.TouchedLast = now
	target.TouchedLast = now
	actor.Statistics.HugsGiven++
	target.Statistics.HugsReceived++

	if actor.IsInfected() || target.IsInfected() {
		e.Infect(actor)
		e.Infect(actor)
		e.Infect(target)
	}
	return info(ActionHug, fmt.Sprintf("❤️ Love is good, in these times of hardness. %s 💑 %s",
		ActorPlaceholder, TargetPlaceholder))
}

// Give hands one unit of k from actor to target.
func (e *Engine) Give(actor, target *Player, k item.Kind) Outcome {
	if actor.Identity == target.Identity {
		return denied(ActionGive, "❌ Stop wasting my time, go away! ")
	}
	if actor.IsDead() {
		return denied(ActionGive, "❌ Oh no! It appears that you are not alive :(")
	}
	if target.IsDead() {
		return denied(ActionGive, "❌ Oh no! It appears that they are not alive :(")
	}
	if !k.Valid() {
		return e.confusedAbout(ActionGive)
	}
	if !k.Transferable() {
		return denied(ActionGive, fmt.Sprintf("%s : It's like, hard to give something that doesn't exist.", k.Glyph()))
	}
	if !actor.Inventory.Take(k) {
		return denied(ActionGive, fmt.Sprintf("%s : Spirit of giving is good, but you need to get something to give first!", k.Glyph()))
	}

	target.Inventory.Add(k, 1)
	return info(ActionGive, fmt.Sprintf("%s : You gave %s an %s.", k.Glyph(), TargetPlaceholder, k.Glyph()))
}

// Heal lowers the target's infection. Doctors are far more reliable, but
// doctors do not like being treated by colleagues.
func (e *Engine) Heal(actor, target *Player) Outcome {
	if actor.Identity == target.Identity {
		return denied(ActionHeal, "❌ You need a doctor, sir ? 😟")
	}
	if actor.IsDead() {
		return denied(ActionHeal, "❌ Oh no! It appears that you are not alive :(")
	}
	if target.IsDead() {
		return denied(ActionHeal, "❌ Oh no! It appears that they are dead. Call the morgue at that point. :(")
	}

	if !actor.Doctor {
		if e.d100(90) {
			return denied(ActionHeal, "❌ You don't really have the credentials there, buddy...")
		}
	} else {
		if target.Doctor && e.d100(75) {
			return denied(ActionHeal, e.pick([]string{
				"❌ You tried to heal, but you missed and injected the pavement!",
				"❌ I'm pretty sure they can manage to heal themselves. You have better to do.",
			}))
		}
		if e.d100(10) {
			return denied(ActionHeal, "❌ Did you forget your magical healing powers? Anyway, that didn't work...")
		}
	}

	actor.Statistics.Heals++
	healPct := HealPercent(e.roll(-40, -6), target.Doctor, actor.Statistics.Heals)
	e.Infect(target, healPct)
	return info(ActionHeal, fmt.Sprintf("⚕ %s already feels better (%d%%).", TargetPlaceholder, healPct))
}

// HealPercent is the (negative) delta a heal applies. Experienced healers
// get lazier; doctors heal at half rate. Never weaker than -1.
func HealPercent(draw int, targetDoctor bool, actorHeals int64) int {
	base := draw / (b2i(targetDoctor) + 1)
	pct := base / int(actorHeals/10+1)
	return min(pct, -1)
}

// Brain lets the dead feed on the living. Enough brains bring a zombie
// back to life.
func (e *Engine) Brain(actor, target *Player) Outcome {
	if !actor.IsDead() {
		return denied(ActionBrain, "❌ Oh no! It appears that you are in fact alive and very much not a zombie 🧟")
	}
	if target.IsDead() {
		return denied(ActionBrain, "❌ Oh no! It appears that they are dead. dead=bad.")
	}
	now := e.now()
	if !actor.CanBeTouched(now, e.cfg) {
		return denied(ActionBrain, "❌ You probably shouldn't be doing that right now...")
	}
	if !target.CanBeTouched(now, e.cfg) {
		return denied(ActionBrain, "❌ Get your hands off of me!")
	}

	actor.TouchedLast = now
	target.TouchedLast = now

	eaten := min(max(1, target.Inventory.Education/6), 30)
	target.Statistics.BeenEatenTimes++
	if target.Inventory.Education-eaten <= 0 {
		target.Inventory.Education = 0
		e.Infect(target)
	} else {
		target.Inventory.Add(item.Education, -eaten)
	}
	actor.Statistics.EatenBrains += eaten

	if actor.Statistics.EatenBrains >= e.cfg.ReviveBrains &&
		!actor.Achievements.BackFromTheDead &&
		e.percent(e.cfg.RevivePercent) {
		return e.revive(actor, target)
	}

	return info(ActionBrain, fmt.Sprintf("🧟 Yummy! %s brains are good to eat! [**brains**: %d]", TargetPlaceholder, eaten))
}

func (e *Engine) revive(p, meal *Player) Outcome {
	p.Achievements.Set(AchievementBackFromTheDead)
	p.Inventory.Education = p.Statistics.EatenBrains / 15
	p.Immunodeficient = true
	p.Doctor = false
	p.Infect(20 - p.PercentInfected)
	p.Law = LawChaotic
	p.Good = meal.Good

	o := info(ActionBrain, fmt.Sprintf("⛪️ %s ate one brain too many and is back among the living!", ActorPlaceholder))
	o.revokeRole(p, RoleDead)
	o.log(p, fmt.Sprintf("Looks like %s is back from the morgue... I was pretty sure they were dead... Anyway, party on I guess :)", ActorPlaceholder))
	return o
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
