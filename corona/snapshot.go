package corona

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

// InventoryLine is one non-empty inventory slot in a Profile.
type InventoryLine struct {
	Kind  item.Kind
	Glyph string
	Count int64
}

// Profile is the public view of a player: what the profile command shows.
type Profile struct {
	Identity uint64
	Name     string

	Inventory    []InventoryLine
	Achievements []Achievement
	Isolation    Isolation

	Doctor          bool
	Immunodeficient bool
	Law             Law
	Good            Good
	Charisma        int

	WorkedTimes     int64
	ResearchedTimes int64
	MadeVaccines    int64
}

// Snapshot copies the displayable state of p. Empty inventory slots are
// left out.
func (e *Engine) Snapshot(p *Player) Profile {
	pr := Profile{
		Identity:        p.Identity,
		Name:            p.Name,
		Achievements:    p.Achievements.Earned(),
		Isolation:       p.Isolation,
		Doctor:          p.Doctor,
		Immunodeficient: p.Immunodeficient,
		Law:             p.Law,
		Good:            p.Good,
		Charisma:        p.Charisma,
		WorkedTimes:     p.Statistics.WorkedTimes,
		ResearchedTimes: p.Statistics.ResearchedTimes,
		MadeVaccines:    p.Statistics.MadeVaccines,
	}
	for _, k := range item.Catalog {
		if n := p.Inventory.Count(k); n > 0 {
			pr.Inventory = append(pr.Inventory, InventoryLine{Kind: k, Glyph: k.Glyph(), Count: n})
		}
	}
	return pr
}

// String renders the profile as a chat message.
func (pr Profile) String() string {
	var b strings.Builder

	b.WriteString("**Inventory**\n")
	for _, l := range pr.Inventory {
		fmt.Fprintf(&b, "%s %s  ", l.Glyph, humanize.Comma(l.Count))
	}
	fmt.Fprintf(&b, "\nIsolation: %s\n", pr.Isolation)

	b.WriteString("**Achievements**\n")
	for _, a := range pr.Achievements {
		fmt.Fprintf(&b, "%s %s  ", a.Glyph(), a)
	}

	b.WriteString("\n**Other**\n")
	fmt.Fprintf(&b, "Is a doctor: %t | Is immunodeficient: %t\n", pr.Doctor, pr.Immunodeficient)
	fmt.Fprintf(&b, "Worked: %s times | Researched: %s times\n",
		humanize.Comma(pr.WorkedTimes), humanize.Comma(pr.ResearchedTimes))
	fmt.Fprintf(&b, "Lawful: %s | Good: %s | Charisma: %d | Vaccines made: %s",
		pr.Law, pr.Good, pr.Charisma, humanize.Comma(pr.MadeVaccines))
	return b.String()
}

// Profile renders p's profile as an outcome for the chat surface.
func (e *Engine) Profile(p *Player) Outcome {
	return note(ActionProfile, e.Snapshot(p).String())
}

// GlobalStats are the game-wide counters the statistics command shows.
type GlobalStats struct {
	Infected      int64 `json:"infected" db:"infected"`
	VaccineMakers int64 `json:"vaccine_makers" db:"vaccine_makers"`
	Players       int64 `json:"players" db:"players"`
}

// Statistics renders s as an outcome.
func (e *Engine) Statistics(s GlobalStats) Outcome {
	return note(ActionStatistics, fmt.Sprintf(
		"**Have you been coroned yet ?**\nPeople infected: %s | Virus name: COVID-19 | Vaccines made: %s",
		humanize.Comma(s.Infected), humanize.Comma(s.VaccineMakers)))
}
