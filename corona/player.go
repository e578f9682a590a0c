package corona

import (
	"time"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

// CuredThreshold is the lifetime infection a player must have gone through
// before reaching 0% counts as being cured.
const CuredThreshold = 50

// Player is one identity's simulation state. It is not safe for concurrent
// use; callers serialize access per identity.
type Player struct {
	Identity uint64 `json:"identity" db:"identity"`
	Name     string `json:"name" db:"name"`

	PercentInfected       int `json:"percent_infected" db:"percent_infected"`
	TotalInfectedPoints   int `json:"total_infected_points" db:"total_infected_points"`
	TotalCuredPoints      int `json:"total_cured_points" db:"total_cured_points"`
	MaximumInfectedPoints int `json:"maximum_infected_points" db:"maximum_infected_points"`

	Cured           bool `json:"cured" db:"cured"`
	Doctor          bool `json:"doctor" db:"doctor"`
	Immunodeficient bool `json:"immunodeficient" db:"immunodeficient"`

	Isolation   Isolation `json:"isolation" db:"isolation"`
	TouchedLast time.Time `json:"touched_last" db:"-"`

	Good     Good `json:"good" db:"good"`
	Law      Law  `json:"law" db:"law"`
	Charisma int  `json:"charisma" db:"charisma"`

	Inventory    Inventory    `json:"inventory" db:"-"`
	Achievements Achievements `json:"achievements" db:"-"`
	Statistics   Statistics   `json:"statistics" db:"-"`

	// System marks anonymized or bot identities (webhooks, the bot itself).
	// They never receive role directives. Not persisted.
	System bool `json:"-" db:"-"`
}

// IsDead reports a player at or past 100%.
func (p *Player) IsDead() bool     { return p.PercentInfected >= 100 }
func (p *Player) IsInfected() bool { return p.PercentInfected > 0 }

// Infect applies a signed infection delta and keeps every derived counter
// in sync. It is the single place PercentInfected changes. The applied
// delta is returned (vaccinated players never worsen).
func (p *Player) Infect(delta int) int {
	if p.Achievements.Vaccined {
		delta = min(0, delta)
	}

	p.TotalInfectedPoints += max(0, delta)
	p.TotalCuredPoints += max(0, -delta)
	p.PercentInfected = max(0, p.PercentInfected+delta)
	p.MaximumInfectedPoints = max(p.MaximumInfectedPoints, p.PercentInfected)

	if p.TotalInfectedPoints >= CuredThreshold && p.PercentInfected == 0 {
		p.markCured()
	}
	return delta
}

func (p *Player) markCured() {
	p.Cured = true
	p.Achievements.Set(AchievementCured)
}

// CanBeTouched reports whether the close-contact cooldown has elapsed.
func (p *Player) CanBeTouched(now time.Time, cfg Config) bool {
	cooldown := cfg.AliveTouchCooldown
	if p.IsDead() {
		cooldown = cfg.DeadTouchCooldown
	}
	return p.TouchedLast.Add(cooldown).Before(now)
}

// Inventory holds one counter per item kind.
type Inventory struct {
	Education       int64 `json:"education" db:"education"`
	KnowledgePoints int64 `json:"knowledge_points" db:"knowledge_points"`
	WorkingPoints   int64 `json:"working_points" db:"working_points"`
	ResearchPoints  int64 `json:"research_points" db:"research_points"`
	Money           int64 `json:"money" db:"money"`

	Soap           int64 `json:"soap" db:"soap"`
	Food           int64 `json:"food" db:"food"`
	AirplaneTicket int64 `json:"airplane_ticket" db:"airplane_ticket"`
	LotteryTicket  int64 `json:"lottery_ticket" db:"lottery_ticket"`
	Herb           int64 `json:"herb" db:"herb"`
	MusicCD        int64 `json:"music_cd" db:"music_cd"`
	Pill           int64 `json:"pill" db:"pill"`
	Vaccine        int64 `json:"vaccine" db:"vaccine"`
	Mask           int64 `json:"mask" db:"mask"`
	ToiletPaper    int64 `json:"toilet_paper" db:"toilet_paper"`
	Gun            int64 `json:"gun" db:"gun"`
	Dagger         int64 `json:"dagger" db:"dagger"`
	VirusTest      int64 `json:"virus_test" db:"virus_test"`
}

// NewInventory returns the starter kit every new player gets.
func NewInventory() Inventory {
	return Inventory{
		Education:   1,
		Soap:        1,
		Food:        2,
		ToiletPaper: 6,
		Dagger:      1,
	}
}

func (inv *Inventory) slot(k item.Kind) *int64 {
	switch k {
	case item.Education:
		return &inv.Education
	case item.KnowledgePoints:
		return &inv.KnowledgePoints
	case item.WorkingPoints:
		return &inv.WorkingPoints
	case item.Money:
		return &inv.Money
	case item.Soap:
		return &inv.Soap
	case item.Food:
		return &inv.Food
	case item.Herb:
		return &inv.Herb
	case item.MusicCD:
		return &inv.MusicCD
	case item.Pill:
		return &inv.Pill
	case item.Vaccine:
		return &inv.Vaccine
	case item.Mask:
		return &inv.Mask
	case item.AirplaneTicket:
		return &inv.AirplaneTicket
	case item.LotteryTicket:
		return &inv.LotteryTicket
	case item.ToiletPaper:
		return &inv.ToiletPaper
	case item.Gun:
		return &inv.Gun
	case item.Dagger:
		return &inv.Dagger
	case item.VirusTest:
		return &inv.VirusTest
	}
	return nil
}

// Count returns how many units of k are held; unknown kinds hold 0.
func (inv *Inventory) Count(k item.Kind) int64 {
	if s := inv.slot(k); s != nil {
		return *s
	}
	return 0
}

// Add changes the count of k by n, never going below zero. It returns
// the delta actually applied.
func (inv *Inventory) Add(k item.Kind, n int64) int64 {
	s := inv.slot(k)
	if s == nil {
		return 0
	}
	if *s+n < 0 {
		n = -*s
	}
	*s += n
	return n
}

// Take removes one unit of k if available.
func (inv *Inventory) Take(k item.Kind) bool {
	if inv.Count(k) < 1 {
		return false
	}
	inv.Add(k, -1)
	return true
}

// Statistics counts what a player has done, for profiles and achievements.
type Statistics struct {
	WorkedTimes     int64 `json:"worked_times" db:"worked_times"`
	ResearchedTimes int64 `json:"researched_times" db:"researched_times"`
	HugsGiven       int64 `json:"hugs_given" db:"hugs_given"`
	HugsReceived    int64 `json:"hugs_received" db:"hugs_received"`
	MadeVaccines    int64 `json:"made_vaccines" db:"made_vaccines"`
	Heals           int64 `json:"heals" db:"heals"`
	BeenEatenTimes  int64 `json:"been_eaten_times" db:"been_eaten_times"`
	EatenBrains     int64 `json:"eaten_brains" db:"eaten_brains"`
}
