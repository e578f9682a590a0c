package corona

import "strings"

// Isolation 行为类别: the closer to bunker, the more isolated.
type Isolation byte

const (
	IsolationLivesInBunker Isolation = iota + 1
	IsolationStaysAtHomeCountry
	IsolationStaysAtHomeCity
	IsolationWorksFromHome
	IsolationEssentialWorker
	IsolationNormalLife
	IsolationConstructionWorker
	IsolationMedicalPersonnel
	IsolationGoesToParties
)

var IsolationDictionary = map[Isolation]string{
	IsolationLivesInBunker:      "lives_in_bunker",
	IsolationStaysAtHomeCountry: "stays_at_home_country",
	IsolationStaysAtHomeCity:    "stays_at_home_city",
	IsolationWorksFromHome:      "works_from_home",
	IsolationEssentialWorker:    "essential_worker",
	IsolationNormalLife:         "normal_life",
	IsolationConstructionWorker: "construction_worker",
	IsolationMedicalPersonnel:   "medical_personnel",
	IsolationGoesToParties:      "goes_to_parties",
}

// exposure value used by the ambient formulas
var isolationValues = map[Isolation]int{
	IsolationLivesInBunker:      1,
	IsolationStaysAtHomeCountry: 10,
	IsolationStaysAtHomeCity:    15,
	IsolationWorksFromHome:      20,
	IsolationEssentialWorker:    20,
	IsolationNormalLife:         25,
	IsolationConstructionWorker: 30,
	IsolationMedicalPersonnel:   35,
	IsolationGoesToParties:      40,
}

// Value is the exposure weight of the isolation level.
func (i Isolation) Value() int {
	if v, ok := isolationValues[i]; ok {
		return v
	}
	return isolationValues[IsolationNormalLife]
}

func (i Isolation) String() string {
	if s, ok := IsolationDictionary[i]; ok {
		return s
	}
	return "unknown"
}

// Law is the lawful/chaotic axis of a player's alignment.
type Law byte

const (
	LawLawful Law = iota + 1
	LawNeutral
	LawChaotic
)

var LawDictionary = map[Law]string{
	LawLawful:  "lawful",
	LawNeutral: "neutral",
	LawChaotic: "chaotic",
}

func (l Law) String() string {
	if s, ok := LawDictionary[l]; ok {
		return s
	}
	return "unknown"
}

// Good is the good/evil axis of a player's alignment.
type Good byte

const (
	GoodGood Good = iota + 1
	GoodNeutral
	GoodEvil
)

var GoodDictionary = map[Good]string{
	GoodGood:    "good",
	GoodNeutral: "neutral",
	GoodEvil:    "evil",
}

func (g Good) String() string {
	if s, ok := GoodDictionary[g]; ok {
		return s
	}
	return "unknown"
}

// Action 动作类型
type Action byte

const (
	ActionNone Action = iota
	ActionWork
	ActionSchool
	ActionResearch
	ActionHug
	ActionShop
	ActionHospital
	ActionGive
	ActionHeal
	ActionBrain
	ActionUse
	ActionProfile
	ActionStatistics
	ActionPause
	ActionFind
	ActionInfect
	ActionTest
)

var ActionDictionary = map[Action]string{
	ActionNone:       "none",
	ActionWork:       "work",
	ActionSchool:     "school",
	ActionResearch:   "research",
	ActionHug:        "hug",
	ActionShop:       "shop",
	ActionHospital:   "hospital",
	ActionGive:       "give",
	ActionHeal:       "heal",
	ActionBrain:      "brain",
	ActionUse:        "use",
	ActionProfile:    "profile",
	ActionStatistics: "statistics",
	ActionPause:      "pause",
	ActionFind:       "find",
	ActionInfect:     "infect",
	ActionTest:       "test",
}

var actionAliases = map[string]Action{
	"buy":    ActionShop,
	"brains": ActionBrain,
	"eat":    ActionBrain,
}

func (a Action) String() string {
	if s, ok := ActionDictionary[a]; ok {
		return s
	}
	return "none"
}

// TwoParty reports whether the action needs a target player loaded.
func (a Action) TwoParty() bool {
	switch a {
	case ActionHug, ActionGive, ActionHeal, ActionBrain:
		return true
	}
	return false
}

// ParseAction resolves a command name (or alias) typed in chat. Ambient
// actions are never returned.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := actionAliases[name]; ok {
		return a, true
	}
	for a, s := range ActionDictionary {
		if s != name {
			continue
		}
		switch a {
		case ActionNone, ActionFind, ActionInfect, ActionTest:
			return ActionNone, false
		}
		return a, true
	}
	return ActionNone, false
}
