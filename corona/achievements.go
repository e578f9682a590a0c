package corona

// Achievement is a one-way milestone flag.
type Achievement byte

const (
	AchievementHospitalStay Achievement = iota + 1
	AchievementItWasJustACold
	AchievementSymptoms
	AchievementBadSymptoms
	AchievementTestedPositive
	AchievementVaccined
	AchievementSuicided
	AchievementMurderer
	AchievementVictim
	AchievementDied
	AchievementCured
	AchievementTraveler
	AchievementBackFromTheDead
)

// AllAchievements is the display order.
var AllAchievements = []Achievement{
	AchievementHospitalStay, AchievementItWasJustACold, AchievementSymptoms,
	AchievementBadSymptoms, AchievementTestedPositive, AchievementVaccined,
	AchievementSuicided, AchievementMurderer, AchievementVictim, AchievementDied,
	AchievementCured, AchievementTraveler, AchievementBackFromTheDead,
}

var achievementMeta = map[Achievement]struct{ key, glyph string }{
	AchievementHospitalStay:    {"hospital_stay", "🏥"},
	AchievementItWasJustACold:  {"it_was_just_a_cold", "🤧"},
	AchievementSymptoms:        {"symptoms", "🤢"},
	AchievementBadSymptoms:     {"bad_symptoms", "🤮"},
	AchievementTestedPositive:  {"tested_positive", "🦠"},
	AchievementVaccined:        {"vaccined", "💉"},
	AchievementSuicided:        {"suicided", "💀"},
	AchievementMurderer:        {"murderer", "🔫"},
	AchievementVictim:          {"victim", "☮"},
	AchievementDied:            {"died", "☣"},
	AchievementCured:           {"cured", "🕶️"},
	AchievementTraveler:        {"traveler", "✈️"},
	AchievementBackFromTheDead: {"back_from_the_dead", "⛪️"},
}

func (a Achievement) String() string {
	if m, ok := achievementMeta[a]; ok {
		return m.key
	}
	return "unknown"
}

// Glyph is the emoji shown on profiles.
func (a Achievement) Glyph() string {
	if m, ok := achievementMeta[a]; ok {
		return m.glyph
	}
	return "?"
}

// Achievements holds one-way flags. Once set, a flag is never cleared.
type Achievements struct {
	HospitalStay    bool `json:"hospital_stay" db:"hospital_stay"`
	ItWasJustACold  bool `json:"it_was_just_a_cold" db:"it_was_just_a_cold"`
	Symptoms        bool `json:"symptoms" db:"symptoms"`
	BadSymptoms     bool `json:"bad_symptoms" db:"bad_symptoms"`
	TestedPositive  bool `json:"tested_positive" db:"tested_positive"`
	Vaccined        bool `json:"vaccined" db:"vaccined"`
	Suicided        bool `json:"suicided" db:"suicided"`
	Murderer        bool `json:"murderer" db:"murderer"`
	Victim          bool `json:"victim" db:"victim"`
	Died            bool `json:"died" db:"died"`
	Cured           bool `json:"cured" db:"cured"`
	Traveler        bool `json:"traveler" db:"traveler"`
	BackFromTheDead bool `json:"back_from_the_dead" db:"back_from_the_dead"`
}

func (a *Achievements) flag(ach Achievement) *bool {
	switch ach {
	case AchievementHospitalStay:
		return &a.HospitalStay
	case AchievementItWasJustACold:
		return &a.ItWasJustACold
	case AchievementSymptoms:
		return &a.Symptoms
	case AchievementBadSymptoms:
		return &a.BadSymptoms
	case AchievementTestedPositive:
		return &a.TestedPositive
	case AchievementVaccined:
		return &a.Vaccined
	case AchievementSuicided:
		return &a.Suicided
	case AchievementMurderer:
		return &a.Murderer
	case AchievementVictim:
		return &a.Victim
	case AchievementDied:
		return &a.Died
	case AchievementCured:
		return &a.Cured
	case AchievementTraveler:
		return &a.Traveler
	case AchievementBackFromTheDead:
		return &a.BackFromTheDead
	}
	return nil
}

// Has reports whether ach was earned.
func (a *Achievements) Has(ach Achievement) bool {
	f := a.flag(ach)
	return f != nil && *f
}

// Set turns the flag on. There is no way to turn it off again.
// It reports whether the flag was newly set.
func (a *Achievements) Set(ach Achievement) bool {
	f := a.flag(ach)
	if f == nil || *f {
		return false
	}
	*f = true
	return true
}

// Earned lists the flags that are set, in display order.
func (a *Achievements) Earned() []Achievement {
	out := make([]Achievement, 0, len(AllAchievements))
	for _, ach := range AllAchievements {
		if a.Has(ach) {
			out = append(out, ach)
		}
	}
	return out
}
