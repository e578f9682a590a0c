package corona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DuckHunt-discord/Coroned-event/item"
)

func TestInfectionChance(t *testing.T) {
	self := healthyPlayer(1)
	infected := healthyPlayer(2)
	infected.PercentInfected = 30
	dead := deadPlayer(3)

	cases := []struct {
		name  string
		setup func(p *Player)
		peers []*Player
		want  int
	}{
		{name: "alone", want: 6},
		{name: "peers", peers: []*Player{infected, dead, infected, self}, want: 24},
		{
			name:  "infected author exposes themselves",
			setup: func(p *Player) { p.PercentInfected = 10 },
			peers: []*Player{self, self},
			want:  4,
		},
		{
			name:  "infected author not among speakers",
			setup: func(p *Player) { p.PercentInfected = 10 },
			want:  2,
		},
		{name: "healthy peer", peers: []*Player{healthyPlayer(4)}, want: 6},
		{
			name:  "infected in bunker clamps to 1",
			setup: func(p *Player) { p.PercentInfected = 10; p.Isolation = IsolationLivesInBunker },
			want:  1,
		},
		{
			name:  "immunodeficient party goer, cured",
			setup: func(p *Player) { p.Immunodeficient = true; p.Isolation = IsolationGoesToParties; p.Cured = true },
			want:  10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := healthyPlayer(1)
			if tc.setup != nil {
				tc.setup(p)
			}
			assert.Equal(t, tc.want, InfectionChance(p, tc.peers))
		})
	}
}

func TestMaybeFind(t *testing.T) {
	e, _ := newTestEngine(t, 12, 0)
	p := healthyPlayer(1)

	o, ok := e.MaybeFind(p)
	require.True(t, ok)
	require.Equal(t, int64(1), p.Inventory.Mask)
	require.Contains(t, o.Message, item.Mask.Glyph())
	require.Contains(t, o.Message, ActorPlaceholder)

	e, _ = newTestEngine(t, 13)
	p = healthyPlayer(1)
	_, ok = e.MaybeFind(p)
	require.False(t, ok)
	require.Equal(t, int64(0), p.Inventory.Mask)
}

func TestMaybeFind_DeadPlayersFindNothing(t *testing.T) {
	e, src := newTestEngine(t, 0, 0)
	p := deadPlayer(1)

	if _, ok := e.MaybeFind(p); ok {
		t.Fatalf("dead player found an item")
	}
	if src.Remaining() != 2 {
		t.Fatalf("dead player should not consume draws")
	}
}

func TestMaybeInfect_SkipsVaccinated(t *testing.T) {
	e, _ := newTestEngine(t, 0, 8)
	p := healthyPlayer(1)
	p.Achievements.Set(AchievementVaccined)

	if e.MaybeInfect(p, nil) {
		t.Fatalf("vaccinated player was exposed")
	}
	if p.PercentInfected != 0 {
		t.Fatalf("unexpected infection: %d", p.PercentInfected)
	}
}

func TestMaybeInfect(t *testing.T) {
	e, _ := newTestEngine(t, 6, 5)
	p := healthyPlayer(1)
	require.True(t, e.MaybeInfect(p, nil))
	require.Equal(t, 5, p.PercentInfected)

	e, _ = newTestEngine(t, 7)
	p = healthyPlayer(1)
	require.False(t, e.MaybeInfect(p, nil))
	require.Equal(t, 0, p.PercentInfected)
}

func TestMaybeTest_SeverityBands(t *testing.T) {
	cases := []struct {
		percent int
		flag    Achievement
	}{
		{25, AchievementItWasJustACold},
		{35, AchievementSymptoms},
		{45, AchievementBadSymptoms},
		{55, AchievementHospitalStay},
		{70, 0},
	}

	for _, tc := range cases {
		e, _ := newTestEngine(t, 0)
		p := healthyPlayer(1)
		p.PercentInfected = tc.percent

		o, ok := e.MaybeTest(p)
		if !ok {
			t.Fatalf("percent=%d: expected a test outcome", tc.percent)
		}
		if !p.Achievements.TestedPositive {
			t.Fatalf("percent=%d: tested_positive not set", tc.percent)
		}

		bands := 0
		for _, a := range []Achievement{AchievementItWasJustACold, AchievementSymptoms, AchievementBadSymptoms, AchievementHospitalStay} {
			if p.Achievements.Has(a) {
				bands++
				if a != tc.flag {
					t.Fatalf("percent=%d: unexpected band %s", tc.percent, a)
				}
			}
		}
		if tc.flag != 0 && bands != 1 {
			t.Fatalf("percent=%d: expected exactly one band, got %d", tc.percent, bands)
		}
		if tc.flag == 0 && bands != 0 {
			t.Fatalf("percent=%d: expected no band, got %d", tc.percent, bands)
		}

		var granted bool
		for _, d := range o.Directives {
			if d.Type == DirectiveGrantRole && d.Role == RoleInfected {
				granted = true
			}
		}
		if !granted {
			t.Fatalf("percent=%d: infected role not granted", tc.percent)
		}
	}
}

func TestMaybeTest_OnlyOnce(t *testing.T) {
	e, _ := newTestEngine(t, 0, 0)
	p := healthyPlayer(1)
	p.PercentInfected = 40

	_, ok := e.MaybeTest(p)
	require.True(t, ok)
	_, ok = e.MaybeTest(p)
	require.False(t, ok)
}

func TestMaybeTest_MildCasesStayUnnoticed(t *testing.T) {
	e, src := newTestEngine(t, 0)
	p := healthyPlayer(1)
	p.PercentInfected = 15

	_, ok := e.MaybeTest(p)
	require.False(t, ok)
	require.Equal(t, 1, src.Remaining())
}

func TestMaybeTest_DeathRecordedOnce(t *testing.T) {
	e, _ := newTestEngine(t)
	p := deadPlayer(1)

	o, ok := e.MaybeTest(p)
	require.True(t, ok)
	require.True(t, p.Achievements.Died)
	require.True(t, strings.Contains(o.Message, "RIP"))

	types := make([]DirectiveType, 0, len(o.Directives))
	for _, d := range o.Directives {
		types = append(types, d.Type)
	}
	require.ElementsMatch(t, []DirectiveType{DirectiveLog, DirectiveGrantRole}, types)

	_, ok = e.MaybeTest(p)
	require.False(t, ok)
}

func TestMaybeTest_SystemIdentityGetsNoRoles(t *testing.T) {
	e, _ := newTestEngine(t)
	p := deadPlayer(1)
	p.System = true

	o, ok := e.MaybeTest(p)
	require.True(t, ok)
	for _, d := range o.Directives {
		if d.Type == DirectiveGrantRole || d.Type == DirectiveRevokeRole {
			t.Fatalf("system identity received a role directive: %+v", d)
		}
	}
}

func TestAmbient_Order(t *testing.T) {
	// find: miss; infect: hit with delta 3; test: 3% is too mild
	e, src := newTestEngine(t, 1000, 0, 3)
	p := healthyPlayer(1)

	res := e.Ambient(p, nil, AmbientOptions{})
	require.True(t, res.Infected)
	require.True(t, res.Changed)
	require.Empty(t, res.Outcomes)
	require.Equal(t, 3, p.PercentInfected)
	require.Equal(t, 0, src.Remaining())
}

func TestAmbient_BotMessagesSkipFind(t *testing.T) {
	e, _ := newTestEngine(t, 100)
	p := healthyPlayer(1)

	res := e.Ambient(p, nil, AmbientOptions{SkipFind: true})
	require.False(t, res.Changed)
	require.Equal(t, NewInventory(), p.Inventory)
}
