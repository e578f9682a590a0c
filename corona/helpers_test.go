package corona

import (
	"testing"
	"time"
)

var testNow = time.Date(2020, time.March, 20, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, draws ...int) (*Engine, *ScriptedSource) {
	t.Helper()
	src := NewScriptedSource(draws...)
	e, err := NewEngine(DefaultConfig(), WithSource(src), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewEngine err: %v", err)
	}
	return e, src
}

// healthyPlayer is a deterministic fresh player, off every cooldown.
func healthyPlayer(id uint64) *Player {
	return &Player{
		Identity:    id,
		Name:        "p",
		Isolation:   IsolationNormalLife,
		TouchedLast: testNow.Add(-24 * time.Hour),
		Good:        GoodNeutral,
		Law:         LawNeutral,
		Inventory:   NewInventory(),
	}
}

func deadPlayer(id uint64) *Player {
	p := healthyPlayer(id)
	p.PercentInfected = 100
	p.TotalInfectedPoints = 100
	p.MaximumInfectedPoints = 100
	return p
}
