package corona

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DuckHunt-discord/Coroned-event/logger"
)

// Engine resolves ambient events and player actions. It holds no player
// state; one Engine is shared by every identity.
type Engine struct {
	cfg Config
	rng Source
	now func() time.Time
	log *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource replaces the seeded source, typically with a ScriptedSource.
func WithSource(src Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = src
		}
	}
}

// WithClock overrides time.Now (cooldowns, touch timestamps).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine validates cfg and creates an engine. Without WithSource the
// engine draws from a source seeded with cfg.Seed.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		rng: NewSource(cfg.Seed),
		now: func() time.Time { return time.Now().UTC() },
		log: logger.Component("corona"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the balance the engine runs with.
func (e *Engine) Config() Config { return e.cfg }

// Now is the engine clock.
func (e *Engine) Now() time.Time { return e.now() }

// NewPlayer builds the state of an identity seen for the first time, with
// randomized traits and the starter inventory.
func (e *Engine) NewPlayer(identity uint64, name string) *Player {
	return &Player{
		Identity:        identity,
		Name:            name,
		Immunodeficient: e.percent(15),
		Doctor:          e.percent(2),
		Isolation:       IsolationNormalLife,
		TouchedLast:     e.now(),
		Good:            Good(e.roll(int(GoodGood), int(GoodEvil))),
		Law:             Law(e.roll(int(LawLawful), int(LawChaotic))),
		Charisma:        e.roll(0, 10),
		Inventory:       NewInventory(),
	}
}

// Infect applies delta to p, or a random worsening in the configured range
// when delta is omitted. It returns the delta actually applied.
func (e *Engine) Infect(p *Player, delta ...int) int {
	d := 0
	if len(delta) > 0 {
		d = delta[0]
	} else {
		d = e.roll(e.cfg.InfectMin, e.cfg.InfectMax)
	}
	return p.Infect(d)
}

// Pause is the answer to anyone trying to stop the simulation.
func (e *Engine) Pause() Outcome {
	return denied(ActionPause, "❌ Do you really think life has a pause button ?")
}

func (e *Engine) roll(min, max int) int {
	return e.rng.IntRange(min, max)
}

// percent draws 0..100 and succeeds when the draw is <= pct, which gives a
// slightly better than pct% chance. Balance numbers are tuned for it.
func (e *Engine) percent(pct int) bool {
	return e.roll(0, 100) <= pct
}

// d100 draws 1..100, an exact pct% chance.
func (e *Engine) d100(pct int) bool {
	return e.roll(1, 100) <= pct
}

func (e *Engine) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[e.roll(0, len(options)-1)]
}
