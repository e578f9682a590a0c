package corona

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the only place the engine draws randomness from.
type Source interface {
	// IntRange returns an integer in [min, max], both ends inclusive.
	IntRange(min, max int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a goroutine-safe seeded source. seed 0 => time-based.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(max-min+1)
}

// ScriptedSource replays a fixed sequence of draws, clamped into the
// requested range. When the script runs out it keeps returning min, which
// makes percentage checks succeed and keeps tests short.
type ScriptedSource struct {
	mu     sync.Mutex
	values []int
	pos    int
}

// NewScriptedSource replays values in order.
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{values: append([]int(nil), values...)}
}

func (s *ScriptedSource) IntRange(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.values) {
		return min
	}
	v := s.values[s.pos]
	s.pos++
	if v < min {
		return min
	}
	if max >= min && v > max {
		return max
	}
	return v
}

// Push appends more draws to the script.
func (s *ScriptedSource) Push(values ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, values...)
}

// Remaining reports how many scripted draws have not been consumed.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.pos
}
