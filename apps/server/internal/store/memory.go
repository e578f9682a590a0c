package store

import (
	"context"
	"sync"

	"github.com/DuckHunt-discord/Coroned-event/corona"
)

// MemoryService keeps players in process memory. Everything is lost on
// restart; meant for tests and local play.
type MemoryService struct {
	mu        sync.Mutex
	players   map[uint64]corona.Player
	newPlayer NewPlayerFunc
	closed    bool
}

// NewMemoryService creates an empty in-memory store.
func NewMemoryService(newPlayer NewPlayerFunc) *MemoryService {
	return &MemoryService{
		players:   make(map[uint64]corona.Player),
		newPlayer: newPlayer,
	}
}

func (s *MemoryService) LoadPlayer(_ context.Context, identity uint64, name string) (*corona.Player, error) {
	if identity == 0 {
		return nil, ErrInvalidIdentity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	p, ok := s.players[identity]
	if !ok {
		p = *s.newPlayer(identity, name)
		s.players[identity] = p
	}
	if name != "" {
		p.Name = name
	}
	// Player has no reference fields, a value copy is a deep copy.
	cp := p
	return &cp, nil
}

func (s *MemoryService) SavePlayers(_ context.Context, players ...*corona.Player) error {
	players = dedupe(players)
	for _, p := range players {
		if p.Identity == 0 {
			return ErrInvalidIdentity
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, p := range players {
		s.players[p.Identity] = *p
	}
	return nil
}

func (s *MemoryService) Stats(_ context.Context) (corona.GlobalStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st corona.GlobalStats
	for _, p := range s.players {
		st.Players++
		if p.Achievements.TestedPositive {
			st.Infected++
		}
		if p.Statistics.MadeVaccines > 0 {
			st.VaccineMakers++
		}
	}
	return st, nil
}

func (s *MemoryService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
