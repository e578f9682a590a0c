package store

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DuckHunt-discord/Coroned-event/corona"
)

// CachedService keeps recently used players in memory in front of a
// database backend. Writes go through to the backend first.
type CachedService struct {
	inner Service
	cache *lru.Cache[uint64, corona.Player]
}

// NewCachedService wraps inner with an LRU of the given size.
func NewCachedService(inner Service, size int) (*CachedService, error) {
	c, err := lru.New[uint64, corona.Player](size)
	if err != nil {
		return nil, fmt.Errorf("player cache: %w", err)
	}
	return &CachedService{inner: inner, cache: c}, nil
}

func (s *CachedService) LoadPlayer(ctx context.Context, identity uint64, name string) (*corona.Player, error) {
	if p, ok := s.cache.Get(identity); ok {
		if name != "" {
			p.Name = name
		}
		return &p, nil
	}
	p, err := s.inner.LoadPlayer(ctx, identity, name)
	if err != nil {
		return nil, err
	}
	// A save may have cached a newer copy while we were reading; never
	// replace it with what we read.
	if cached, ok, _ := s.cache.PeekOrAdd(identity, *p); ok {
		if name != "" {
			cached.Name = name
		}
		return &cached, nil
	}
	return p, nil
}

// SavePlayers writes through to the backend, then refreshes the cache.
func (s *CachedService) SavePlayers(ctx context.Context, players ...*corona.Player) error {
	players = dedupe(players)
	if err := s.inner.SavePlayers(ctx, players...); err != nil {
		// the next load must see what the database really holds
		for _, p := range players {
			s.cache.Remove(p.Identity)
		}
		return err
	}
	for _, p := range players {
		s.cache.Add(p.Identity, *p)
	}
	return nil
}

func (s *CachedService) Stats(ctx context.Context) (corona.GlobalStats, error) {
	return s.inner.Stats(ctx)
}

// Len reports how many players are cached.
func (s *CachedService) Len() int { return s.cache.Len() }

func (s *CachedService) Close() error {
	s.cache.Purge()
	return s.inner.Close()
}
