package store

import (
	"context"
	"errors"

	"github.com/DuckHunt-discord/Coroned-event/corona"
)

var (
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrClosed          = errors.New("store closed")
)

// NewPlayerFunc builds the state of an identity seen for the first time.
type NewPlayerFunc func(identity uint64, name string) *corona.Player

// Service persists player aggregates (player, inventory, achievements,
// statistics).
type Service interface {
	// LoadPlayer returns the stored player, creating it on first access.
	// The returned value is a private copy owned by the caller.
	LoadPlayer(ctx context.Context, identity uint64, name string) (*corona.Player, error)
	// SavePlayers stores every given player, all or nothing.
	SavePlayers(ctx context.Context, players ...*corona.Player) error
	// Stats returns game-wide counters.
	Stats(ctx context.Context) (corona.GlobalStats, error)
	Close() error
}

// dedupe drops nil entries and repeated identities (self-targeted actions
// pass the same player twice). The last occurrence wins.
func dedupe(players []*corona.Player) []*corona.Player {
	out := make([]*corona.Player, 0, len(players))
	index := make(map[uint64]int, len(players))
	for _, p := range players {
		if p == nil {
			continue
		}
		if i, ok := index[p.Identity]; ok {
			out[i] = p
			continue
		}
		index[p.Identity] = len(out)
		out = append(out, p)
	}
	return out
}
