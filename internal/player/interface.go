package player

import "context"

// Store defines the persistence operations the stats engine relies on.
type Store interface {
	// FindPlayer returns ErrNotFound when no player has the given id.
	FindPlayer(ctx context.Context, id string) (*Profile, error)
	// FindAllPlayers returns every player in insertion order.
	FindAllPlayers(ctx context.Context) ([]*Profile, error)
	// Persist writes the whole player document if its Version still matches the stored one.
	Persist(ctx context.Context, p *Profile) error
	Create(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
