package flags

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for flags.
type Repository interface {
	Create(ctx context.Context, flag *Flag) error
	GetByID(ctx context.Context, id uuid.UUID) (*Flag, error)
	GetByKey(ctx context.Context, key string) (*Flag, error)
	List(ctx context.Context, limit, offset int) ([]Flag, error)
	Update(ctx context.Context, flag *Flag) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByKey(ctx context.Context, key string) (bool, error)
}

// Cache is the read-through cache port in front of the repository.
// Implementations are best-effort: failures degrade to misses and are
// never surfaced to callers.
type Cache interface {
	Get(ctx context.Context, key string) (*Flag, bool)
	Set(ctx context.Context, flag *Flag)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}

// TxRunner executes fn atomically.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
