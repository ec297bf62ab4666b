package flags

import (
	"context"
	"time"

	"github.com/google/uuid"

	"openflag/internal/core/apperror"
	"openflag/pkg/logger"
)

// UpdateParams carries the optional fields of a flag update; nil means
// "leave unchanged".
type UpdateParams struct {
	Name        *string
	Description *string
	Type        *FlagType
	Value       *string
	Enabled     *bool
}

// Service provides flag CRUD with a read-through cache: creates fill the
// cache, key lookups consult it first, updates and deletes invalidate it.
type Service struct {
	repo  Repository
	cache Cache
	tx    TxRunner
	log   *logger.Logger
}

// NewService creates a flag service. tx may be nil, in which case
// operations run without an enclosing transaction.
func NewService(repo Repository, cache Cache, tx TxRunner, log *logger.Logger) *Service {
	if tx == nil {
		tx = passthroughTx{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, cache: cache, tx: tx, log: log.WithComponent("flags")}
}

// passthroughTx runs fn directly.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Create validates and stores a new flag, then primes the cache.
func (s *Service) Create(ctx context.Context, flag *Flag) (*Flag, error) {
	if err := flag.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByKey(ctx, flag.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewDuplicate("flag", "key", flag.Key)
	}

	if err := s.repo.Create(ctx, flag); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, flag)
	s.log.WithContext(ctx).Infow("flag created", "key", flag.Key, "type", flag.Type)
	return flag, nil
}

// GetByID retrieves a flag by its id. Not cached: the cache is keyed by
// flag key, which is what clients resolve by.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Flag, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByKey retrieves a flag by key, cache first.
func (s *Service) GetByKey(ctx context.Context, key string) (*Flag, error) {
	if flag, ok := s.cache.Get(ctx, key); ok {
		return flag, nil
	}

	flag, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, flag)
	return flag, nil
}

// List returns flags with pagination, in repository order.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Flag, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update applies params to the flag with the given id and invalidates the
// cached entry. The type/value pairing is re-validated whenever either
// side changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Flag, error) {
	var updated *Flag

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		flag, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if params.Name != nil {
			flag.Name = *params.Name
		}
		if params.Description != nil {
			flag.Description = params.Description
		}
		if params.Type != nil {
			flag.Type = *params.Type
		}
		if params.Value != nil {
			flag.Value = *params.Value
		}
		if params.Enabled != nil {
			flag.Enabled = *params.Enabled
		}
		flag.UpdatedAt = time.Now().UTC()

		if err := flag.Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, flag); err != nil {
			return err
		}

		updated = flag
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, updated.Key)
	s.log.WithContext(ctx).Infow("flag updated", "key", updated.Key)
	return updated, nil
}

// Delete removes a flag and invalidates its cached entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var key string

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		flag, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		key = flag.Key
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, key)
	s.log.WithContext(ctx).Infow("flag deleted", "key", key)
	return nil
}
