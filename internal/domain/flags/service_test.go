package flags

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openflag/internal/core/apperror"
)

// memRepo is a minimal in-memory Repository for service tests. Calls are
// counted so tests can assert whether the cache was consulted.
type memRepo struct {
	flags        map[uuid.UUID]*Flag
	getByKeyHits int
}

func newMemRepo() *memRepo {
	return &memRepo{flags: make(map[uuid.UUID]*Flag)}
}

func (r *memRepo) Create(_ context.Context, flag *Flag) error {
	cp := *flag
	r.flags[flag.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Flag, error) {
	if f, ok := r.flags[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, apperror.NewNotFound("flag", id.String())
}

func (r *memRepo) GetByKey(_ context.Context, key string) (*Flag, error) {
	r.getByKeyHits++
	for _, f := range r.flags {
		if f.Key == key {
			cp := *f
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("flag", key)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]Flag, error) {
	out := make([]Flag, 0, len(r.flags))
	for _, f := range r.flags {
		out = append(out, *f)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, flag *Flag) error {
	if _, ok := r.flags[flag.ID]; !ok {
		return apperror.NewNotFound("flag", flag.ID.String())
	}
	cp := *flag
	r.flags[flag.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.flags[id]; !ok {
		return apperror.NewNotFound("flag", id.String())
	}
	delete(r.flags, id)
	return nil
}

func (r *memRepo) ExistsByKey(_ context.Context, key string) (bool, error) {
	for _, f := range r.flags {
		if f.Key == key {
			return true, nil
		}
	}
	return false, nil
}

// mapCache is a TTL-less Cache for service tests.
type mapCache struct {
	entries map[string]*Flag
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*Flag)}
}

func (c *mapCache) Get(_ context.Context, key string) (*Flag, bool) {
	f, ok := c.entries[key]
	return f, ok
}

func (c *mapCache) Set(_ context.Context, flag *Flag) {
	cp := *flag
	c.entries[flag.Key] = &cp
}

func (c *mapCache) Delete(_ context.Context, key string) {
	delete(c.entries, key)
}

func (c *mapCache) Clear(_ context.Context) {
	c.entries = make(map[string]*Flag)
}

func newTestService() (*Service, *memRepo, *mapCache) {
	repo := newMemRepo()
	cache := newMapCache()
	return NewService(repo, cache, nil, nil), repo, cache
}

func TestService_CreatePrimesCache(t *testing.T) {
	ctx := context.Background()
	svc, repo, cache := newTestService()

	flag, err := svc.Create(ctx, NewFlag("dark_mode", "Dark Mode", TypeBoolean, "true", true))
	require.NoError(t, err)

	_, ok := cache.entries["dark_mode"]
	assert.True(t, ok, "create must prime the cache")

	got, err := svc.GetByKey(ctx, "dark_mode")
	require.NoError(t, err)
	assert.Equal(t, flag.ID, got.ID)
	assert.Zero(t, repo.getByKeyHits, "cached key lookup must not touch the repository")
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, NewFlag("bad", "Bad", TypeBoolean, "maybe", true))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_CreateRejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Create(ctx, NewFlag("dup", "Dup", TypeBoolean, "true", true))
	require.NoError(t, err)

	_, err = svc.Create(ctx, NewFlag("dup", "Dup Again", TypeBoolean, "false", true))
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestService_GetByKeyFillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	svc, repo, cache := newTestService()

	flag := NewFlag("lazy", "Lazy", TypeString, "v", true)
	require.NoError(t, repo.Create(ctx, flag))

	got, err := svc.GetByKey(ctx, "lazy")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Value)
	assert.Equal(t, 1, repo.getByKeyHits)

	_, ok := cache.entries["lazy"]
	assert.True(t, ok)

	_, err = svc.GetByKey(ctx, "lazy")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getByKeyHits, "second lookup must be served from cache")
}

func TestService_GetByKeyNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.GetByKey(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_UpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, repo, cache := newTestService()

	flag, err := svc.Create(ctx, NewFlag("limit", "Limit", TypeNumber, "10", true))
	require.NoError(t, err)

	newValue := "25"
	updated, err := svc.Update(ctx, flag.ID, UpdateParams{Value: &newValue})
	require.NoError(t, err)
	assert.Equal(t, "25", updated.Value)
	assert.True(t, updated.UpdatedAt.After(flag.CreatedAt) || updated.UpdatedAt.Equal(flag.CreatedAt))

	_, ok := cache.entries["limit"]
	assert.False(t, ok, "update must invalidate the cached entry")

	got, err := svc.GetByKey(ctx, "limit")
	require.NoError(t, err)
	assert.Equal(t, "25", got.Value)
	assert.Equal(t, 1, repo.getByKeyHits)
}

func TestService_UpdateRevalidatesTypeValuePair(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	flag, err := svc.Create(ctx, NewFlag("num", "Num", TypeNumber, "1", true))
	require.NoError(t, err)

	bad := "abc"
	_, err = svc.Update(ctx, flag.ID, UpdateParams{Value: &bad})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// The stored flag is untouched after a failed update.
	got, err := svc.GetByID(ctx, flag.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.Value)
}

func TestService_DeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, cache := newTestService()

	flag, err := svc.Create(ctx, NewFlag("gone", "Gone", TypeBoolean, "true", true))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, flag.ID))

	_, ok := cache.entries["gone"]
	assert.False(t, ok)

	_, err = svc.GetByKey(ctx, "gone")
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	err := svc.Delete(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
