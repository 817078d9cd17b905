package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-api/internal/adapter/cache"
	domain "user-api/internal/domain/user"
	"user-api/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with a cache-aside read path.
// Writes go to the wrapped repository first and then invalidate the cached entry.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ user.Repository = (*CachedUserRepository)(nil)

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, c cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  c,
		log:    log,
	}
}

// FindByID retrieves a user by ID using the cache-aside pattern.
func (r *CachedUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	cachedUser, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	// Cache miss: only one caller per id reaches the database. The shared load
	// is detached from the caller so one canceled request cannot fail the rest.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(cache.Key(id), func() (any, error) {
		u, err := r.dbRepo.FindByID(loadCtx, id)
		if err != nil || u == nil {
			return u, err
		}

		if _, err := r.cache.Fill(loadCtx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u, _ := res.Val.(*domain.User)
		return u, nil
	}
}

// FindByEmail delegates to the DB repository.
func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.FindByEmail(ctx, email)
}

// FindAll delegates to the DB repository.
func (r *CachedUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.FindAll(ctx)
}

// Save writes the user to the DB and invalidates its cache entry.
func (r *CachedUserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	saved, err := r.dbRepo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, saved.ID, "save")
	return saved, nil
}

// DeleteByID deletes the user from the DB and invalidates its cache entry.
func (r *CachedUserRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.dbRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id, "delete")
	return nil
}

// invalidate drops any in-flight load for id so later readers start a fresh
// one, then tombstones the key so that load cannot refill it.
func (r *CachedUserRepository) invalidate(ctx context.Context, id int64, op string) {
	r.group.Forget(cache.Key(id))
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	}
}
