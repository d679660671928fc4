package revoked

import (
	"context"
	"sync"
	"time"
)

var _ Repo = (*MemoryRepo)(nil)

// MemoryRepo is a simple in-memory implementation, suitable for tests and
// single-node deployments.
type MemoryRepo struct {
	revoked map[string]time.Time
	nowFunc func() time.Time
	mu      sync.Mutex
}

type MemoryRepoOption func(*MemoryRepo)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) MemoryRepoOption {
	return func(r *MemoryRepo) {
		r.nowFunc = now
	}
}

func NewMemoryRepo(options ...MemoryRepoOption) *MemoryRepo {
	r := &MemoryRepo{
		revoked: make(map[string]time.Time),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *MemoryRepo) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()
	_, exists := r.revoked[token]
	return exists, nil
}

func (r *MemoryRepo) Revoke(_ context.Context, token string, expireAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.revoked[token] = expireAt
	return nil
}

func (r *MemoryRepo) purgeLocked() {
	now := r.nowFunc()
	for token, expire := range r.revoked {
		if now.After(expire) {
			delete(r.revoked, token)
		}
	}
}
