package longtokenrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/technokuro/novelBuilder/token/longtoken"
)

var _ longtoken.Repo = (*FakeLongTokenRepo)(nil)

type FakeLongTokenRepo struct {
	entries map[string]*longtoken.Entry
	NowFunc func() time.Time
	lock    sync.RWMutex

	// Set to force errors from store operations.
	InsertErr error
	DeleteErr error
	GetErr    error
}

func NewFakeLongTokenRepo() *FakeLongTokenRepo {
	return &FakeLongTokenRepo{
		entries: make(map[string]*longtoken.Entry),
		NowFunc: time.Now,
	}
}

func (r *FakeLongTokenRepo) Insert(_ context.Context, entry *longtoken.Entry) error {
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries[entry.Token] = entry
	return nil
}

func (r *FakeLongTokenRepo) DeleteByAccount(_ context.Context, accountNo int64) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for token, entry := range r.entries {
		if entry.AccountNo == accountNo {
			delete(r.entries, token)
		}
	}
	return nil
}

func (r *FakeLongTokenRepo) DeleteExpired(_ context.Context) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	now := r.NowFunc()
	for token, entry := range r.entries {
		if now.After(entry.Expire) {
			delete(r.entries, token)
		}
	}
	return nil
}

func (r *FakeLongTokenRepo) Get(_ context.Context, token string) (*longtoken.Entry, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	entry, ok := r.entries[token]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

// Count returns the number of stored entries for the given account.
func (r *FakeLongTokenRepo) Count(accountNo int64) int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	n := 0
	for _, entry := range r.entries {
		if entry.AccountNo == accountNo {
			n++
		}
	}
	return n
}
