package longtoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const tokenBytesLen = 32 // 256 bits

// Manager handles long-lived token creation and resolution.
type Manager struct {
	repo    Repo
	ttl     time.Duration
	log     zerolog.Logger
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func NewManager(repo Repo, ttl time.Duration, log zerolog.Logger, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		ttl:     ttl,
		log:     log,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Issue generates a fresh high-entropy token for the account, replacing
// any existing token for the same account. Storage failures are logged
// and swallowed: the caller still gets a token, and the user falls back
// to a full login if it silently failed to persist.
func (m *Manager) Issue(ctx context.Context, accountNo int64) (string, error) {
	tokenBytes := make([]byte, tokenBytesLen)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "longtoken.Manager.Issue rand.Read")
	}
	tokenStr := hex.EncodeToString(tokenBytes)

	if err := m.repo.DeleteByAccount(ctx, accountNo); err != nil {
		m.log.Error().Err(err).Int64("accountNo", accountNo).
			Msg("failed to delete existing long token")
		return tokenStr, nil
	}
	if err := m.repo.Insert(ctx, &Entry{
		Token:     tokenStr,
		Expire:    m.nowFunc().Add(m.ttl),
		AccountNo: accountNo,
	}); err != nil {
		m.log.Error().Err(err).Int64("accountNo", accountNo).
			Msg("failed to store long token")
	}
	return tokenStr, nil
}

// Resolve purges expired entries, then returns the account number the
// token belongs to. The second return value is false when the token is
// unknown or expired. Storage errors propagate.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, bool, error) {
	if err := m.repo.DeleteExpired(ctx); err != nil {
		return 0, false, errors.Wrap(err, "longtoken.Manager.Resolve DeleteExpired")
	}
	entry, err := m.repo.Get(ctx, token)
	if err != nil {
		return 0, false, errors.Wrap(err, "longtoken.Manager.Resolve Get")
	}
	if entry == nil {
		return 0, false, nil
	}
	return entry.AccountNo, true, nil
}
