// Package longtoken issues and resolves the opaque long-lived tokens used
// to silently mint a new session token without re-submitting credentials.
package longtoken

import (
	"context"
	"time"
)

// Entry is the server-side record of a long-lived token. The client only
// ever holds the Token string.
type Entry struct {
	Token     string
	Expire    time.Time
	AccountNo int64
}

// Repo manages server-side storage of long-lived tokens, keyed by the
// opaque token string and indexed by account number. At most one live
// entry exists per account; issuing a new one removes all prior entries
// for that account.
type Repo interface {
	Insert(ctx context.Context, entry *Entry) error
	DeleteByAccount(ctx context.Context, accountNo int64) error
	DeleteExpired(ctx context.Context) error

	// Get returns the entry for token, or nil if absent.
	Get(ctx context.Context, token string) (*Entry, error)
}
