// Package revoked tracks session tokens that must be rejected even though
// they are still cryptographically valid: tokens destroyed at logout and
// tokens superseded by a renewal.
package revoked

import (
	"context"
	"time"
)

// Repo manages server-side storage of revoked tokens. Entries carry an
// expiry at least as late as the underlying token's own expiry, so a
// revoked token can never become usable again once its entry is pruned.
// Implementations purge expired entries lazily on lookup; there is no
// background sweeper.
type Repo interface {
	// IsRevoked reports whether token has a live revocation entry.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Revoke records token as rejected until expireAt.
	Revoke(ctx context.Context, token string, expireAt time.Time) error
}
