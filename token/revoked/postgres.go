package revoked

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var _ Repo = (*PostgresRepo)(nil)

// PostgresRepo persists revocation entries in the ignore_token table:
//
//	CREATE TABLE ignore_token (
//	    token  text PRIMARY KEY,
//	    expire timestamptz NOT NULL
//	);
type PostgresRepo struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPostgresRepo(pool *pgxpool.Pool, log zerolog.Logger) *PostgresRepo {
	return &PostgresRepo{pool: pool, log: log}
}

// IsRevoked purges expired entries, then checks for token. A failed purge
// is logged and does not abort the lookup.
func (r *PostgresRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	if _, err := r.pool.Exec(ctx, `DELETE FROM ignore_token WHERE expire < now()`); err != nil {
		r.log.Error().Err(err).Msg("failed to purge expired ignore_token entries")
	}

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ignore_token WHERE token = $1)`, token,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) Revoke(ctx context.Context, token string, expireAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ignore_token (token, expire) VALUES ($1, $2)
		 ON CONFLICT (token) DO UPDATE SET expire = GREATEST(ignore_token.expire, EXCLUDED.expire)`,
		token, expireAt,
	)
	return err
}
