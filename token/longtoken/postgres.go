package longtoken

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repo = (*PostgresRepo)(nil)

// PostgresRepo persists long tokens in the long_token table:
//
//	CREATE TABLE long_token (
//	    token     text PRIMARY KEY,
//	    expire    timestamptz NOT NULL,
//	    accountNo bigint NOT NULL
//	);
//	CREATE INDEX long_token_account_idx ON long_token (accountNo);
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) Insert(ctx context.Context, entry *Entry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO long_token (token, expire, accountNo) VALUES ($1, $2, $3)`,
		entry.Token, entry.Expire, entry.AccountNo,
	)
	return err
}

func (r *PostgresRepo) DeleteByAccount(ctx context.Context, accountNo int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM long_token WHERE accountNo = $1`, accountNo)
	return err
}

func (r *PostgresRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM long_token WHERE expire < now()`)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, token string) (*Entry, error) {
	var entry Entry
	err := r.pool.QueryRow(ctx,
		`SELECT token, expire, accountNo FROM long_token WHERE token = $1`, token,
	).Scan(&entry.Token, &entry.Expire, &entry.AccountNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
