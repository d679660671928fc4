package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repo = (*PostgresRepo)(nil)

// PostgresRepo persists accounts in the account table:
//
//	CREATE TABLE account (
//	    accountNo  bigserial PRIMARY KEY,
//	    mail       text UNIQUE NOT NULL,
//	    hash       text NOT NULL,
//	    activate   boolean NOT NULL DEFAULT false,
//	    isOauthFlg boolean NOT NULL DEFAULT false
//	);
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) GetByMail(ctx context.Context, mail string) (*Account, error) {
	return r.get(ctx,
		`SELECT accountNo, mail, hash, activate, isOauthFlg FROM account WHERE mail = $1`, mail)
}

func (r *PostgresRepo) GetByNo(ctx context.Context, accountNo int64) (*Account, error) {
	return r.get(ctx,
		`SELECT accountNo, mail, hash, activate, isOauthFlg FROM account WHERE accountNo = $1`, accountNo)
}

func (r *PostgresRepo) Upsert(ctx context.Context, account *Account) error {
	if account.AccountNo == 0 {
		return r.pool.QueryRow(ctx,
			`INSERT INTO account (mail, hash, activate, isOauthFlg)
			 VALUES ($1, $2, $3, $4) RETURNING accountNo`,
			account.Mail, account.PasswordHash, account.Activate, account.OAuthOnly,
		).Scan(&account.AccountNo)
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE account SET mail = $2, hash = $3, activate = $4, isOauthFlg = $5
		 WHERE accountNo = $1`,
		account.AccountNo, account.Mail, account.PasswordHash, account.Activate, account.OAuthOnly,
	)
	return err
}

func (r *PostgresRepo) get(ctx context.Context, query string, arg any) (*Account, error) {
	var account Account
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.AccountNo, &account.Mail, &account.PasswordHash,
		&account.Activate, &account.OAuthOnly,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
