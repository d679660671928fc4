package accounts

import "context"

// Repo manages server-side storage of accounts. Lookups return nil when
// no account matches; errors are reserved for storage failures.
type Repo interface {
	GetByMail(ctx context.Context, mail string) (*Account, error)
	GetByNo(ctx context.Context, accountNo int64) (*Account, error)
	Upsert(ctx context.Context, account *Account) error
}
