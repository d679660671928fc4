package accountsrepofake

import (
	"context"
	"sync"

	"github.com/technokuro/novelBuilder/accounts"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	byNo   map[int64]*accounts.Account
	nextNo int64
	lock   sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		byNo:   make(map[int64]*accounts.Account),
		nextNo: 1,
	}
}

func (r *FakeAccountRepo) GetByMail(_ context.Context, mail string) (*accounts.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, account := range r.byNo {
		if account.Mail == mail {
			return account, nil
		}
	}
	return nil, nil
}

func (r *FakeAccountRepo) GetByNo(_ context.Context, accountNo int64) (*accounts.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	account, ok := r.byNo[accountNo]
	if !ok {
		return nil, nil
	}
	return account, nil
}

func (r *FakeAccountRepo) Upsert(_ context.Context, account *accounts.Account) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if account.AccountNo == 0 {
		account.AccountNo = r.nextNo
		r.nextNo++
	}
	r.byNo[account.AccountNo] = account
	return nil
}
