package longtoken_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/technokuro/novelBuilder/token/longtoken"
	longtokenrepofake "github.com/technokuro/novelBuilder/token/longtoken/repofake"
)

const testAccountNo = int64(42)

func TestIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	repo := longtokenrepofake.NewFakeLongTokenRepo()
	m := longtoken.NewManager(repo, 30*24*time.Hour, zerolog.Nop())

	token, err := m.Issue(ctx, testAccountNo)
	require.NoError(t, err)
	require.Len(t, token, 64) // 32 random bytes, hex encoded

	accountNo, ok, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testAccountNo, accountNo)
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	repo := longtokenrepofake.NewFakeLongTokenRepo()
	m := longtoken.NewManager(repo, 30*24*time.Hour, zerolog.Nop())

	_, ok, err := m.Resolve(ctx, "no-such-token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSingleLiveTokenPerAccount(t *testing.T) {
	ctx := context.Background()
	repo := longtokenrepofake.NewFakeLongTokenRepo()
	m := longtoken.NewManager(repo, 30*24*time.Hour, zerolog.Nop())

	first, err := m.Issue(ctx, testAccountNo)
	require.NoError(t, err)
	second, err := m.Issue(ctx, testAccountNo)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.Equal(t, 1, repo.Count(testAccountNo))

	_, ok, err := m.Resolve(ctx, first)
	require.NoError(t, err)
	require.False(t, ok)

	accountNo, ok, err := m.Resolve(ctx, second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testAccountNo, accountNo)
}

func TestResolveExpiredToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := longtokenrepofake.NewFakeLongTokenRepo()
	repo.NowFunc = func() time.Time { return now }
	m := longtoken.NewManager(repo, time.Hour, zerolog.Nop(),
		longtoken.WithNowFunc(func() time.Time { return now }))

	token, err := m.Issue(ctx, testAccountNo)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	_, ok, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIssueSwallowsStorageErrors(t *testing.T) {
	ctx := context.Background()
	repo := longtokenrepofake.NewFakeLongTokenRepo()
	repo.InsertErr = errors.New("db down")
	m := longtoken.NewManager(repo, time.Hour, zerolog.Nop())

	token, err := m.Issue(ctx, testAccountNo)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestResolvePropagatesStorageErrors(t *testing.T) {
	ctx := context.Background()
	repo := longtokenrepofake.NewFakeLongTokenRepo()
	repo.GetErr = errors.New("db down")
	m := longtoken.NewManager(repo, time.Hour, zerolog.Nop())

	_, _, err := m.Resolve(ctx, "whatever")
	require.Error(t, err)
}
