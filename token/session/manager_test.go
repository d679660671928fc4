package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/technokuro/novelBuilder/token"
	"github.com/technokuro/novelBuilder/token/revoked"
	"github.com/technokuro/novelBuilder/token/session"
)

const (
	testSecret  = "session-test-secret"
	testIP      = "203.0.113.5"
	otherIP     = "198.51.100.9"
	testPayload = `{"accountNo":42}`
)

type testConfig struct {
	ttl time.Duration
}

func (c testConfig) GetCryptoKey() string              { return "test-crypto-key" }
func (c testConfig) GetCryptoMarker() string           { return "format-marker" }
func (c testConfig) GetHashSalt() string               { return "test-hash-salt" }
func (c testConfig) GetHashIterations() int            { return 10 }
func (c testConfig) GetHashLength() int                { return 32 }
func (c testConfig) GetSessionTokenTTL() time.Duration { return c.ttl }

type fixture struct {
	manager *session.Manager
	revoked revoked.Repo
	signer  *token.HMACSigner
	now     time.Time
}

func newFixture(t *testing.T, repo revoked.Repo) *fixture {
	t.Helper()

	f := &fixture{now: time.Now(), revoked: repo}
	nowFn := func() time.Time { return f.now }

	if f.revoked == nil {
		f.revoked = revoked.NewMemoryRepo(revoked.WithNowFunc(nowFn))
	}

	signer, err := token.NewHMACSigner(testSecret, "HS512")
	require.NoError(t, err)
	f.signer = signer

	envelope := token.NewEnvelope(signer, token.WithNowFunc(nowFn))
	f.manager = session.NewManager(
		envelope,
		f.revoked,
		testConfig{ttl: time.Hour},
		zerolog.Nop(),
		session.WithNowFunc(nowFn),
		session.WithRevocationDispatcher(func(fn func()) { fn() }),
	)
	return f
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.Equal(t, f.now.Add(time.Hour).Unix()*1000, issued.Expire)

	result, err := f.manager.Auth(context.Background(), issued.Token, testIP, session.EditNone)
	require.NoError(t, err)
	require.JSONEq(t, testPayload, string(result.Payload))
	require.Nil(t, result.NewToken)
}

func TestIPBinding(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	_, err = f.manager.Auth(context.Background(), issued.Token, otherIP, session.EditNone)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	_, err = f.manager.Auth(context.Background(), issued.Token, testIP, session.EditNone)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestExpiryPrecedesIPMismatch(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	// Expiry is detected on the envelope before decryption ever runs, so
	// a token that is both expired and IP-mismatched reports expired.
	_, err = f.manager.Auth(context.Background(), issued.Token, otherIP, session.EditNone)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestMissingTokenSentinels(t *testing.T) {
	f := newFixture(t, nil)

	for _, raw := range []string{"", "undefined", "null"} {
		_, err := f.manager.Auth(context.Background(), raw, testIP, session.EditNone)
		require.ErrorIs(t, err, token.ErrInvalidToken, "raw=%q", raw)
	}
}

func TestDestroyRevokesToken(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	result, err := f.manager.Auth(context.Background(), issued.Token, testIP, session.EditDestroy)
	require.NoError(t, err)
	require.JSONEq(t, testPayload, string(result.Payload))
	require.Nil(t, result.NewToken)

	// The token's natural expiry has not passed, but it is now revoked.
	_, err = f.manager.Auth(context.Background(), issued.Token, testIP, session.EditNone)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestRenewRotatesToken(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	result, err := f.manager.Auth(context.Background(), issued.Token, testIP, session.EditRenew)
	require.NoError(t, err)
	require.NotNil(t, result.NewToken)
	require.NotEqual(t, issued.Token, result.NewToken.Token)

	// The replacement verifies for the same IP and payload.
	renewed, err := f.manager.Auth(context.Background(), result.NewToken.Token, testIP, session.EditNone)
	require.NoError(t, err)
	require.JSONEq(t, testPayload, string(renewed.Payload))

	// The original is retired.
	_, err = f.manager.Auth(context.Background(), issued.Token, testIP, session.EditNone)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestTamperedCiphertext(t *testing.T) {
	f := newFixture(t, nil)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	for _, claim := range []string{"a", "b"} {
		tampered := resignWithFlippedByte(t, f.signer, issued.Token, claim)
		_, err := f.manager.Auth(context.Background(), tampered, testIP, session.EditNone)
		require.ErrorIs(t, err, token.ErrInvalidToken, "claim=%s", claim)
	}
}

// resignWithFlippedByte flips one byte inside the named claim and re-signs
// the token with the real signer, simulating an attacker who somehow holds
// the signing key but not the IP-derived encryption key.
func resignWithFlippedByte(t *testing.T, signer *token.HMACSigner, raw, claim string) string {
	t.Helper()

	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)

	value, ok := claims[claim].(string)
	require.True(t, ok)
	b := []byte(value)
	b[len(b)/2] ^= 0x01
	claims[claim] = string(b)

	resigned, err := signer.Sign(claims)
	require.NoError(t, err)
	return resigned
}

type erroringRevokedRepo struct {
	lookupErr error
	revokeErr error
	inner     revoked.Repo
}

func (r *erroringRevokedRepo) IsRevoked(ctx context.Context, tok string) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	return r.inner.IsRevoked(ctx, tok)
}

func (r *erroringRevokedRepo) Revoke(ctx context.Context, tok string, expireAt time.Time) error {
	if r.revokeErr != nil {
		return r.revokeErr
	}
	return r.inner.Revoke(ctx, tok, expireAt)
}

func TestRevocationLookupErrorPropagates(t *testing.T) {
	repo := &erroringRevokedRepo{lookupErr: errors.New("store down"), inner: revoked.NewMemoryRepo()}
	f := newFixture(t, repo)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	_, err = f.manager.Auth(context.Background(), issued.Token, testIP, session.EditNone)
	require.Error(t, err)
	require.NotErrorIs(t, err, token.ErrInvalidToken)
	require.NotErrorIs(t, err, token.ErrTokenExpired)
}

func TestDestroySwallowsRevocationWriteError(t *testing.T) {
	repo := &erroringRevokedRepo{revokeErr: errors.New("store down"), inner: revoked.NewMemoryRepo()}
	f := newFixture(t, repo)

	issued, err := f.manager.Create(testIP, json.RawMessage(testPayload))
	require.NoError(t, err)

	// The revocation record fails to persist, but the destroy flow that
	// triggered it still succeeds.
	result, err := f.manager.Auth(context.Background(), issued.Token, testIP, session.EditDestroy)
	require.NoError(t, err)
	require.JSONEq(t, testPayload, string(result.Payload))
}

func TestPayloadPassesThroughUntouched(t *testing.T) {
	f := newFixture(t, nil)

	payload := `{"account":{"accountNo":42,"mail":"someone@example.com","admin":false},"extra":[1,2,3]}`
	issued, err := f.manager.Create(testIP, json.RawMessage(payload))
	require.NoError(t, err)

	result, err := f.manager.Auth(context.Background(), issued.Token, testIP, session.EditNone)
	require.NoError(t, err)
	require.JSONEq(t, payload, string(result.Payload))
}
