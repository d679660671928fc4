// Package session implements the client-facing session token: a signed
// envelope carrying an AES-encrypted block whose decryption key is derived
// from the requesting client's IP. Possession of the token string alone is
// not enough to use it from a different network origin, the server can
// revoke a token before its natural expiry, and a token can be rotated
// without forcing re-authentication.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/technokuro/novelBuilder/internal/config"
	"github.com/technokuro/novelBuilder/internal/cryptoutil"
	"github.com/technokuro/novelBuilder/token"
	"github.com/technokuro/novelBuilder/token/revoked"
)

// secretBlock is the plaintext structure encrypted into the "a" claim.
// Salt carries the fixed format marker, not key material: it proves the
// block was produced by this system's encryption step. The encryption key
// itself is derived from the hash of the client IP, which never appears
// in the token.
type secretBlock struct {
	JSON       json.RawMessage `json:"json"`
	IP         string          `json:"ip"`
	CreateDate int64           `json:"createDate"`
	Salt       string          `json:"salt"`
}

// Manager issues and verifies session tokens.
type Manager struct {
	envelope *token.Envelope
	revoked  revoked.Repo
	cfg      config.SessionConfig
	log      zerolog.Logger
	nowFunc  func() time.Time
	dispatch func(func())
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithRevocationDispatcher overrides how the fire-and-forget revocation on
// destroy/renew is dispatched. The default runs it on its own goroutine;
// tests pass a synchronous dispatcher.
func WithRevocationDispatcher(dispatch func(func())) ManagerOption {
	return func(m *Manager) {
		m.dispatch = dispatch
	}
}

func NewManager(envelope *token.Envelope, revokedRepo revoked.Repo, cfg config.SessionConfig, log zerolog.Logger, options ...ManagerOption) *Manager {
	m := &Manager{
		envelope: envelope,
		revoked:  revokedRepo,
		cfg:      cfg,
		log:      log,
		nowFunc:  time.Now,
		dispatch: func(fn func()) { go fn() },
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Create issues a session token bound to ip and carrying payload.
// The payload is opaque: it is passed through untouched and comes back
// exactly as given on successful verification.
func (m *Manager) Create(ip string, payload json.RawMessage) (*token.IssuedToken, error) {
	block := secretBlock{
		JSON:       payload,
		IP:         ip,
		CreateDate: m.nowFunc().UnixMilli(),
		Salt:       m.cfg.GetCryptoMarker(),
	}
	plaintext, err := json.Marshal(block)
	if err != nil {
		return nil, errors.Wrap(err, "session.Manager.Create marshal")
	}

	ciphertext, iv, err := cryptoutil.EncryptAES(plaintext, m.cfg.GetCryptoKey(), m.cryptoSalt(ip))
	if err != nil {
		return nil, errors.Wrap(err, "session.Manager.Create encrypt")
	}

	return m.envelope.Issue(jwt.MapClaims{
		"a": cryptoutil.EncodeBase64(ciphertext),
		"b": cryptoutil.EncodeBase64(iv),
	}, m.cfg.GetSessionTokenTTL())
}

// Auth verifies raw against ip and returns the embedded payload. The
// checks run cheapest first: revocation lookup, then signature and
// expiry, then decryption and the IP/marker match. Failures collapse to
// token.ErrInvalidToken except a structurally valid envelope past its
// expiry, which yields token.ErrTokenExpired so callers can try the long
// token flow. Revocation store read errors propagate as-is.
func (m *Manager) Auth(ctx context.Context, raw, ip string, edit EditToken) (*Result, error) {
	// Clients with a broken login state send the stringified literals.
	if raw == "" || raw == "undefined" || raw == "null" {
		m.log.Error().Msg("session token is missing")
		return nil, token.ErrInvalidToken
	}

	isRevoked, err := m.revoked.IsRevoked(ctx, raw)
	if err != nil {
		return nil, errors.Wrap(err, "session.Manager.Auth IsRevoked")
	}
	if isRevoked {
		return nil, token.ErrInvalidToken
	}

	if edit == EditDestroy || edit == EditRenew {
		// Revocation bookkeeping is off the critical path; its failure
		// must not abort the caller's flow.
		m.dispatch(func() { m.destroyToken(raw) })
	}

	claims, err := m.envelope.Verify(raw)
	if err != nil {
		return nil, err
	}

	block, err := m.decryptBlock(claims, ip)
	if err != nil {
		return nil, err
	}

	result := &Result{Payload: block.JSON}
	if edit == EditRenew {
		newToken, err := m.Create(ip, block.JSON)
		if err != nil {
			m.log.Error().Err(err).Msg("failed to renew session token")
			return nil, token.ErrInvalidToken
		}
		result.NewToken = newToken
	}
	return result, nil
}

// destroyToken records raw as revoked until now + session TTL: any
// already-issued token is certainly past its own envelope expiry by then,
// so the revocation entry always outlives the token it blocks.
func (m *Manager) destroyToken(raw string) {
	expire := m.nowFunc().Add(m.cfg.GetSessionTokenTTL())
	if err := m.revoked.Revoke(context.Background(), raw, expire); err != nil {
		m.log.Error().Err(err).Msg("failed to record token revocation")
	}
}

func (m *Manager) decryptBlock(claims jwt.MapClaims, ip string) (*secretBlock, error) {
	a, _ := claims["a"].(string)
	b, _ := claims["b"].(string)
	if a == "" || b == "" {
		m.log.Error().Msg("session token claims missing encrypted block")
		return nil, token.ErrInvalidToken
	}

	ciphertext, err := cryptoutil.DecodeBase64(a)
	if err != nil {
		m.log.Error().Err(err).Msg("session token ciphertext is not base64")
		return nil, token.ErrInvalidToken
	}
	iv, err := cryptoutil.DecodeBase64(b)
	if err != nil {
		m.log.Error().Err(err).Msg("session token iv is not base64")
		return nil, token.ErrInvalidToken
	}

	// The decryption salt is derived from the current request's IP. A
	// token obtained from a different origin derives a different key and
	// fails here, before any field comparison.
	plaintext, err := cryptoutil.DecryptAES(ciphertext, iv, m.cfg.GetCryptoKey(), m.cryptoSalt(ip))
	if err != nil {
		m.log.Error().Err(err).Str("requestIp", ip).Msg("session token decryption failed")
		return nil, token.ErrInvalidToken
	}

	var block secretBlock
	if err := json.Unmarshal(plaintext, &block); err != nil {
		m.log.Error().Err(err).Msg("decrypted session block is not valid JSON")
		return nil, token.ErrInvalidToken
	}

	if len(block.JSON) == 0 || string(block.JSON) == "null" ||
		block.IP == "" || block.IP != ip ||
		block.CreateDate == 0 ||
		block.Salt != m.cfg.GetCryptoMarker() {
		m.log.Error().
			Str("tokenIp", block.IP).
			Str("requestIp", ip).
			Bool("markerMatch", block.Salt == m.cfg.GetCryptoMarker()).
			Msg("decrypted session block failed validation")
		return nil, token.ErrInvalidToken
	}
	return &block, nil
}

// cryptoSalt derives the per-client encryption salt as a keyed hash of
// data (the client IP at issuance and verification time).
func (m *Manager) cryptoSalt(data string) string {
	return cryptoutil.DeriveHash(data, m.cfg.GetHashSalt(), m.cfg.GetHashIterations(), m.cfg.GetHashLength())
}
