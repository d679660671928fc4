package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/pkg/errors"
)

// IssuedToken is a signed compact token plus its expiry as unix
// milliseconds, returned together for caller convenience.
type IssuedToken struct {
	Token  string `json:"token"`
	Expire int64  `json:"expire"`
}

// Envelope wraps arbitrary claims in a signed, time-limited container.
// Issuance and verification are pure given the signer; no store is ever
// consulted here.
type Envelope struct {
	signer  Signer
	nowFunc func() time.Time
}

type EnvelopeOption func(*Envelope)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) EnvelopeOption {
	return func(e *Envelope) {
		e.nowFunc = now
	}
}

func NewEnvelope(signer Signer, options ...EnvelopeOption) *Envelope {
	e := &Envelope{
		signer:  signer,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Issue signs payload together with issued-at and expiry claims.
func (e *Envelope) Issue(payload jwt.MapClaims, ttl time.Duration) (*IssuedToken, error) {
	now := e.nowFunc()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	signed, err := e.signer.Sign(claims)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Envelope.Issue")
	}

	return &IssuedToken{
		Token:  signed,
		Expire: expiresAt.Unix() * 1000,
	}, nil
}

// Verify checks the signature first, then the expiry, and returns the
// claims on success. The two failure kinds are distinguishable: an
// expired but otherwise valid token yields ErrTokenExpired, anything
// malformed or forged yields ErrInvalidToken.
func (e *Envelope) Verify(raw string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(
		raw,
		e.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{e.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(e.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
