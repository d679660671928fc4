// Package config exposes application configuration as composed interfaces
// over values loaded from the environment and an optional .env file.
package config

import "time"

type Config interface {
	EnvConfig
	TokenConfig
	CryptoConfig
}

// EnvConfig covers process-level settings and external collaborators.
type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDatabaseURL() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURL() string
	GetAdminMailList() []string
}

// TokenConfig covers the signed token envelope.
type TokenConfig interface {
	GetTokenKey() string
	GetTokenAlgorithm() string
	GetSessionTokenTTL() time.Duration
	GetLongTokenTTL() time.Duration
}

// CryptoConfig covers the symmetric cipher layer. GetCryptoMarker is a
// fixed format tag embedded in plaintext before encryption; it is never
// used to derive key material. GetHashSalt drives key derivation. The two
// must stay separate values.
type CryptoConfig interface {
	GetCryptoKey() string
	GetCryptoMarker() string
	GetHashSalt() string
	GetHashIterations() int
	GetHashLength() int
}

// SessionConfig is the slice of configuration the session token protocol
// consumes.
type SessionConfig interface {
	CryptoConfig
	GetSessionTokenTTL() time.Duration
}
