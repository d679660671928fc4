package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type mainConfig struct {
	v *viper.Viper
}

var _ Config = (*mainConfig)(nil)

// New loads configuration from an optional .env file and the environment.
// Environment variables override .env values. A missing .env is not an
// error (e.g. in CI).
func New() Config {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_NAME", "novelBuilder")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("TOKEN_ALGO", "HS512")
	v.SetDefault("TOKEN_EXPIRE", "60m")
	v.SetDefault("LONG_TOKEN_EXPIRE", "720h") // 30d
	v.SetDefault("PASSWORD_ITERATION_COUNT", 1000)
	v.SetDefault("PASSWORD_HASH_LENGTH", 64)
	v.SetDefault("ADMIN_ACCOUNT_LIST", "")

	return &mainConfig{v: v}
}

func (c *mainConfig) GetPort() string {
	port := c.v.GetString("PORT")
	if port != "" && port[0] != ':' {
		port = ":" + port
	}
	return port
}

func (c *mainConfig) GetAppName() string {
	return c.v.GetString("APP_NAME")
}

func (c *mainConfig) GetEnv() string {
	return c.v.GetString("ENV")
}

func (c *mainConfig) GetDatabaseURL() string {
	return c.v.GetString("DATABASE_URL")
}

func (c *mainConfig) GetRedisAddr() string {
	return c.v.GetString("REDIS_ADDR")
}

func (c *mainConfig) GetRedisPassword() string {
	return c.v.GetString("REDIS_PASSWORD")
}

func (c *mainConfig) GetGoogleClientID() string {
	return c.v.GetString("GOOGLE_CLIENT_ID")
}

func (c *mainConfig) GetGoogleClientSecret() string {
	return c.v.GetString("GOOGLE_CLIENT_SECRET")
}

func (c *mainConfig) GetGoogleRedirectURL() string {
	return c.v.GetString("GOOGLE_REDIRECT_URL")
}

func (c *mainConfig) GetAdminMailList() []string {
	raw := c.v.GetString("ADMIN_ACCOUNT_LIST")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	mails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			mails = append(mails, trimmed)
		}
	}
	return mails
}

func (c *mainConfig) GetTokenKey() string {
	return c.v.GetString("TOKEN_KEY")
}

func (c *mainConfig) GetTokenAlgorithm() string {
	return c.v.GetString("TOKEN_ALGO")
}

func (c *mainConfig) GetSessionTokenTTL() time.Duration {
	return c.v.GetDuration("TOKEN_EXPIRE")
}

func (c *mainConfig) GetLongTokenTTL() time.Duration {
	return c.v.GetDuration("LONG_TOKEN_EXPIRE")
}

func (c *mainConfig) GetCryptoKey() string {
	return c.v.GetString("CRYPTO_KEY")
}

func (c *mainConfig) GetCryptoMarker() string {
	return c.v.GetString("CRYPTO_SALT")
}

func (c *mainConfig) GetHashSalt() string {
	return c.v.GetString("HASH_SALT")
}

func (c *mainConfig) GetHashIterations() int {
	return c.v.GetInt("PASSWORD_ITERATION_COUNT")
}

func (c *mainConfig) GetHashLength() int {
	return c.v.GetInt("PASSWORD_HASH_LENGTH")
}
