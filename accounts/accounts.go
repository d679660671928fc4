// Package accounts holds the account model and password digest helpers
// used by the login flows that call into the token layer.
package accounts

import (
	"slices"

	"github.com/technokuro/novelBuilder/internal/config"
	"github.com/technokuro/novelBuilder/internal/cryptoutil"
)

type Account struct {
	AccountNo int64  `json:"accountNo"`
	Mail      string `json:"mail"`
	Activate  bool   `json:"activate"`
	OAuthOnly bool   `json:"-"`

	// PasswordHash never leaves the server.
	PasswordHash string `json:"-"`
}

// HashPassword computes the stored digest for a password. The digest is
// deterministic, so login compares digests rather than re-deriving per
// stored salt. Changing the crypto key or the hash parameters invalidates
// every stored password.
func HashPassword(password string, cfg config.CryptoConfig) string {
	return cryptoutil.DeriveHash(password, cfg.GetCryptoKey(), cfg.GetHashIterations(), cfg.GetHashLength())
}

// CheckPassword compares a candidate password against the account's
// stored digest in constant time.
func (a *Account) CheckPassword(password string, cfg config.CryptoConfig) bool {
	return cryptoutil.ConstantTimeEqual(a.PasswordHash, HashPassword(password, cfg))
}

// IsAdminMail reports whether mail belongs to an operator account.
func IsAdminMail(mail string, adminMails []string) bool {
	return slices.Contains(adminMails, mail)
}
