package session

import (
	"encoding/json"

	"github.com/technokuro/novelBuilder/token"
)

// EditToken is the caller's request to destroy or renew the current
// session token as a side effect of verification.
type EditToken int

const (
	// EditNone verifies only.
	EditNone EditToken = iota
	// EditDestroy revokes the current token with no replacement (logout).
	EditDestroy
	// EditRenew revokes the current token and issues a replacement in the
	// same call, so revocation bookkeeping never leaves both tokens
	// usable at once.
	EditRenew
)

// Result is a successful verification: the payload the token was issued
// with, plus the replacement token when renewal was requested.
type Result struct {
	Payload  json.RawMessage
	NewToken *token.IssuedToken
}
