package token

import "errors"

// The two failure kinds the token layer reports to callers. An expired
// token is still "this system issued it" and is eligible for the long
// token flow; everything else is uniformly invalid so that forgery,
// revocation and IP mismatch are indistinguishable from outside.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
