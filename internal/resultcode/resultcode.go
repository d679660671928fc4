// Package resultcode defines the result codes returned to API clients.
// Clients branch on Code; Message is display text; HTTPStatus is the
// response status the code maps to.
package resultcode

import "net/http"

type ResultCode struct {
	Code       string `json:"code"`
	Message    string `json:"errorMessage"`
	HTTPStatus int    `json:"-"`
}

var (
	OK = ResultCode{Code: "OK", HTTPStatus: http.StatusOK}

	// AuthFailure deliberately does not say whether the mail or the
	// password was wrong.
	AuthFailure = ResultCode{
		Code:       "AUTH_FAILURE",
		Message:    "login information is incorrect",
		HTTPStatus: http.StatusBadRequest,
	}
	NotActivated = ResultCode{
		Code:       "NOT_ACTIVATED",
		Message:    "account is not activated",
		HTTPStatus: http.StatusUnauthorized,
	}

	// InvalidToken covers missing, malformed, forged, wrong-origin and
	// revoked tokens alike; the distinction is logged server-side only.
	InvalidToken = ResultCode{
		Code:       "INVALID_TOKEN",
		Message:    "the supplied token is invalid",
		HTTPStatus: http.StatusUnauthorized,
	}
	// TokenExpired signals clients they may attempt the long token flow
	// instead of a full re-login.
	TokenExpired = ResultCode{
		Code:       "TOKEN_EXPIRED",
		Message:    "the supplied token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrorValidation = ResultCode{
		Code:       "ERROR_VALIDATION",
		Message:    "the request is malformed",
		HTTPStatus: http.StatusBadRequest,
	}
	Error = ResultCode{
		Code:       "ERROR",
		Message:    "an error occurred",
		HTTPStatus: http.StatusInternalServerError,
	}
)
