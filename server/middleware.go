package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/technokuro/novelBuilder/internal/resultcode"
	"github.com/technokuro/novelBuilder/token"
	"github.com/technokuro/novelBuilder/token/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyPayload stores the verified session payload
const ContextKeyPayload ContextKey = "session_payload"

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) APIMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				s.writeResult(w, resultcode.Error, nil)
			}
		}()
		next(w, r)
	}
}

// RequireAuth verifies the bearer session token against the requester's
// IP and injects the resolved payload into the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			result, ok := s.authorize(w, r, session.EditNone)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyPayload, result.Payload)
			next(w, r.WithContext(ctx))
		}
	}
}

// authorize runs session verification with the requested edit mode and
// writes the failure response itself when verification does not succeed.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, edit session.EditToken) (*session.Result, bool) {
	result, err := s.sessions.Auth(r.Context(), bearerToken(r), ClientIP(r), edit)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired):
			s.writeResult(w, resultcode.TokenExpired, nil)
		case errors.Is(err, token.ErrInvalidToken):
			s.writeResult(w, resultcode.InvalidToken, nil)
		default:
			s.log.Error().Err(err).Msg("session verification failed")
			s.writeResult(w, resultcode.Error, nil)
		}
		return nil, false
	}
	return result, true
}

func bearerToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return raw[7:]
	}
	return raw
}

func (s *Server) writeResult(w http.ResponseWriter, code resultcode.ResultCode, data map[string]any) {
	body := map[string]any{
		"resultCode": code.Code,
	}
	if code.Message != "" {
		body["errorMessage"] = code.Message
	}
	for k, v := range data {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}
