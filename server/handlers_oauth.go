package server

import (
	"net/http"

	"github.com/technokuro/novelBuilder/accounts"
	"github.com/technokuro/novelBuilder/internal/cryptoutil"
	"github.com/technokuro/novelBuilder/internal/resultcode"
)

// GoogleLoginHandler starts the Google consent flow by redirecting to
// the provider with a fresh anti-forgery state.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.google == nil {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, s.google.AuthCodeURL(s.states.Issue()), http.StatusFound)
	}
}

// GoogleCallbackHandler completes the consent flow: it validates the
// state, exchanges the code for a verified identity, finds or creates
// the matching account, and issues a session bound to the caller's IP.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.google == nil {
			http.NotFound(w, r)
			return
		}
		if !s.states.Consume(r.URL.Query().Get("state")) {
			s.writeResult(w, resultcode.AuthFailure, nil)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			s.writeResult(w, resultcode.ErrorValidation, nil)
			return
		}

		identity, err := s.google.ExchangeCode(r.Context(), code)
		if err != nil {
			s.log.Error().Err(err).Msg("google code exchange failed")
			s.writeResult(w, resultcode.AuthFailure, nil)
			return
		}

		account, err := s.accounts.GetByMail(r.Context(), identity.Email)
		if err != nil {
			s.log.Error().Err(err).Msg("account lookup failed")
			s.writeResult(w, resultcode.Error, nil)
			return
		}
		if account == nil {
			// An unguessable placeholder keeps password login from ever
			// matching on provider-created accounts.
			placeholder, err := cryptoutil.RandomString(32)
			if err != nil {
				s.log.Error().Err(err).Msg("failed to generate placeholder password")
				s.writeResult(w, resultcode.Error, nil)
				return
			}
			account = &accounts.Account{
				Mail:         identity.Email,
				Activate:     identity.EmailVerified,
				OAuthOnly:    true,
				PasswordHash: accounts.HashPassword(placeholder, s.config),
			}
			if err := s.accounts.Upsert(r.Context(), account); err != nil {
				s.log.Error().Err(err).Msg("account creation failed")
				s.writeResult(w, resultcode.Error, nil)
				return
			}
		}
		if !account.Activate {
			s.writeResult(w, resultcode.NotActivated, nil)
			return
		}

		s.respondWithSession(w, r, account, true)
	}
}
