package server

import (
	"encoding/json"
	"net/http"

	"github.com/technokuro/novelBuilder/accounts"
	"github.com/technokuro/novelBuilder/internal/resultcode"
	"github.com/technokuro/novelBuilder/token/session"
)

// LoginHandler authenticates mail/password and issues a session token
// bound to the caller's IP. With keepLogin set, a long-lived token is
// issued alongside for silent re-login after the session expires.
func (s *Server) LoginHandler() http.HandlerFunc {
	type loginRequest struct {
		Mail      string `json:"mail"`
		Password  string `json:"password"`
		KeepLogin bool   `json:"keepLogin"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Mail == "" || req.Password == "" {
			s.writeResult(w, resultcode.ErrorValidation, nil)
			return
		}

		account, err := s.accounts.GetByMail(r.Context(), req.Mail)
		if err != nil {
			s.log.Error().Err(err).Msg("account lookup failed")
			s.writeResult(w, resultcode.Error, nil)
			return
		}
		if account == nil || !account.CheckPassword(req.Password, s.config) {
			s.writeResult(w, resultcode.AuthFailure, nil)
			return
		}
		if !account.Activate {
			s.writeResult(w, resultcode.NotActivated, nil)
			return
		}

		s.respondWithSession(w, r, account, req.KeepLogin)
	}
}

// LoginByLongTokenHandler swaps a still-valid long-lived token for a new
// session token, rotating the long token in the process.
func (s *Server) LoginByLongTokenHandler() http.HandlerFunc {
	type longTokenRequest struct {
		LongToken string `json:"longToken"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req longTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LongToken == "" {
			s.writeResult(w, resultcode.ErrorValidation, nil)
			return
		}

		accountNo, ok, err := s.longTokens.Resolve(r.Context(), req.LongToken)
		if err != nil {
			s.log.Error().Err(err).Msg("long token resolution failed")
			s.writeResult(w, resultcode.Error, nil)
			return
		}
		if !ok {
			s.writeResult(w, resultcode.TokenExpired, nil)
			return
		}

		account, err := s.accounts.GetByNo(r.Context(), accountNo)
		if err != nil {
			s.log.Error().Err(err).Msg("account lookup failed")
			s.writeResult(w, resultcode.Error, nil)
			return
		}
		if account == nil || !account.Activate {
			s.writeResult(w, resultcode.NotActivated, nil)
			return
		}

		s.respondWithSession(w, r, account, true)
	}
}

// LogoutHandler verifies the current token and revokes it.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authorize(w, r, session.EditDestroy); !ok {
			return
		}
		s.writeResult(w, resultcode.OK, nil)
	}
}

// RefreshTokenHandler verifies the current token, revokes it, and hands
// back a fresh replacement in the same call.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := s.authorize(w, r, session.EditRenew)
		if !ok {
			return
		}
		s.writeResult(w, resultcode.OK, map[string]any{
			"newToken": result.NewToken,
		})
	}
}

// MeHandler echoes the verified session payload back to the caller.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := r.Context().Value(ContextKeyPayload).(json.RawMessage)
		s.writeResult(w, resultcode.OK, map[string]any{
			"session": payload,
		})
	}
}

func (s *Server) respondWithSession(w http.ResponseWriter, r *http.Request, account *accounts.Account, keepLogin bool) {
	payload, err := json.Marshal(map[string]any{
		"account": account,
		"admin":   accounts.IsAdminMail(account.Mail, s.config.GetAdminMailList()),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal session payload")
		s.writeResult(w, resultcode.Error, nil)
		return
	}

	issued, err := s.sessions.Create(ClientIP(r), payload)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue session token")
		s.writeResult(w, resultcode.Error, nil)
		return
	}

	data := map[string]any{
		"account": account,
		"token":   issued.Token,
		"expire":  issued.Expire,
	}
	if keepLogin {
		longToken, err := s.longTokens.Issue(r.Context(), account.AccountNo)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to issue long token")
			s.writeResult(w, resultcode.Error, nil)
			return
		}
		data["longToken"] = longToken
	}
	s.writeResult(w, resultcode.OK, data)
}
