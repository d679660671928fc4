// Package server wires the HTTP surface onto the token core: login and
// logout, token refresh, the long token flow, and the Google OAuth
// callback, all of which are callers of session issuance/verification.
package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/technokuro/novelBuilder/accounts"
	"github.com/technokuro/novelBuilder/auth/google"
	"github.com/technokuro/novelBuilder/internal/config"
	"github.com/technokuro/novelBuilder/token/longtoken"
	"github.com/technokuro/novelBuilder/token/session"
)

// Deps holds the collaborators the server drives.
type Deps struct {
	Sessions   *session.Manager
	LongTokens *longtoken.Manager
	Accounts   accounts.Repo
	Google     *google.Provider // nil when Google login is not configured
}

type Server struct {
	env        string
	mux        *http.ServeMux
	config     config.Config
	log        zerolog.Logger
	sessions   *session.Manager
	longTokens *longtoken.Manager
	accounts   accounts.Repo
	google     *google.Provider
	states     *stateStore
}

func New(cfg config.Config, deps Deps, log zerolog.Logger) (*Server, error) {
	if deps.Sessions == nil {
		return nil, errors.New("[server.New] Sessions manager is required")
	}
	if deps.LongTokens == nil {
		return nil, errors.New("[server.New] LongTokens manager is required")
	}
	if deps.Accounts == nil {
		return nil, errors.New("[server.New] Accounts repo is required")
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		log:        log,
		sessions:   deps.Sessions,
		longTokens: deps.LongTokens,
		accounts:   deps.Accounts,
		google:     deps.Google,
		states:     newStateStore(),
	}
	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, handler)
}
