package server

const (
	RouteLogin            = "/account/login"
	RouteLoginByLongToken = "/account/loginByLongToken"
	RouteLogout           = "/account/logout"
	RouteRefreshToken     = "/account/refreshToken"
	RouteMe               = "/account/me"
	RouteGoogleLogin      = "/oauth/google"
	RouteGoogleCallback   = "/oauth/googleCallback"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLoginByLongToken, ChainMiddleware(s.LoginByLongTokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteRefreshToken, ChainMiddleware(s.RefreshTokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteMe, ChainMiddleware(s.MeHandler(), append(s.APIMiddleware(), s.RequireAuth())...))

	s.RegisterRouteFunc("GET "+RouteGoogleLogin, ChainMiddleware(s.GoogleLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.APIMiddleware()...))
}
