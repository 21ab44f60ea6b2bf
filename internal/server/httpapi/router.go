package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps collects what NewRouter wires.
type RouterDeps struct {
	Sessions    SessionManager
	Invitations InvitationManager
	Guard       *auth.Guard
	Cookie      CookieConfig
	Metrics     http.Handler
	Logger      logging.Logger
}

// NewRouter builds the REST routes:
//
//	POST   /auth/sign-up?registration-key=K
//	POST   /auth/sign-in
//	GET    /auth/renew-tokens
//	DELETE /auth/sign-out              (guarded)
//	GET    /auth/registration-link?registration-key=K
//	POST   /auth/registration-link     (guarded)
//	GET    /auth/session               (guarded)
//	GET    /metrics
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(deps.Logger))

	h := NewAuthHandler(deps.Sessions, deps.Invitations, deps.Cookie, deps.Logger)
	guarded := requireAccessToken(deps.Guard, deps.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", h.SignUp)
		r.Post("/sign-in", h.SignIn)
		r.Get("/renew-tokens", h.RenewTokens)
		r.Get("/registration-link", h.ValidateRegistrationLink)

		r.Group(func(r chi.Router) {
			r.Use(guarded)
			r.Delete("/sign-out", h.SignOut)
			r.Post("/registration-link", h.CreateRegistrationLink)
			r.Get("/session", h.Session)
		})
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	return r
}
