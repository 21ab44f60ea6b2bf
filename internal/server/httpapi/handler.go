// Package httpapi is the REST gateway over the session and invitation
// managers. Access tokens travel in bodies and the Authorization header; the
// refresh token only in an HttpOnly cookie.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// SessionManager is the part of services.SessionService the gateway uses.
type SessionManager interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.TokenPair, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.TokenPair, error)
	RenewTokens(ctx context.Context, refreshToken, deviceKey string) (*models.TokenPair, error)
	SignOut(ctx context.Context, userID, deviceKey string) error
	SessionStatus(ctx context.Context, userID, deviceKey string) (models.SessionStatus, error)
}

// InvitationManager is the part of services.InvitationService the gateway uses.
type InvitationManager interface {
	CreateRegistrationLink(ctx context.Context, creatorUserID string) (string, error)
	ValidateRegistrationKey(ctx context.Context, key string) error
}

var errBadBody = common.NewKindError(common.ErrorBadRequest, "invalid request body")

type AuthHandler struct {
	sessions    SessionManager
	invitations InvitationManager
	cookie      CookieConfig
	log         logging.Logger
}

func NewAuthHandler(sm SessionManager, im InvitationManager, cookie CookieConfig, log logging.Logger) *AuthHandler {
	return &AuthHandler{sessions: sm, invitations: im, cookie: cookie, log: log}
}

type signUpBody struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type signInBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

func deviceKey(r *http.Request) string {
	return auth.DeviceKey(r.UserAgent())
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, pair *models.TokenPair) {
	h.cookie.set(w, pair.RefreshToken)
	writeJSON(w, status, tokenBody{StatusCode: status, AccessToken: pair.AccessToken})
}

// SignUp handles POST /auth/sign-up?registration-key=K.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpBody
	if err := decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.sessions.SignUp(r.Context(), models.SignUpRequest{
		UserName:        body.Username,
		Password:        body.Password,
		PasswordConfirm: body.PasswordConfirm,
		RegistrationKey: r.URL.Query().Get(common.RegistrationKeyParam),
		DeviceKey:       deviceKey(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.issue(w, http.StatusCreated, pair)
}

// SignIn handles POST /auth/sign-in.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInBody
	if err := decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.sessions.SignIn(r.Context(), models.SignInRequest{
		UserName:  body.Username,
		Password:  body.Password,
		DeviceKey: deviceKey(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.issue(w, http.StatusOK, pair)
}

// RenewTokens handles GET /auth/renew-tokens.
func (h *AuthHandler) RenewTokens(w http.ResponseWriter, r *http.Request) {
	pair, err := h.sessions.RenewTokens(r.Context(), refreshTokenFrom(r), deviceKey(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.issue(w, http.StatusOK, pair)
}

// SignOut handles DELETE /auth/sign-out behind the access guard.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.sessions.SignOut(r.Context(), id.UserID, deviceKey(r)); err != nil {
		writeError(w, err)
		return
	}

	h.cookie.clear(w)
	writeJSON(w, http.StatusOK, messageBody{StatusCode: http.StatusOK, Message: "Signed out"})
}

// ValidateRegistrationLink handles GET /auth/registration-link?registration-key=K.
func (h *AuthHandler) ValidateRegistrationLink(w http.ResponseWriter, r *http.Request) {
	if err := h.invitations.ValidateRegistrationKey(r.Context(), r.URL.Query().Get(common.RegistrationKeyParam)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{StatusCode: http.StatusOK, Message: "Registration key is valid"})
}

// CreateRegistrationLink handles POST /auth/registration-link behind the guard.
func (h *AuthHandler) CreateRegistrationLink(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	link, err := h.invitations.CreateRegistrationLink(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, linkBody{StatusCode: http.StatusCreated, RegistrationLink: link})
}

// Session handles GET /auth/session behind the guard.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	st, err := h.sessions.SessionStatus(r.Context(), id.UserID, deviceKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionBody{StatusCode: http.StatusOK, UserID: id.UserID, Username: id.UserName, Status: string(st)})
}
