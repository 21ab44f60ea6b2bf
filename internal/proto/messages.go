package proto

import "github.com/dmitrijs2005/gatekeeper/internal/common"

// Metadata keys used next to the messages.
const (
	// RefreshTokenMetadata carries the refresh token in request metadata for
	// RenewTokens and in response headers of every credential operation.
	RefreshTokenMetadata = common.RefreshTokenHeaderName
	// AuthorizationMetadata carries "Bearer <access token>".
	AuthorizationMetadata = common.AuthorizationHeaderName
)

type SignUpRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	RegistrationKey string `json:"registrationKey"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse returns the access token; the refresh token is sent in the
// refresh_token response header.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type CreateRegistrationLinkResponse struct {
	RegistrationLink string `json:"registrationLink"`
}

type ValidateRegistrationLinkRequest struct {
	RegistrationKey string `json:"registrationKey"`
}

type ValidateRegistrationLinkResponse struct {
	Message string `json:"message"`
}

type SessionStatusResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

type PingResponse struct {
	Status string `json:"status"`
}
