// Package common contains shared constants and sentinel errors used across
// Gatekeeper components.
package common

const (
	// AuthorizationHeaderName carries "Bearer <access token>" on guarded calls.
	AuthorizationHeaderName = "authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RefreshTokenHeaderName is the gRPC metadata key used to move the refresh
	// token outside of message bodies.
	RefreshTokenHeaderName = "refresh_token"

	// RefreshTokenCookieName is the HTTP cookie holding the refresh token.
	RefreshTokenCookieName = "refreshToken"

	// RegistrationKeyParam is the query parameter carrying the invitation key.
	RegistrationKeyParam = "registration-key"

	// UserAgentHeaderName is the metadata key the device key is derived from.
	UserAgentHeaderName = "user-agent"
)
