package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Guard verifies bearer access tokens for protected operations.
type Guard struct {
	issuer *Issuer
}

func NewGuard(issuer *Issuer) *Guard {
	return &Guard{issuer: issuer}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimLeft(header, " "), " ")
	if !ok || scheme != common.BearerScheme {
		return "", common.NewKindError(common.ErrorUnauthorized, "wrong token type")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.NewKindError(common.ErrorUnauthorized, "missing access token")
	}
	return token, nil
}

// Authenticate turns an authorization header into an identity. Every failure
// is ErrorUnauthorized; expiry and forgery are not told apart.
func (g *Guard) Authenticate(header string) (*models.Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := g.issuer.Verify(token, AccessToken)
	if err != nil {
		return nil, common.NewKindError(common.ErrorUnauthorized, "invalid access token")
	}

	return &models.Identity{UserID: claims.Subject, UserName: claims.UserName}, nil
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity placed by the guard.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok && id != nil
}
