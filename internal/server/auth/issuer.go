// Package auth holds the credential primitives of the server: signed
// access/refresh tokens, password hashing, device keys and the access guard.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind disambiguates access and refresh tokens at decode time.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims is the signed payload of both token kinds. UserName is only set on
// access tokens.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenKind `json:"tokenType"`
	UserName  string    `json:"username,omitempty"`
}

// IssuerConfig is the immutable process-wide signing configuration.
type IssuerConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer creates and verifies HS256 tokens.
type Issuer struct {
	cfg IssuerConfig
	now func() time.Time
}

// NewIssuer copies cfg; the issuer never observes later changes to it.
func NewIssuer(cfg IssuerConfig) *Issuer {
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	cfg.Secret = secret
	return &Issuer{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of the issuer reading time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	c := *i
	c.now = now
	return &c
}

func (i *Issuer) ttl(kind TokenKind) (time.Duration, error) {
	switch kind {
	case AccessToken:
		return i.cfg.AccessTTL, nil
	case RefreshToken:
		return i.cfg.RefreshTTL, nil
	}
	return 0, fmt.Errorf("unknown token kind %q", kind)
}

// Issue signs a token of the given kind for subject. userName is dropped for
// refresh tokens.
func (i *Issuer) Issue(subject string, kind TokenKind, userName string) (string, error) {
	ttl, err := i.ttl(kind)
	if err != nil {
		return "", err
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	}
	if kind == AccessToken {
		claims.UserName = userName
	}

	// jti keeps two tokens issued within the same second distinct, so a
	// rotated refresh token never equals its predecessor.
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	claims.ID = jti

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssuePair issues an access and a refresh token for the same identity.
func (i *Issuer) IssuePair(subject, userName string) (accessToken, refreshToken string, err error) {
	accessToken, err = i.Issue(subject, AccessToken, userName)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = i.Issue(subject, RefreshToken, "")
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// validMethods is the only algorithm check: the parser rejects any other alg
// before keyFunc runs.
var validMethods = jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})

func (i *Issuer) keyFunc(*jwt.Token) (any, error) {
	return i.cfg.Secret, nil
}

// Verify checks signature, expiry and kind. It fails with
// common.ErrTokenExpired or common.ErrTokenMalformed only.
func (i *Issuer) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, i.keyFunc,
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		validMethods,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid || claims.Subject == "" || claims.TokenType != kind {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}

// ExpiresAt returns the embedded expiry of an authentic refresh token, even
// when that expiry has already passed.
func (i *Issuer) ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, i.keyFunc,
		jwt.WithoutClaimsValidation(),
		validMethods,
	)
	if err != nil || claims.ExpiresAt == nil || claims.TokenType != RefreshToken {
		return time.Time{}, common.ErrTokenMalformed
	}

	return claims.ExpiresAt.Time, nil
}
