package models

import "time"

// SessionStatus is derived from row presence plus the expiry embedded in the
// stored refresh token.
type SessionStatus string

const (
	SessionNone    SessionStatus = "none"
	SessionActive  SessionStatus = "active"
	SessionExpired SessionStatus = "expired"
)

// Session is the refresh-token record of one (user, device) pair.
type Session struct {
	UserID       string
	DeviceKey    string
	RefreshToken string
	UpdatedAt    time.Time
}

// Status reports whether the stored refresh token is still usable at now.
// expiresAt extracts the embedded expiry; an error there counts as expired.
func (s *Session) Status(now time.Time, expiresAt func(token string) (time.Time, error)) SessionStatus {
	if s == nil {
		return SessionNone
	}
	exp, err := expiresAt(s.RefreshToken)
	if err != nil || !now.Before(exp) {
		return SessionExpired
	}
	return SessionActive
}

// TokenPair is returned by every successful credential operation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
