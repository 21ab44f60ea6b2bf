package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// CookieConfig shapes the refresh-token cookie.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

func (c CookieConfig) set(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    refreshToken,
		Path:     "/auth",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func refreshTokenFrom(r *http.Request) string {
	c, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
