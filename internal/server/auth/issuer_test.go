package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestIssuer(secret string) (*Issuer, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	i := NewIssuer(IssuerConfig{
		Secret:     []byte(secret),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}).WithClock(clock.Now)
	return i, clock
}

func TestIssueAndVerify_AccessRoundTrip(t *testing.T) {
	t.Parallel()
	issuer, _ := newTestIssuer("super-secret")

	tok, err := issuer.Issue("user-123", AccessToken, "alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := issuer.Verify(tok, AccessToken)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-123" || claims.UserName != "alice" || claims.TokenType != AccessToken {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestIssue_RefreshDropsUserName(t *testing.T) {
	t.Parallel()
	issuer, _ := newTestIssuer("k")

	tok, err := issuer.Issue("u1", RefreshToken, "alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	claims, err := issuer.Verify(tok, RefreshToken)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserName != "" {
		t.Fatalf("refresh token must not carry username, got %q", claims.UserName)
	}
}

func TestIssue_UnknownKind(t *testing.T) {
	t.Parallel()
	issuer, _ := newTestIssuer("k")

	if _, err := issuer.Issue("u1", TokenKind("id"), ""); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()
	issuer, clock := newTestIssuer("k")

	access, refresh, err := issuer.IssuePair("u1", "alice")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	clock.Advance(14 * time.Minute)
	if _, err := issuer.Verify(access, AccessToken); err != nil {
		t.Fatalf("access token should still be valid: %v", err)
	}

	clock.Advance(2 * time.Minute)
	if _, err := issuer.Verify(access, AccessToken); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := issuer.Verify(refresh, RefreshToken); err != nil {
		t.Fatalf("refresh token should outlive access token: %v", err)
	}

	clock.Advance(7 * 24 * time.Hour)
	if _, err := issuer.Verify(refresh, RefreshToken); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired for refresh, got %v", err)
	}
}

func TestVerify_RejectsKindConfusion(t *testing.T) {
	t.Parallel()
	issuer, _ := newTestIssuer("k")

	access, refresh, err := issuer.IssuePair("u1", "alice")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	if _, err := issuer.Verify(refresh, AccessToken); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("refresh as access: want ErrTokenMalformed, got %v", err)
	}
	if _, err := issuer.Verify(access, RefreshToken); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("access as refresh: want ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	right, _ := newTestIssuer("right-secret")
	wrong, _ := newTestIssuer("wrong-secret")

	tok, err := right.Issue("u2", AccessToken, "bob")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := wrong.Verify(tok, AccessToken); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("want ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	issuer, clock := newTestIssuer("k")

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
		TokenType: AccessToken,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := issuer.Verify(tok, AccessToken); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("alg=none must be rejected, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, err := issuer.Verify(hs512, AccessToken); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("HS512 must be rejected, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()
	issuer, _ := newTestIssuer("k")

	for _, s := range []string{"", "not.a.jwt", strings.Repeat("x", 64)} {
		if _, err := issuer.Verify(s, AccessToken); !errors.Is(err, common.ErrTokenMalformed) {
			t.Fatalf("%q: want ErrTokenMalformed, got %v", s, err)
		}
	}
}

func TestIssue_RotatedTokensDiffer(t *testing.T) {
	t.Parallel()
	issuer, _ := newTestIssuer("k")

	a, err := issuer.Issue("u1", RefreshToken, "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, err := issuer.Issue("u1", RefreshToken, "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens issued at the same instant must differ")
	}
}

func TestNewIssuer_CopiesSecret(t *testing.T) {
	t.Parallel()
	secret := []byte("mutable")
	issuer := NewIssuer(IssuerConfig{Secret: secret, AccessTTL: time.Minute, RefreshTTL: time.Hour})

	tok, err := issuer.Issue("u1", AccessToken, "a")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	secret[0] = 'X'
	if _, err := issuer.Verify(tok, AccessToken); err != nil {
		t.Fatalf("issuer must not observe caller mutations: %v", err)
	}
}

func TestExpiresAt(t *testing.T) {
	t.Parallel()
	issuer, clock := newTestIssuer("k")

	start := clock.Now()
	refresh, err := issuer.Issue("u1", RefreshToken, "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	clock.Advance(30 * 24 * time.Hour)
	exp, err := issuer.ExpiresAt(refresh)
	if err != nil {
		t.Fatalf("ExpiresAt on expired token: %v", err)
	}
	if !exp.Equal(start.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", exp)
	}

	access, _ := issuer.Issue("u1", AccessToken, "a")
	if _, err := issuer.ExpiresAt(access); err == nil {
		t.Fatal("ExpiresAt must reject access tokens")
	}
}
