package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correcthorse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "correcthorse" {
		t.Fatal("hash must not equal the password")
	}

	if err := h.Compare(hash, "correcthorse"); err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestPasswordHasher_SaltedPerPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestPasswordHasher_EmptyPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(""); !errors.Is(err, common.ErrorBadRequest) {
		t.Fatalf("want ErrorBadRequest, got %v", err)
	}
}

func TestPasswordHasher_CorruptHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	err := h.Compare("not-a-bcrypt-hash", "pw")
	if err == nil || errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("corrupt hash should surface a raw error, got %v", err)
	}
}

func TestNewPasswordHasher_OutOfRangeCost(t *testing.T) {
	if h := NewPasswordHasher(99); h.cost != DefaultBcryptCost {
		t.Fatalf("cost 99 should fall back to default, got %d", h.cost)
	}
	if h := NewPasswordHasher(0); h.cost != DefaultBcryptCost {
		t.Fatalf("cost 0 should fall back to default, got %d", h.cost)
	}
}

func TestCompareDummy(t *testing.T) {
	NewPasswordHasher(bcrypt.MinCost).CompareDummy("anything")
}

func TestPasswordHasher_ByteLimit(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72 bytes should hash, got %v", err)
	}
	// 37 two-byte runes are 74 bytes.
	for _, pw := range []string{strings.Repeat("a", 73), strings.Repeat("é", 37)} {
		_, err := h.Hash(pw)
		if !errors.Is(err, common.ErrorBadRequest) {
			t.Fatalf("want ErrorBadRequest for %d bytes, got %v", len(pw), err)
		}
		if msg := common.PublicMessage(err); msg != "password is too long" {
			t.Fatalf("message = %q", msg)
		}
	}
}
