package auth

import (
	"errors"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

var errPasswordTooLong = common.NewKindError(common.ErrorBadRequest, "password is too long")

// DefaultBcryptCost puts a single verification well above 50ms on current hardware.
const DefaultBcryptCost = 12

// PasswordHasher hashes and checks passwords with a fixed bcrypt cost.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", common.ErrorBadRequest
	}
	if len(password) > maxPasswordBytes {
		return "", errPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns common.ErrorUnauthorized on mismatch and the raw error for
// corrupt hashes.
func (h *PasswordHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrorUnauthorized
		}
		return err
	}
	return nil
}

// dummyHash is compared against when the username is unknown so that both
// sign-in failure paths cost one bcrypt verification.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gatekeeper-timing-equalizer"), bcrypt.MinCost)

// CompareDummy burns roughly one comparison worth of time and always fails.
func (h *PasswordHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
