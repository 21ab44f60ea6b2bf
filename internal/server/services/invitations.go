package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	errWrongRegistrationKey   = common.NewKindError(common.ErrorNotFound, "wrong registration key")
	errExpiredRegistrationKey = common.NewKindError(common.ErrorUnauthorized, "registration key expired")
)

// InvitationService creates and checks registration keys. Keys are not
// consumed: any number of sign-ups may use one until it expires.
type InvitationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
	baseURL     string
	metrics     metrics.Recorder
	log         logging.Logger
	now         func() time.Time
	newKey      func() string
}

// NewInvitationService builds the service. Links are baseURL with the key in
// the registration-key query parameter.
func NewInvitationService(db *sql.DB, m repomanager.RepositoryManager, ttl time.Duration, baseURL string,
	rec metrics.Recorder, log logging.Logger) *InvitationService {
	return &InvitationService{
		db:          db,
		repomanager: m,
		ttl:         ttl,
		baseURL:     baseURL,
		metrics:     rec,
		log:         log.With("service", "invitations"),
		now:         time.Now,
		newKey:      uuid.NewString,
	}
}

func (s *InvitationService) link(key string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("bad registration link base %q: %w", s.baseURL, err)
	}
	q := u.Query()
	q.Set(common.RegistrationKeyParam, key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CreateRegistrationLink stores a fresh key created by creatorUserID and
// returns the link embedding it.
func (s *InvitationService) CreateRegistrationLink(ctx context.Context, creatorUserID string) (link string, err error) {
	defer func() { s.metrics.RecordOperation(metrics.OpCreateInvitation, err) }()

	now := s.now()
	expiresAt := now.Add(s.ttl)
	if !expiresAt.After(now) {
		s.log.Error(ctx, "registration key ttl does not resolve to a future time", "ttl", s.ttl)
		return "", common.ErrorInternal
	}

	key := &models.RegistrationKey{
		Key:           s.newKey(),
		CreatorUserID: creatorUserID,
		ExpiresAt:     expiresAt,
	}

	link, err = s.link(key.Key)
	if err != nil {
		s.log.Error(ctx, "registration link build failed", "error", err)
		return "", common.ErrorInternal
	}

	if err := s.repomanager.RegistrationKeys(s.db).Create(ctx, key); err != nil {
		s.log.Error(ctx, "registration key insert failed", "error", err, "creator", creatorUserID)
		return "", common.ErrorInternal
	}

	s.log.Info(ctx, "registration link created", "creator", creatorUserID, "expires_at", expiresAt)
	return link, nil
}

// ValidateRegistrationKey fails NotFound for unknown keys and Unauthorized
// once the expiry is not strictly after now. It never modifies the key.
func (s *InvitationService) ValidateRegistrationKey(ctx context.Context, key string) (err error) {
	defer func() { s.metrics.RecordOperation(metrics.OpCheckInvitation, err) }()

	if key == "" {
		return errWrongRegistrationKey
	}

	expiresAt, err := s.repomanager.RegistrationKeys(s.db).GetExpiration(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errWrongRegistrationKey
		}
		s.log.Error(ctx, "registration key lookup failed", "error", err)
		return common.ErrorInternal
	}

	rk := models.RegistrationKey{Key: key, ExpiresAt: expiresAt}
	if !rk.Valid(s.now()) {
		return errExpiredRegistrationKey
	}
	return nil
}
