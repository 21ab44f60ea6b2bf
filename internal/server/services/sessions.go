// Package services contains server-side business logic. This file implements
// SessionService, the sign-up / sign-in / renewal / sign-out state machine
// over the credential and session stores.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	// errWrongCredentials is returned for both an unknown username and a bad
	// password so callers cannot enumerate accounts.
	errWrongCredentials  = common.NewKindError(common.ErrorUnauthorized, "wrong username or password")
	errPasswordsMismatch = common.NewKindError(common.ErrorBadRequest, "passwords do not match")
	errUsernameTaken     = common.NewKindError(common.ErrorConflict, "username already taken")
	errMissingRefresh    = common.NewKindError(common.ErrorUnauthorized, "missing refresh token")
	errInvalidRefresh    = common.NewKindError(common.ErrorUnauthorized, "invalid refresh token")
	errDeviceMismatch    = common.NewKindError(common.ErrorUnauthorized, "refresh token was issued to another device")
	errSessionNotFound   = common.NewKindError(common.ErrorNotFound, "session not found")
	errUserNotFound      = common.NewKindError(common.ErrorNotFound, "user not found")
)

// SessionService issues and rotates token pairs, one session per
// (user, device).
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	hasher      *auth.PasswordHasher
	invitations *InvitationService
	metrics     metrics.Recorder
	log         logging.Logger
	now         func() time.Time
}

// NewSessionService wires the session state machine. invitations gates
// sign-up.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer, hasher *auth.PasswordHasher,
	invitations *InvitationService, rec metrics.Recorder, log logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		hasher:      hasher,
		invitations: invitations,
		metrics:     rec,
		log:         log.With("service", "sessions"),
		now:         time.Now,
	}
}

// internal logs err with its full detail and returns the bare internal kind.
func (s *SessionService) internal(ctx context.Context, msg string, err error, args ...any) error {
	s.log.Error(ctx, msg, append(args, "error", err)...)
	return common.ErrorInternal
}

func (s *SessionService) hash(password string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.RecordPasswordHash(time.Since(start)) }()
	return s.hasher.Hash(password)
}

func (s *SessionService) compare(hash, password string) error {
	start := time.Now()
	defer func() { s.metrics.RecordPasswordHash(time.Since(start)) }()
	return s.hasher.Compare(hash, password)
}

// SignUp creates the user, its credential and the first session of the
// device in one transaction. The registration key must be valid.
func (s *SessionService) SignUp(ctx context.Context, req models.SignUpRequest) (pair *models.TokenPair, err error) {
	defer func() { s.metrics.RecordOperation(metrics.OpSignUp, err) }()

	if err := req.Validate(); err != nil {
		return nil, common.NewKindError(common.ErrorBadRequest, err.Error())
	}
	if req.Password != req.PasswordConfirm {
		return nil, errPasswordsMismatch
	}

	if err := s.invitations.ValidateRegistrationKey(ctx, req.RegistrationKey); err != nil {
		return nil, err
	}

	// Only an optimization: the unique constraint on users.username is the
	// authority and is mapped to the same Conflict below.
	taken, err := s.repomanager.Users(s.db).Exists(ctx, req.UserName)
	if err != nil {
		return nil, s.internal(ctx, "username lookup failed", err, "username", req.UserName)
	}
	if taken {
		return nil, errUsernameTaken
	}

	passwordHash, err := s.hash(req.Password)
	if errors.Is(err, common.ErrorBadRequest) {
		return nil, err
	}
	if err != nil {
		return nil, s.internal(ctx, "password hashing failed", err)
	}

	user := &models.User{ID: uuid.NewString(), UserName: req.UserName}
	access, refresh, err := s.issuer.IssuePair(user.ID, user.UserName)
	if err != nil {
		return nil, s.internal(ctx, "token issue failed", err, "user_id", user.ID)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user, passwordHash); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).Upsert(ctx, &models.Session{
			UserID:       user.ID,
			DeviceKey:    req.DeviceKey,
			RefreshToken: refresh,
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, errUsernameTaken
		}
		return nil, s.internal(ctx, "sign-up transaction failed", err, "username", req.UserName)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID, "device", req.DeviceKey)
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SignIn checks the password and replaces any previous session of the
// device.
func (s *SessionService) SignIn(ctx context.Context, req models.SignInRequest) (pair *models.TokenPair, err error) {
	defer func() { s.metrics.RecordOperation(metrics.OpSignIn, err) }()

	if err := req.Validate(); err != nil {
		return nil, common.NewKindError(common.ErrorBadRequest, err.Error())
	}

	user, cred, err := s.repomanager.Users(s.db).GetCredentialsByUsername(ctx, req.UserName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(req.Password)
			return nil, errWrongCredentials
		}
		return nil, s.internal(ctx, "credential lookup failed", err, "username", req.UserName)
	}

	if err := s.compare(cred.PasswordHash, req.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, errWrongCredentials
		}
		return nil, s.internal(ctx, "password verification failed", err, "user_id", user.ID)
	}

	access, refresh, err := s.issuer.IssuePair(user.ID, user.UserName)
	if err != nil {
		return nil, s.internal(ctx, "token issue failed", err, "user_id", user.ID)
	}

	err = s.repomanager.Sessions(s.db).Upsert(ctx, &models.Session{
		UserID:       user.ID,
		DeviceKey:    req.DeviceKey,
		RefreshToken: refresh,
	})
	if err != nil {
		return nil, s.internal(ctx, "session upsert failed", err, "user_id", user.ID)
	}

	s.log.Info(ctx, "user signed in", "user_id", user.ID, "device", req.DeviceKey)
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RenewTokens rotates the refresh token of the caller's session. The
// presented token becomes unusable; of two concurrent renewals with the same
// token exactly one succeeds.
func (s *SessionService) RenewTokens(ctx context.Context, refreshToken, deviceKey string) (pair *models.TokenPair, err error) {
	defer func() { s.metrics.RecordOperation(metrics.OpRenewTokens, err) }()

	if refreshToken == "" {
		return nil, errMissingRefresh
	}

	claims, err := s.issuer.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		s.log.Debug(ctx, "refresh token rejected", "error", err)
		return nil, errInvalidRefresh
	}

	sessions := s.repomanager.Sessions(s.db)

	session, err := sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errSessionNotFound
		}
		return nil, s.internal(ctx, "session lookup failed", err)
	}

	if session.DeviceKey != deviceKey || session.UserID != claims.Subject {
		s.log.Warn(ctx, "refresh token presented from another device",
			"user_id", session.UserID, "bound_device", session.DeviceKey, "device", deviceKey)
		return nil, errDeviceMismatch
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, s.internal(ctx, "user lookup failed", err, "user_id", session.UserID)
	}

	access, refresh, err := s.issuer.IssuePair(user.ID, user.UserName)
	if err != nil {
		return nil, s.internal(ctx, "token issue failed", err, "user_id", user.ID)
	}

	if err := sessions.ReplaceToken(ctx, refreshToken, refresh); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errSessionNotFound
		}
		return nil, s.internal(ctx, "session rotation failed", err, "user_id", user.ID)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SignOut ends the session of (userID, deviceKey). An already ended session
// is reported as NotFound.
func (s *SessionService) SignOut(ctx context.Context, userID, deviceKey string) (err error) {
	defer func() { s.metrics.RecordOperation(metrics.OpSignOut, err) }()

	sessions := s.repomanager.Sessions(s.db)

	if _, err := sessions.FindByUserDevice(ctx, userID, deviceKey); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errSessionNotFound
		}
		return s.internal(ctx, "session lookup failed", err, "user_id", userID)
	}

	if err := sessions.Delete(ctx, userID, deviceKey); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errSessionNotFound
		}
		return s.internal(ctx, "session delete failed", err, "user_id", userID)
	}

	s.log.Info(ctx, "user signed out", "user_id", userID, "device", deviceKey)
	return nil
}

// SessionStatus reports the state of the (userID, deviceKey) session. A row
// whose refresh token has expired is Expired, not None.
func (s *SessionService) SessionStatus(ctx context.Context, userID, deviceKey string) (models.SessionStatus, error) {
	session, err := s.repomanager.Sessions(s.db).FindByUserDevice(ctx, userID, deviceKey)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", s.internal(ctx, "session lookup failed", err, "user_id", userID)
	}
	return session.Status(s.now(), s.issuer.ExpiresAt), nil
}

// EnsureUser creates userName with password unless it already exists. It is
// used at startup to seed the account that issues the first invitations.
func (s *SessionService) EnsureUser(ctx context.Context, userName, password string) error {
	if err := (models.SignInRequest{UserName: userName, Password: password}).Validate(); err != nil {
		return common.NewKindError(common.ErrorBadRequest, err.Error())
	}

	passwordHash, err := s.hash(password)
	if err != nil {
		return err
	}

	user := &models.User{ID: uuid.NewString(), UserName: userName}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Users(tx).Create(ctx, user, passwordHash)
		return err
	})
	if errors.Is(err, common.ErrorConflict) {
		s.log.Debug(ctx, "bootstrap user already present", "username", userName)
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info(ctx, "bootstrap user created", "user_id", user.ID, "username", userName)
	return nil
}
