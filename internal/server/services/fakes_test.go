package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/registrationkeys"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- in-memory stores shared by the fake repository manager ---

type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	hashes   map[string]string
	sessions map[[2]string]*models.Session
	keys     map[string]*models.RegistrationKey

	usersErr    error
	sessionsErr error
	keysErr     error

	// beforeReplace runs inside ReplaceToken before the compare, so tests can
	// simulate a competing renewal landing first.
	beforeReplace func()
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		hashes:   map[string]string{},
		sessions: map[[2]string]*models.Session{},
		keys:     map[string]*models.RegistrationKey{},
	}
}

func (m *memStore) sessionCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.sessions {
		if k[0] == userID {
			n++
		}
	}
	return n
}

func (m *memStore) userByName(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserName == name {
			return u
		}
	}
	return nil
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *models.User, passwordHash string) (*models.User, error) {
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.UserName == user.UserName {
			return nil, common.ErrorConflict
		}
	}
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = user
	r.s.hashes[user.ID] = passwordHash
	return user, nil
}

func (r memUsers) GetCredentialsByUsername(_ context.Context, userName string) (*models.User, *models.Credential, error) {
	if r.s.usersErr != nil {
		return nil, nil, r.s.usersErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.UserName == userName {
			return u, &models.Credential{UserID: u.ID, PasswordHash: r.s.hashes[u.ID]}, nil
		}
	}
	return nil, nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r memUsers) Exists(_ context.Context, userName string) (bool, error) {
	if r.s.usersErr != nil {
		return false, r.s.usersErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

type memSessions struct{ s *memStore }

func (r memSessions) Upsert(_ context.Context, s *models.Session) error {
	if r.s.sessionsErr != nil {
		return r.s.sessionsErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *s
	cp.UpdatedAt = time.Now()
	r.s.sessions[[2]string{s.UserID, s.DeviceKey}] = &cp
	return nil
}

func (r memSessions) FindByToken(_ context.Context, token string) (*models.Session, error) {
	if r.s.sessionsErr != nil {
		return nil, r.s.sessionsErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sessions {
		if s.RefreshToken == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memSessions) FindByUserDevice(_ context.Context, userID, deviceKey string) (*models.Session, error) {
	if r.s.sessionsErr != nil {
		return nil, r.s.sessionsErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[[2]string{userID, deviceKey}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (r memSessions) ReplaceToken(_ context.Context, current, next string) error {
	if r.s.sessionsErr != nil {
		return r.s.sessionsErr
	}
	if r.s.beforeReplace != nil {
		hook := r.s.beforeReplace
		r.s.beforeReplace = nil
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sessions {
		if s.RefreshToken == current {
			s.RefreshToken = next
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r memSessions) Delete(_ context.Context, userID, deviceKey string) error {
	if r.s.sessionsErr != nil {
		return r.s.sessionsErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := [2]string{userID, deviceKey}
	if _, ok := r.s.sessions[k]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.sessions, k)
	return nil
}

type memKeys struct{ s *memStore }

func (r memKeys) Create(_ context.Context, key *models.RegistrationKey) error {
	if r.s.keysErr != nil {
		return r.s.keysErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.keys[key.Key]; ok {
		return common.ErrorConflict
	}
	key.CreatedAt = time.Now()
	cp := *key
	r.s.keys[key.Key] = &cp
	return nil
}

func (r memKeys) GetExpiration(_ context.Context, key string) (time.Time, error) {
	if r.s.keysErr != nil {
		return time.Time{}, r.s.keysErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k, ok := r.s.keys[key]
	if !ok {
		return time.Time{}, common.ErrorNotFound
	}
	return k.ExpiresAt, nil
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.s} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository        { return memSessions{m.s} }
func (m *fakeRepoManager) RegistrationKeys(dbx.DBTX) registrationkeys.Repository {
	return memKeys{m.s}
}

// racyUsersManager hides existing users from Exists, as if the competing
// sign-up committed between the check and the insert.
type racyUsersManager struct {
	*fakeRepoManager
}

type racyUsers struct{ memUsers }

func (racyUsers) Exists(context.Context, string) (bool, error) { return false, nil }

func (m *racyUsersManager) Users(dbx.DBTX) users.Repository {
	return racyUsers{memUsers{m.s}}
}

// --- fixture ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	db          *sql.DB
	mock        sqlmock.Sqlmock
	store       *memStore
	clock       *fakeClock
	issuer      *auth.Issuer
	sessions    *SessionService
	invitations *InvitationService
}

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 24 * time.Hour
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	issuer := auth.NewIssuer(auth.IssuerConfig{
		Secret:     []byte("test-secret"),
		AccessTTL:  testAccessTTL,
		RefreshTTL: testRefreshTTL,
	}).WithClock(clock.Now)

	store := newMemStore()
	rm := &fakeRepoManager{s: store}

	inv := NewInvitationService(db, rm, time.Hour, "https://gatekeeper.test/sign-up", metrics.Nop{}, logging.Nop{})
	inv.now = clock.Now

	ss := NewSessionService(db, rm, issuer, auth.NewPasswordHasher(bcrypt.MinCost), inv, metrics.Nop{}, logging.Nop{})
	ss.now = clock.Now

	return &fixture{
		db:          db,
		mock:        mock,
		store:       store,
		clock:       clock,
		issuer:      issuer,
		sessions:    ss,
		invitations: inv,
	}
}

// addKey stores a registration key expiring ttl from the fixture clock.
func (f *fixture) addKey(key string, ttl time.Duration) {
	f.store.keys[key] = &models.RegistrationKey{Key: key, CreatorUserID: "admin", ExpiresAt: f.clock.Now().Add(ttl)}
}

func signUpReq(user, key, device string) models.SignUpRequest {
	return models.SignUpRequest{
		UserName:        user,
		Password:        "correcthorse",
		PasswordConfirm: "correcthorse",
		RegistrationKey: key,
		DeviceKey:       device,
	}
}

// signUp runs a sign-up expected to commit.
func (f *fixture) signUp(t *testing.T, user, key, device string) *models.TokenPair {
	t.Helper()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	pair, err := f.sessions.SignUp(context.Background(), signUpReq(user, key, device))
	if err != nil {
		t.Fatalf("SignUp(%s) error: %v", user, err)
	}
	return pair
}
