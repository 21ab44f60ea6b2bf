package grpc

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

type fakeSessions struct {
	pair *models.TokenPair
	err  error

	status models.SessionStatus

	gotSignUp  models.SignUpRequest
	gotSignIn  models.SignInRequest
	gotRefresh string
	gotDevice  string
	gotUserID  string
}

func (f *fakeSessions) SignUp(_ context.Context, req models.SignUpRequest) (*models.TokenPair, error) {
	f.gotSignUp = req
	f.gotDevice = req.DeviceKey
	return f.pair, f.err
}

func (f *fakeSessions) SignIn(_ context.Context, req models.SignInRequest) (*models.TokenPair, error) {
	f.gotSignIn = req
	f.gotDevice = req.DeviceKey
	return f.pair, f.err
}

func (f *fakeSessions) RenewTokens(_ context.Context, refreshToken, deviceKey string) (*models.TokenPair, error) {
	f.gotRefresh, f.gotDevice = refreshToken, deviceKey
	return f.pair, f.err
}

func (f *fakeSessions) SignOut(_ context.Context, userID, deviceKey string) error {
	f.gotUserID, f.gotDevice = userID, deviceKey
	return f.err
}

func (f *fakeSessions) SessionStatus(_ context.Context, userID, deviceKey string) (models.SessionStatus, error) {
	f.gotUserID, f.gotDevice = userID, deviceKey
	return f.status, f.err
}

type fakeInvitations struct {
	link string
	err  error

	gotCreator string
	gotKey     string
}

func (f *fakeInvitations) CreateRegistrationLink(_ context.Context, creatorUserID string) (string, error) {
	f.gotCreator = creatorUserID
	return f.link, f.err
}

func (f *fakeInvitations) ValidateRegistrationKey(_ context.Context, key string) error {
	f.gotKey = key
	return f.err
}
