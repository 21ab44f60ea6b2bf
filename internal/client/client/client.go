package client

import (
	"context"

	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
)

// Client is what the CLI needs from the server connection.
type Client interface {
	Close() error
	SignedIn() bool
	SignUp(ctx context.Context, userName, password, passwordConfirm, registrationKey string) error
	SignIn(ctx context.Context, userName, password string) error
	RenewTokens(ctx context.Context) error
	SignOut(ctx context.Context) error
	CreateRegistrationLink(ctx context.Context) (string, error)
	ValidateRegistrationKey(ctx context.Context, key string) error
	SessionStatus(ctx context.Context) (*pb.SessionStatusResponse, error)
	Ping(ctx context.Context) error
}
