// Package grpc exposes the session and invitation managers as
// gatekeeper.v1.AuthService.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"google.golang.org/grpc"
)

// SessionManager is the part of services.SessionService the transport uses.
type SessionManager interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.TokenPair, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.TokenPair, error)
	RenewTokens(ctx context.Context, refreshToken, deviceKey string) (*models.TokenPair, error)
	SignOut(ctx context.Context, userID, deviceKey string) error
	SessionStatus(ctx context.Context, userID, deviceKey string) (models.SessionStatus, error)
}

// InvitationManager is the part of services.InvitationService the transport uses.
type InvitationManager interface {
	CreateRegistrationLink(ctx context.Context, creatorUserID string) (string, error)
	ValidateRegistrationKey(ctx context.Context, key string) error
}

type GRPCServer struct {
	address     string
	sessions    SessionManager
	invitations InvitationManager
	guard       *auth.Guard
	logger      logging.Logger
}

var _ pb.AuthServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, sm SessionManager, im InvitationManager, guard *auth.Guard) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		sessions:    sm,
		invitations: im,
		guard:       guard,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	pb.RegisterAuthServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
