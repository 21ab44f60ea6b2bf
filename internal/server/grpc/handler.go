package grpc

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

func deviceKey(ctx context.Context) string {
	return auth.DeviceKey(firstMetadata(ctx, common.UserAgentHeaderName))
}

func identity(ctx context.Context) (*models.Identity, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing access token")
	}
	return id, nil
}

// issue sends the refresh token as a response header and the access token in
// the body.
func (s *GRPCServer) issue(ctx context.Context, pair *models.TokenPair) (*pb.TokenResponse, error) {
	if err := grpc.SetHeader(ctx, metadata.Pairs(pb.RefreshTokenMetadata, pair.RefreshToken)); err != nil {
		s.logger.Error(ctx, "failed to set refresh token header", "error", err)
		return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return &pb.TokenResponse{AccessToken: pair.AccessToken}, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *pb.SignUpRequest) (*pb.TokenResponse, error) {
	pair, err := s.sessions.SignUp(ctx, models.SignUpRequest{
		UserName:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		RegistrationKey: req.RegistrationKey,
		DeviceKey:       deviceKey(ctx),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Signed up", "username", req.Username)
	return s.issue(ctx, pair)
}

func (s *GRPCServer) SignIn(ctx context.Context, req *pb.SignInRequest) (*pb.TokenResponse, error) {
	pair, err := s.sessions.SignIn(ctx, models.SignInRequest{
		UserName:  req.Username,
		Password:  req.Password,
		DeviceKey: deviceKey(ctx),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return s.issue(ctx, pair)
}

func (s *GRPCServer) RenewTokens(ctx context.Context, _ *emptypb.Empty) (*pb.TokenResponse, error) {
	pair, err := s.sessions.RenewTokens(ctx, firstMetadata(ctx, pb.RefreshTokenMetadata), deviceKey(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.issue(ctx, pair)
}

func (s *GRPCServer) SignOut(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SignOut(ctx, id.UserID, deviceKey(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CreateRegistrationLink(ctx context.Context, _ *emptypb.Empty) (*pb.CreateRegistrationLinkResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	link, err := s.invitations.CreateRegistrationLink(ctx, id.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.CreateRegistrationLinkResponse{RegistrationLink: link}, nil
}

func (s *GRPCServer) ValidateRegistrationLink(ctx context.Context, req *pb.ValidateRegistrationLinkRequest) (*pb.ValidateRegistrationLinkResponse, error) {
	if err := s.invitations.ValidateRegistrationKey(ctx, req.RegistrationKey); err != nil {
		return nil, toStatus(err)
	}
	return &pb.ValidateRegistrationLinkResponse{Message: "Registration key is valid"}, nil
}

func (s *GRPCServer) SessionStatus(ctx context.Context, _ *emptypb.Empty) (*pb.SessionStatusResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.sessions.SessionStatus(ctx, id.UserID, deviceKey(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.SessionStatusResponse{UserID: id.UserID, Username: id.UserName, Status: string(st)}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}
