package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// guardedMethods require a valid bearer access token.
var guardedMethods = map[string]bool{
	pb.AuthService_SignOut_FullMethodName:                true,
	pb.AuthService_CreateRegistrationLink_FullMethodName: true,
	pb.AuthService_SessionStatus_FullMethodName:          true,
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// accessTokenInterceptor is the access guard: it places the caller identity
// into ctx or rejects the call before the handler runs.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !guardedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	id, err := s.guard.Authenticate(firstMetadata(ctx, pb.AuthorizationMetadata))
	if err != nil {
		s.logger.Debug(ctx, "access denied", "method", info.FullMethod, "error", err)
		return nil, toStatus(err)
	}

	return handler(auth.WithIdentity(ctx, id), req)
}
