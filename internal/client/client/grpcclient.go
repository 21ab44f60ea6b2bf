package client

import (
	"context"
	"fmt"
	"sync"

	pb "github.com/dmitrijs2005/gatekeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// guardedMethods carry the access token and are retried after a renewal.
var guardedMethods = map[string]bool{
	pb.AuthService_SignOut_FullMethodName:                true,
	pb.AuthService_CreateRegistrationLink_FullMethodName: true,
	pb.AuthService_SessionStatus_FullMethodName:          true,
}

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	userAgent   string
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withMetadata(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	return withMetadata(ctx, pb.AuthorizationMetadata, "Bearer "+token)
}

func (s *GRPCClient) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

// accessTokenInterceptor attaches the access token to guarded calls and, on
// Unauthenticated, renews the pair once and repeats the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if !guardedMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated || refresh == "" {
		return err
	}

	if rerr := s.renew(ctx); rerr != nil {
		return err
	}

	access, _ = s.tokens()
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

func NewGatekeeperClient(endpointURL, userAgent string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, userAgent: userAgent}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(s.userAgent),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) SignedIn() bool {
	access, _ := s.tokens()
	return access != ""
}

// store keeps the access token of resp and the refresh token of header.
func (s *GRPCClient) store(resp *pb.TokenResponse, header metadata.MD) {
	refresh := ""
	if v := header.Get(pb.RefreshTokenMetadata); len(v) > 0 {
		refresh = v[0]
	}
	s.setTokens(resp.AccessToken, refresh)
}

func (s *GRPCClient) SignUp(ctx context.Context, userName, password, passwordConfirm, registrationKey string) error {
	var header metadata.MD
	resp, err := s.client.SignUp(ctx, &pb.SignUpRequest{
		Username:        userName,
		Password:        password,
		PasswordConfirm: passwordConfirm,
		RegistrationKey: registrationKey,
	}, grpc.Header(&header))
	if err != nil {
		return s.mapError(err)
	}
	s.store(resp, header)
	return nil
}

func (s *GRPCClient) SignIn(ctx context.Context, userName, password string) error {
	var header metadata.MD
	resp, err := s.client.SignIn(ctx, &pb.SignInRequest{Username: userName, Password: password}, grpc.Header(&header))
	if err != nil {
		return s.mapError(err)
	}
	s.store(resp, header)
	return nil
}

func (s *GRPCClient) renew(ctx context.Context) error {
	_, refresh := s.tokens()
	if refresh == "" {
		return ErrNotSignedIn
	}

	var header metadata.MD
	resp, err := s.client.RenewTokens(withMetadata(ctx, pb.RefreshTokenMetadata, refresh), &emptypb.Empty{}, grpc.Header(&header))
	if err != nil {
		return err
	}
	s.store(resp, header)
	return nil
}

// RenewTokens rotates the token pair using the held refresh token.
func (s *GRPCClient) RenewTokens(ctx context.Context) error {
	if err := s.renew(ctx); err != nil {
		return s.mapError(err)
	}
	return nil
}

// SignOut ends the server session of this device and forgets the tokens. The
// local tokens are dropped even if the server call fails.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	if !s.SignedIn() {
		return ErrNotSignedIn
	}
	_, err := s.client.SignOut(ctx, &emptypb.Empty{})
	s.setTokens("", "")
	return s.mapError(err)
}

func (s *GRPCClient) CreateRegistrationLink(ctx context.Context) (string, error) {
	if !s.SignedIn() {
		return "", ErrNotSignedIn
	}
	resp, err := s.client.CreateRegistrationLink(ctx, &emptypb.Empty{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.RegistrationLink, nil
}

func (s *GRPCClient) ValidateRegistrationKey(ctx context.Context, key string) error {
	_, err := s.client.ValidateRegistrationLink(ctx, &pb.ValidateRegistrationLinkRequest{RegistrationKey: key})
	return s.mapError(err)
}

func (s *GRPCClient) SessionStatus(ctx context.Context) (*pb.SessionStatusResponse, error) {
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	resp, err := s.client.SessionStatus(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// mapError keeps the server message next to a client-side kind.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
