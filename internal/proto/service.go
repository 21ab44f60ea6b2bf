package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "gatekeeper.v1.AuthService"

const (
	AuthService_SignUp_FullMethodName                   = "/gatekeeper.v1.AuthService/SignUp"
	AuthService_SignIn_FullMethodName                   = "/gatekeeper.v1.AuthService/SignIn"
	AuthService_RenewTokens_FullMethodName              = "/gatekeeper.v1.AuthService/RenewTokens"
	AuthService_SignOut_FullMethodName                  = "/gatekeeper.v1.AuthService/SignOut"
	AuthService_CreateRegistrationLink_FullMethodName   = "/gatekeeper.v1.AuthService/CreateRegistrationLink"
	AuthService_ValidateRegistrationLink_FullMethodName = "/gatekeeper.v1.AuthService/ValidateRegistrationLink"
	AuthService_SessionStatus_FullMethodName            = "/gatekeeper.v1.AuthService/SessionStatus"
	AuthService_Ping_FullMethodName                     = "/gatekeeper.v1.AuthService/Ping"
)

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	SignUp(context.Context, *SignUpRequest) (*TokenResponse, error)
	SignIn(context.Context, *SignInRequest) (*TokenResponse, error)
	RenewTokens(context.Context, *emptypb.Empty) (*TokenResponse, error)
	SignOut(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	CreateRegistrationLink(context.Context, *emptypb.Empty) (*CreateRegistrationLinkResponse, error)
	ValidateRegistrationLink(context.Context, *ValidateRegistrationLinkRequest) (*ValidateRegistrationLinkResponse, error)
	SessionStatus(context.Context, *emptypb.Empty) (*SessionStatusResponse, error)
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unary builds a method handler decoding In and dispatching to call.
func unary[In any, Out any](fullMethod string, call func(AuthServiceServer, context.Context, *In) (*Out, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(In)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*In))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary(AuthService_SignUp_FullMethodName, AuthServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unary(AuthService_SignIn_FullMethodName, AuthServiceServer.SignIn)},
		{MethodName: "RenewTokens", Handler: unary(AuthService_RenewTokens_FullMethodName, AuthServiceServer.RenewTokens)},
		{MethodName: "SignOut", Handler: unary(AuthService_SignOut_FullMethodName, AuthServiceServer.SignOut)},
		{MethodName: "CreateRegistrationLink", Handler: unary(AuthService_CreateRegistrationLink_FullMethodName, AuthServiceServer.CreateRegistrationLink)},
		{MethodName: "ValidateRegistrationLink", Handler: unary(AuthService_ValidateRegistrationLink_FullMethodName, AuthServiceServer.ValidateRegistrationLink)},
		{MethodName: "SessionStatus", Handler: unary(AuthService_SessionStatus_FullMethodName, AuthServiceServer.SessionStatus)},
		{MethodName: "Ping", Handler: unary(AuthService_Ping_FullMethodName, AuthServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gatekeeper/v1/auth.proto",
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	RenewTokens(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*TokenResponse, error)
	SignOut(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	CreateRegistrationLink(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*CreateRegistrationLinkResponse, error)
	ValidateRegistrationLink(ctx context.Context, in *ValidateRegistrationLinkRequest, opts ...grpc.CallOption) (*ValidateRegistrationLinkResponse, error)
	SessionStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SessionStatusResponse, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc}
}

func invoke[Out any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Out, error) {
	out := new(Out)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, AuthService_SignUp_FullMethodName, in, opts)
}

func (c *authServiceClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, AuthService_SignIn_FullMethodName, in, opts)
}

func (c *authServiceClient) RenewTokens(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, AuthService_RenewTokens_FullMethodName, in, opts)
}

func (c *authServiceClient) SignOut(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, AuthService_SignOut_FullMethodName, in, opts)
}

func (c *authServiceClient) CreateRegistrationLink(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*CreateRegistrationLinkResponse, error) {
	return invoke[CreateRegistrationLinkResponse](ctx, c.cc, AuthService_CreateRegistrationLink_FullMethodName, in, opts)
}

func (c *authServiceClient) ValidateRegistrationLink(ctx context.Context, in *ValidateRegistrationLinkRequest, opts ...grpc.CallOption) (*ValidateRegistrationLinkResponse, error) {
	return invoke[ValidateRegistrationLinkResponse](ctx, c.cc, AuthService_ValidateRegistrationLink_FullMethodName, in, opts)
}

func (c *authServiceClient) SessionStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SessionStatusResponse, error) {
	return invoke[SessionStatusResponse](ctx, c.cc, AuthService_SessionStatus_FullMethodName, in, opts)
}

func (c *authServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, AuthService_Ping_FullMethodName, in, opts)
}
