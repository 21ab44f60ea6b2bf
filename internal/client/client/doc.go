// Package client is the gRPC side of the Gatekeeper CLI.
//
// GRPCClient keeps the current token pair in memory. The access token is
// attached to guarded calls as "authorization: Bearer <token>"; the refresh
// token only ever travels in the refresh_token metadata of RenewTokens and
// comes back in the refresh_token response header of every credential call.
//
// When a guarded call is rejected with codes.Unauthenticated and a refresh
// token is held, the client renews the pair once and repeats the call. The
// server never renews on its own.
package client
