package providers

import "context"

// TokenProvider supplies the bearer token of the signed-in user. It is
// consulted immediately before every authenticated request. An empty token
// with a nil error means no user is signed in.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
