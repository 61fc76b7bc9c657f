// internal/identity/service.go
package identity

import "context"

// Service defines the interface for the identity service.
type Service interface {
	SignUp(ctx context.Context, email, name, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, string, error)
	Verify(token string) (Session, error)
}
