// internal/identity/domain.go
package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered library user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Session identifies the authenticated caller of a single request. It is
// carried in the request context by the auth middleware; nothing holds a
// process-wide current user.
type Session struct {
	UserID uuid.UUID
	Email  string
}
