// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Book is a single catalog entry.
type Book struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	CoverURL       string     `json:"cover_url,omitempty"`
	Available      bool       `json:"available"`
	LastBorrowedAt *time.Time `json:"last_borrowed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
