// internal/loans/service.go
package loans

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service defines the interface for the loan service.
type Service interface {
	BorrowBooks(ctx context.Context, userID uuid.UUID, bookIDs []uuid.UUID) ([]*Transaction, error)
	ReturnBook(ctx context.Context, transactionID, bookID uuid.UUID) error
	UserLoans(ctx context.Context, userID uuid.UUID) ([]*BorrowedBook, error)
	OverdueLoans(ctx context.Context, asOf time.Time) ([]*Transaction, error)
}
