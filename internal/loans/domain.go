// internal/loans/domain.go
package loans

import (
	"time"

	"bookhive/internal/catalog"

	"github.com/google/uuid"
)

const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
)

// LoanPeriodDays is how many calendar days a borrower may keep a book.
const LoanPeriodDays = 14

// Transaction is a loan record linking a user and a book.
type Transaction struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     string     `json:"status"`
}

// BorrowedBook joins an active transaction with its catalog entry.
type BorrowedBook struct {
	catalog.Book
	TransactionID uuid.UUID `json:"transaction_id"`
	BorrowedAt    time.Time `json:"borrowed_at"`
	DueAt         time.Time `json:"due_at"`
}

// dueAt computes the due date for a loan created at borrowedAt. The due date
// is stamped by this write path at commit time, never by callers.
func dueAt(borrowedAt time.Time) time.Time {
	return borrowedAt.AddDate(0, 0, LoanPeriodDays)
}
