// internal/loans/implementation.go
package loans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNoBooks             = errors.New("no books requested")
	ErrBookUnavailable     = errors.New("book is not available")
	ErrBookNotFound        = errors.New("book not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotBorrowed         = errors.New("book is not in borrowed state")
)

// service implements the Service interface.
type service struct {
	db       *sql.DB
	tracer   trace.Tracer
	borrowed metric.Int64Counter
	returned metric.Int64Counter
}

// NewService creates a new loan service instance.
func NewService(db *sql.DB) Service {
	meter := otel.Meter("bookhive/loans")
	borrowed, _ := meter.Int64Counter("loans.borrowed")
	returned, _ := meter.Int64Counter("loans.returned")
	return &service{
		db:       db,
		tracer:   otel.Tracer("bookhive/loans"),
		borrowed: borrowed,
		returned: returned,
	}
}

// BorrowBooks creates one borrowed transaction per book and flips each book's
// availability, all in a single atomic unit. The availability precondition is
// re-verified inside that unit, so of two concurrent borrowers of the same
// book exactly one succeeds.
func (s *service) BorrowBooks(ctx context.Context, userID uuid.UUID, bookIDs []uuid.UUID) ([]*Transaction, error) {
	if len(bookIDs) == 0 {
		return nil, ErrNoBooks
	}

	ctx, span := s.tracer.Start(ctx, "loans.borrow",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.Int("book.count", len(bookIDs)),
		),
	)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	borrowedAt := time.Now().UTC()
	due := dueAt(borrowedAt)

	transactions := make([]*Transaction, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		// Guarded update: only fires when the book is currently available,
		// which keeps the precondition and the mutation in the same atomic
		// unit.
		res, err := tx.ExecContext(ctx, `
			UPDATE books
			SET available = FALSE, last_borrowed_at = $2
			WHERE id = $1 AND COALESCE(available, TRUE) = TRUE
		`, bookID, borrowedAt)
		if err != nil {
			return nil, fmt.Errorf("reserve book %s: %w", bookID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("reserve book %s: %w", bookID, err)
		}
		if affected == 0 {
			if err := bookExists(ctx, tx, bookID); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("book %s: %w", bookID, ErrBookUnavailable)
		}

		loan := &Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: borrowedAt,
			DueAt:      due,
			Status:     StatusBorrowed,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO borrow_transactions (id, user_id, book_id, borrowed_at, due_at, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, loan.ID, loan.UserID, loan.BookID, loan.BorrowedAt, loan.DueAt, loan.Status)
		if err != nil {
			// Unique violation on the one-active-loan-per-book index means a
			// concurrent borrower won the race.
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return nil, fmt.Errorf("book %s: %w", bookID, ErrBookUnavailable)
			}
			return nil, fmt.Errorf("insert loan for book %s: %w", bookID, err)
		}
		transactions = append(transactions, loan)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit borrow: %w", err)
	}

	s.borrowed.Add(ctx, int64(len(transactions)))
	span.SetAttributes(attribute.Bool("borrow.committed", true))
	return transactions, nil
}

// ReturnBook marks a transaction returned and restores the book's
// availability. Preconditions are expressed as guarded updates inside the
// same atomic unit as the mutation, so a second return of the same
// transaction fails without flipping availability back.
func (s *service) ReturnBook(ctx context.Context, transactionID, bookID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "loans.return",
		trace.WithAttributes(
			attribute.String("transaction.id", transactionID.String()),
			attribute.String("book.id", bookID.String()),
		),
	)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE borrow_transactions
		SET status = $2, returned_at = $3
		WHERE id = $1 AND status = $4
	`, transactionID, StatusReturned, time.Now().UTC(), StatusBorrowed)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", transactionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", transactionID, err)
	}
	if affected == 0 {
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM borrow_transactions WHERE id = $1
		`, transactionID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transaction %s: %w", transactionID, ErrTransactionNotFound)
		}
		if err != nil {
			return fmt.Errorf("load transaction %s: %w", transactionID, err)
		}
		return fmt.Errorf("transaction %s has status %q: %w", transactionID, status, ErrNotBorrowed)
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE books SET available = TRUE WHERE id = $1
	`, bookID)
	if err != nil {
		return fmt.Errorf("release book %s: %w", bookID, err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release book %s: %w", bookID, err)
	}
	if affected == 0 {
		return fmt.Errorf("book %s: %w", bookID, ErrBookNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit return: %w", err)
	}

	s.returned.Add(ctx, 1)
	return nil
}

// UserLoans lists a user's active loans sorted ascending by due date.
// Transactions referencing a missing book are dropped with a logged
// diagnostic; any query failure propagates to the caller so an empty result
// always means "no loans".
func (s *service) UserLoans(ctx context.Context, userID uuid.UUID) ([]*BorrowedBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.borrowed_at, t.due_at,
		       b.id, COALESCE(b.title, ''), COALESCE(b.author, ''),
		       COALESCE(b.cover_url, ''), b.last_borrowed_at
		FROM borrow_transactions t
		LEFT JOIN books b ON b.id = t.book_id
		WHERE t.user_id = $1 AND t.status = $2
		ORDER BY t.due_at ASC
	`, userID, StatusBorrowed)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	loans := []*BorrowedBook{}
	for rows.Next() {
		loan := &BorrowedBook{}
		var bookID uuid.NullUUID
		var lastBorrowed sql.NullTime
		err := rows.Scan(
			&loan.TransactionID,
			&loan.BorrowedAt,
			&loan.DueAt,
			&bookID,
			&loan.Title,
			&loan.Author,
			&loan.CoverURL,
			&lastBorrowed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		if !bookID.Valid {
			log.Printf("loans: transaction %s references a missing book, skipping", loan.TransactionID)
			continue
		}
		loan.Book.ID = bookID.UUID
		loan.Book.Available = false
		if lastBorrowed.Valid {
			t := lastBorrowed.Time
			loan.Book.LastBorrowedAt = &t
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}

	return loans, nil
}

// OverdueLoans lists active transactions whose due date has passed.
func (s *service) OverdueLoans(ctx context.Context, asOf time.Time) ([]*Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, book_id, borrowed_at, due_at, status
		FROM borrow_transactions
		WHERE status = $1 AND due_at < $2
		ORDER BY due_at ASC
	`, StatusBorrowed, asOf)
	if err != nil {
		return nil, fmt.Errorf("query overdue loans: %w", err)
	}
	defer rows.Close()

	var overdue []*Transaction
	for rows.Next() {
		loan := &Transaction{}
		err := rows.Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowedAt, &loan.DueAt, &loan.Status)
		if err != nil {
			return nil, fmt.Errorf("scan overdue loan: %w", err)
		}
		overdue = append(overdue, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overdue loans: %w", err)
	}

	return overdue, nil
}

func bookExists(ctx context.Context, tx *sql.Tx, bookID uuid.UUID) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = $1`, bookID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("book %s: %w", bookID, ErrBookNotFound)
	}
	if err != nil {
		return fmt.Errorf("check book %s: %w", bookID, err)
	}
	return nil
}
