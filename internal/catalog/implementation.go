// internal/catalog/implementation.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("book not found")

// service implements the Service interface.
type service struct {
	db *sql.DB
}

// NewService creates a new catalog service instance.
func NewService(db *sql.DB) Service {
	return &service{db: db}
}

// AddBook creates a new entry in the catalog. New books start out available.
func (s *service) AddBook(ctx context.Context, title, author, coverURL string) (*Book, error) {
	book := &Book{
		ID:        uuid.New(),
		Title:     title,
		Author:    author,
		CoverURL:  coverURL,
		Available: true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, cover_url, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, book.ID, book.Title, book.Author, book.CoverURL, book.Available, book.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	return book, nil
}

// GetBook retrieves a book by its ID.
func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(title, ''), COALESCE(author, ''), COALESCE(cover_url, ''),
		       COALESCE(available, TRUE), last_borrowed_at, created_at
		FROM books
		WHERE id = $1
	`, id)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns the full catalog with missing fields normalized: empty
// strings for title/author/cover, availability defaulting to true.
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(title, ''), COALESCE(author, ''), COALESCE(cover_url, ''),
		       COALESCE(available, TRUE), last_borrowed_at, created_at
		FROM books
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row scanner) (*Book, error) {
	book := &Book{}
	var lastBorrowed sql.NullTime
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.CoverURL,
		&book.Available,
		&lastBorrowed,
		&book.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastBorrowed.Valid {
		t := lastBorrowed.Time
		book.LastBorrowedAt = &t
	}
	return book, nil
}
