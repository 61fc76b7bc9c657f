// internal/identity/implementation.go
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrRateLimited        = errors.New("too many attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// service implements the Service interface.
type service struct {
	db          *sql.DB
	secret      []byte
	tokenTTL    time.Duration
	rateLimiter *rate.Limiter
}

// NewService creates a new identity service instance.
func NewService(db *sql.DB, secret []byte, tokenTTL time.Duration) Service {
	return &service{
		db:          db,
		secret:      secret,
		tokenTTL:    tokenTTL,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 attempts per minute
	}
}

// SignUp creates a new user with salted credentials.
func (s *service) SignUp(ctx context.Context, email, name, password string) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.Name, passwordHash, salt, user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", email, ErrEmailTaken)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// SignIn verifies credentials and returns the user along with a signed
// session token.
func (s *service) SignIn(ctx context.Context, email, password string) (*User, string, error) {
	if !s.rateLimiter.Allow() {
		return nil, "", ErrRateLimited
	}

	user := &User{}
	var passwordHash, salt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, created_at, password_hash, salt
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &passwordHash, &salt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	ok, err := verifyPassword(password, salt, passwordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}
