package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	session Session
	err     error
}

func (s *stubService) SignUp(ctx context.Context, email, name, password string) (*User, error) {
	return nil, nil
}

func (s *stubService) SignIn(ctx context.Context, email, password string) (*User, string, error) {
	return nil, "", nil
}

func (s *stubService) Verify(token string) (Session, error) {
	return s.session, s.err
}

func TestRequireSessionInjectsSession(t *testing.T) {
	want := Session{UserID: uuid.New(), Email: "reader@example.com"}
	mw := RequireSession(&stubService{session: want})

	var got Session
	var ok bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRequireSessionRejectsMissingToken(t *testing.T) {
	mw := RequireSession(&stubService{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionRejectsInvalidToken(t *testing.T) {
	mw := RequireSession(&stubService{err: ErrInvalidToken})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFromContextWithoutSession(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}
