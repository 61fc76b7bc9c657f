package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(ttl time.Duration) *service {
	return &service{secret: []byte("test-secret"), tokenTTL: ttl}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTokenService(time.Hour)
	user := &User{ID: uuid.New(), Email: "reader@example.com"}

	token, err := svc.issueToken(user)
	require.NoError(t, err)

	session, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, user.Email, session.Email)
}

func TestTokenExpired(t *testing.T) {
	svc := newTokenService(-time.Hour)
	token, err := svc.issueToken(&User{ID: uuid.New(), Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := newTokenService(time.Hour).issueToken(&User{ID: uuid.New()})
	require.NoError(t, err)

	other := &service{secret: []byte("different-secret"), tokenTTL: time.Hour}
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	_, err := newTokenService(time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
