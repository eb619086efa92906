package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cloneoverflow/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Profile: models.Profile{
			Username: "test_user",
			Status:   "user",
		},
	}
}

func TestIssuePair(t *testing.T) {
	issuer := NewIssuer(Config{Secret: []byte("test-secret")})
	user := testUser()

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := issuer.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), access.UserID)
	require.Equal(t, "user", access.Status)

	refresh, err := issuer.Verify(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), refresh.UserID)
	require.Empty(t, refresh.Status)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer(Config{Secret: []byte("test-secret")})

	_, err := issuer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer(Config{Secret: []byte("test-secret")})
	other := NewIssuer(Config{Secret: []byte("other-secret")})

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Verify(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpiryBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer := NewIssuer(Config{
		Secret: []byte("test-secret"),
		Now:    func() time.Time { return clock },
	})

	access, err := issuer.IssueAccess(testUser())
	require.NoError(t, err)

	// One second before expiry still verifies.
	clock = now.Add(AccessTTL - time.Second)
	_, err = issuer.Verify(access)
	require.NoError(t, err)

	// Past expiry it does not.
	clock = now.Add(AccessTTL + time.Second)
	_, err = issuer.Verify(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer := NewIssuer(Config{
		Secret: []byte("test-secret"),
		Now:    func() time.Time { return clock },
	})

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	clock = now.Add(AccessTTL + time.Hour)
	_, err = issuer.Verify(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = issuer.Verify(pair.RefreshToken)
	require.NoError(t, err)

	clock = now.Add(RefreshTTL + time.Second)
	_, err = issuer.Verify(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
