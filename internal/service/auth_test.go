package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/tokens"
)

func TestLoginReturnsDecodableTokenPair(t *testing.T) {
	env := newTestEnv(t)
	signedUp := env.signup(t, "alice@example.com", "alice")

	result, err := env.Auth.Login(t.Context(), "alice@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, signedUp.User.ID, result.User.ID)

	access, err := env.Issuer.Verify(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID.String(), access.UserID)
	require.Equal(t, "user", access.Status)

	refresh, err := env.Issuer.Verify(result.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID.String(), refresh.UserID)
	require.Empty(t, refresh.Status)
}

func TestLoginCollapsesBothFailureModes(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice@example.com", "alice")

	// Unknown email and wrong password must be indistinguishable.
	_, err := env.Auth.Login(t.Context(), "nobody@example.com", "password")
	require.ErrorIs(t, err, apperrors.NewLogin())

	_, err = env.Auth.Login(t.Context(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.NewLogin())
}

func TestSignupThenLoginYieldsSameUser(t *testing.T) {
	env := newTestEnv(t)
	signedUp := env.signup(t, "bob@example.com", "bob")

	result, err := env.Auth.Login(t.Context(), "bob@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, signedUp.User.ID, result.User.ID)
	require.Equal(t, "bob", result.User.Profile.Username)
}

func TestSignupUsernameConflictWinsOverEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "carol@example.com", "carol")

	// Same username, different email: username message regardless.
	_, err := env.Auth.Signup(t.Context(), SignupInput{
		Email:    "other@example.com",
		Password: "password",
		Name:     "Other",
		Username: "carol",
	})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.KindBadBody, appErr.Kind)
	require.Equal(t, "Username already exists", appErr.Message)

	// Same email, different username: already registered.
	_, err = env.Auth.Signup(t.Context(), SignupInput{
		Email:    "carol@example.com",
		Password: "password",
		Name:     "Other",
		Username: "carol2",
	})
	require.ErrorIs(t, err, apperrors.NewAlreadyRegistered())
}

func TestSignupNeverStoresPlaintextPassword(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "dave@example.com", "dave")
	require.NotEmpty(t, result.User.PasswordHash)
	require.NotEqual(t, "password", result.User.PasswordHash)
}

func TestRefreshTokenEmptyIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Auth.RefreshToken(t.Context(), "")
	require.ErrorIs(t, err, apperrors.NewUnauthorized())
}

func TestRefreshTokenGarbageIsForbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Auth.RefreshToken(t.Context(), "garbage")
	require.ErrorIs(t, err, apperrors.NewForbidden())
}

func TestRefreshTokenExpiredIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "erin@example.com", "erin")

	*env.Clock = env.Clock.Add(tokens.RefreshTTL + time.Second)
	_, err := env.Auth.RefreshToken(t.Context(), result.RefreshToken)
	require.ErrorIs(t, err, apperrors.NewForbidden())
}

func TestRefreshTokenMintsAccessOnly(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "frank@example.com", "frank")

	// Move past the access token lifetime; refresh must still work.
	*env.Clock = env.Clock.Add(tokens.AccessTTL + time.Minute)

	access, err := env.Auth.RefreshToken(t.Context(), result.RefreshToken)
	require.NoError(t, err)

	claims, err := env.Issuer.Verify(access)
	require.NoError(t, err)
	require.Equal(t, result.User.ID.String(), claims.UserID)
	require.Equal(t, "user", claims.Status)
}

func TestRefreshTokenPicksUpStatusChange(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "grace@example.com", "grace")

	require.NoError(t, env.DB.Table("profiles").
		Where("user_id = ?", result.User.ID).
		Update("status", "admin").Error)

	access, err := env.Auth.RefreshToken(t.Context(), result.RefreshToken)
	require.NoError(t, err)

	claims, err := env.Issuer.Verify(access)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Status)
}

func TestChangePasswordWrongOldLeavesHashUntouched(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "heidi@example.com", "heidi")

	err := env.Auth.ChangePassword(t.Context(), result.User.ID, "wrong", "newpassword")
	require.ErrorIs(t, err, apperrors.NewWrongPassword())

	// Old password still logs in.
	_, err = env.Auth.Login(t.Context(), "heidi@example.com", "password")
	require.NoError(t, err)
}

func TestChangePasswordSuccess(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "ivan@example.com", "ivan")

	require.NoError(t, env.Auth.ChangePassword(t.Context(), result.User.ID, "password", "newpassword"))

	_, err := env.Auth.Login(t.Context(), "ivan@example.com", "password")
	require.ErrorIs(t, err, apperrors.NewLogin())

	_, err = env.Auth.Login(t.Context(), "ivan@example.com", "newpassword")
	require.NoError(t, err)
}

func TestGetMeReadsThrough(t *testing.T) {
	env := newTestEnv(t)
	result := env.signup(t, "judy@example.com", "judy")

	user, err := env.Auth.GetMe(t.Context(), result.User.ID)
	require.NoError(t, err)
	require.Equal(t, "judy", user.Profile.Username)
}
