package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/hash"
	"github.com/cloneoverflow/backend/internal/logging"
	"github.com/cloneoverflow/backend/internal/models"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
	"github.com/cloneoverflow/backend/internal/tokens"
)

// AuthService holds no cross-request state; everything lives in the store.
type AuthService struct {
	Users     *repo.UserRepo
	Issuer    *tokens.Issuer
	Sanitizer *security.Sanitizer
}

type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Username string
	About    string
}

// Login collapses unknown-email and bad-password into the same error so a
// caller cannot tell which field was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "credentials mismatch")
		return nil, apperrors.NewLogin()
	}

	pair, err := s.Issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Signup reports a username conflict before an email conflict, because
// "Username already exists" is the more actionable message. The store's
// uniqueness constraints back the pre-check against concurrent signups.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	existing, err := s.Users.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Profile.Username == in.Username {
			return nil, apperrors.NewBadBody("Username already exists")
		}
		return nil, apperrors.NewAlreadyRegistered()
	}

	passwordHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: passwordHash,
		Profile: models.Profile{
			Name:     in.Name,
			Username: in.Username,
			About:    s.Sanitizer.RichText(in.About),
			Status:   "user",
		},
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race between pre-check and insert. Re-probe to
			// keep the same conflict priority as the pre-check.
			if taken, probeErr := s.Users.FindByUsername(ctx, in.Username); probeErr == nil && taken != nil {
				return nil, apperrors.NewBadBody("Username already exists")
			}
			return nil, apperrors.NewAlreadyRegistered()
		}
		return nil, err
	}

	l.Info("user registered", "user_id", user.ID)

	pair, err := s.Issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// RefreshToken mints a new access token from a valid refresh token. The
// refresh token itself is not rotated. An empty token means "not
// authenticated", anything rejected after that means "forbidden".
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.NewUnauthorized()
	}

	claims, err := s.Issuer.Verify(refreshToken)
	if err != nil {
		return "", apperrors.NewForbidden()
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", apperrors.NewForbidden()
	}

	// Re-fetch so the new access token carries the current status.
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.NewForbidden()
	}

	access, err := s.Issuer.IssueAccess(user)
	if err != nil {
		return "", err
	}
	return access, nil
}

// ChangePassword does not re-issue tokens; an outstanding access token
// stays valid until its own expiry.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewWrongPassword()
		}
		return err
	}
	if !hash.CheckPassword(user.PasswordHash, oldPassword) {
		return apperrors.NewWrongPassword()
	}

	passwordHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, passwordHash)
}

// GetMe is a read-through to the store; store errors surface as-is.
func (s *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.Users.FindByID(ctx, userID)
}
