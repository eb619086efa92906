// Package tokens issues and verifies the two JWT kinds used by the API:
// short-lived access tokens carrying {userId, status} and longer-lived
// refresh tokens carrying {userId} only. Both are signed with the same
// process-wide secret; neither is persisted, expiry is the only
// invalidation mechanism.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cloneoverflow/backend/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload shape shared by both token kinds. A refresh token
// is simply a claims set without Status; there is no explicit kind tag in
// the payload, callers distinguish tokens by which endpoint presented them.
type Claims struct {
	UserID string `json:"userId"`
	Status string `json:"status,omitempty"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Config struct {
	Secret []byte
	// Now is used for expiry stamps and verification. Defaults to time.Now.
	Now func() time.Time
}

type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: cfg.Secret, now: now}
}

// Issue produces the access/refresh pair for a freshly authenticated user.
func (i *Issuer) Issue(user *models.User) (*Pair, error) {
	access, err := i.IssueAccess(user)
	if err != nil {
		return nil, err
	}

	refreshClaims := Claims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(i.now().Add(RefreshTTL)),
			IssuedAt:  jwt.NewNumericDate(i.now()),
		},
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints an access token alone, used by the refresh flow which
// does not rotate the refresh token.
func (i *Issuer) IssueAccess(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID.String(),
		Status: user.Profile.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(i.now().Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(i.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// Every failure collapses into ErrInvalidToken.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
