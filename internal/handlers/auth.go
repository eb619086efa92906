package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/middleware"
	"github.com/cloneoverflow/backend/internal/mykafka"
	"github.com/cloneoverflow/backend/internal/service"
	"github.com/cloneoverflow/backend/internal/tokens"
	"github.com/cloneoverflow/backend/internal/transport"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *mykafka.Producer
}

func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) setTokenCookies(c echo.Context, access, refresh string) {
	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(tokens.AccessTTL)))
	if refresh != "" {
		c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(tokens.RefreshTTL)))
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.AuthLoginDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": result.User.ID,
	})

	return c.JSON(http.StatusOK, transport.AuthResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req transport.AuthSignupDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.Auth.Signup(c.Request().Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
		About:    req.About,
	})
	if err != nil {
		return err
	}

	h.setTokenCookies(c, result.AccessToken, result.RefreshToken)
	h.publish(c, map[string]any{
		"type":     "user_registered",
		"userID":   result.User.ID,
		"username": result.User.Profile.Username,
	})

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Refresh accepts the refresh token from the body or the cookie and
// returns a fresh access token. The refresh token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req transport.AuthRefreshDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie("refreshToken"); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	access, err := h.Auth.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, access, "")
	return c.JSON(http.StatusOK, transport.RefreshResponse{AccessToken: access})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.AuthChangePasswordDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Auth.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	user, err := h.Auth.GetMe(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
