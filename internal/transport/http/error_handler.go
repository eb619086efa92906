package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/apperrors"
)

// statusByKind is the whole boundary translation: every service failure
// kind maps to exactly one status code.
var statusByKind = map[apperrors.Kind]int{
	apperrors.KindLogin:             http.StatusUnauthorized,
	apperrors.KindAlreadyRegistered: http.StatusBadRequest,
	apperrors.KindBadBody:           http.StatusBadRequest,
	apperrors.KindUnauthorized:      http.StatusUnauthorized,
	apperrors.KindForbidden:         http.StatusForbidden,
	apperrors.KindWrongPassword:     http.StatusBadRequest,
	apperrors.KindNoEntityWithID:    http.StatusNotFound,
}

// errorPayload is what clients render: a list of human-readable strings
// under "error".
type errorPayload struct {
	Error []string `json:"error"`
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status, ok := statusByKind[appErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		_ = c.JSON(status, errorPayload{Error: []string{appErr.Message}})
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			messages[i] = fmt.Sprintf("%s failed on '%s' validation", fe.Field(), fe.Tag())
		}
		_ = c.JSON(http.StatusBadRequest, errorPayload{Error: messages})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, errorPayload{Error: []string{fmt.Sprint(httpErr.Message)}})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, errorPayload{Error: []string{"Internal server error"}})
}
