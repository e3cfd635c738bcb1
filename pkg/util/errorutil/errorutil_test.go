package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
		assert.Equal(t, "", CodeOf(nil))
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("advance order: %w", NewInvalidTransition("delivered", "cancelled"))

		de := ToDomainError(err)
		assert.Equal(t, CodeInvalidTransition, de.Code)
		assert.Equal(t, http.StatusConflict, de.HTTPStatus)
		assert.Equal(t, "delivered", de.Details["from"])
		assert.True(t, Is(err, CodeInvalidTransition))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		de := ToDomainError(cause)

		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.ErrorIs(t, de, cause)
	})
}

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{"credentials", NewInvalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized},
		{"duplicate", NewDuplicateIdentity("taken", nil), CodeDuplicateIdentity, http.StatusConflict},
		{"invalid token", NewInvalidToken("nope"), CodeInvalidToken, http.StatusUnauthorized},
		{"expired token", NewExpiredToken(), CodeExpiredToken, http.StatusUnauthorized},
		{"expired refresh", NewExpiredRefreshToken(), CodeExpiredRefreshToken, http.StatusUnauthorized},
		{"revoked", NewRevokedSession(), CodeRevokedSession, http.StatusUnauthorized},
		{"session missing", NewSessionNotFound(), CodeSessionNotFound, http.StatusUnauthorized},
		{"not authorized", NewNotAuthorized("no"), CodeNotAuthorized, http.StatusForbidden},
		{"order missing", NewOrderNotFound("o-1"), CodeOrderNotFound, http.StatusNotFound},
		{"rate limited", NewRateLimited(), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
}
