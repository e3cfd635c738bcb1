package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

type stubAuthenticator map[string]*Principal

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, apperrors.NewInvalidToken("unknown token")
}

func newTestApp(guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(stubAuthenticator{
		"owner-token": {SubjectID: "o-1", Kind: domain.SubjectKindOwner},
		"user-token":  {SubjectID: "u-1", Kind: domain.SubjectKindUser},
	})
	app.Get("/whoami", mw.Handle, guard, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		token, _ := AccessTokenFromContext(c)
		return c.SendString(p.SubjectID + "|" + token)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header, cookie string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp(RequireAnyKind())

	t.Run("bearer header", func(t *testing.T) {
		status, body := doRequest(t, app, "Bearer user-token", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "u-1|user-token", body)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		status, body := doRequest(t, app, "", "owner-token")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "o-1|owner-token", body)
	})

	t.Run("missing header", func(t *testing.T) {
		status, body := doRequest(t, app, "", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, apperrors.CodeInvalidToken, body)
	})

	t.Run("malformed header", func(t *testing.T) {
		status, _ := doRequest(t, app, "Basic user:pass", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("unknown token", func(t *testing.T) {
		status, body := doRequest(t, app, "Bearer forged", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, apperrors.CodeInvalidToken, body)
	})
}

func TestRequireKind(t *testing.T) {
	t.Run("owner route rejects user token", func(t *testing.T) {
		app := newTestApp(RequireOwner())
		status, body := doRequest(t, app, "Bearer user-token", "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, apperrors.CodeNotAuthorized, body)
	})

	t.Run("user route rejects owner token", func(t *testing.T) {
		app := newTestApp(RequireUser())
		status, body := doRequest(t, app, "Bearer owner-token", "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, apperrors.CodeNotAuthorized, body)
	})

	t.Run("matching kind passes", func(t *testing.T) {
		app := newTestApp(RequireOwner())
		status, _ := doRequest(t, app, "Bearer owner-token", "")
		assert.Equal(t, http.StatusOK, status)
	})
}
