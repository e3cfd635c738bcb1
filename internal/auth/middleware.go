package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

const (
	principalKey   = "auth_principal"
	accessTokenKey = "auth_access_token"
	// AccessTokenCookie is read when no Authorization header is present.
	AccessTokenCookie = "access_token"
)

// Principal represents the authenticated caller.
type Principal struct {
	SubjectID string
	Kind      domain.SubjectKind
	TokenID   string
	PairID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsOwner reports whether the principal is a store owner.
func (p *Principal) IsOwner() bool {
	return p != nil && p.Kind == domain.SubjectKindOwner
}

// IsUser reports whether the principal is a buyer.
func (p *Principal) IsUser() bool {
	return p != nil && p.Kind == domain.SubjectKindUser
}

// Authenticator resolves a bearer access token into a live principal.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*Principal, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	sessions Authenticator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions Authenticator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := ExtractAccessToken(c)
	if err != nil {
		return err
	}

	principal, err := m.sessions.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	c.Locals(accessTokenKey, token)
	return c.Next()
}

// ExtractAccessToken reads the bearer credential from the Authorization header,
// falling back to the access_token cookie.
func ExtractAccessToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
			return cookie, nil
		}
		return "", apperrors.NewInvalidToken("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewInvalidToken("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// AccessTokenFromContext returns the raw token the request authenticated with.
func AccessTokenFromContext(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(accessTokenKey).(string)
	return token, ok && token != ""
}
