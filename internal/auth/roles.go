package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

// RequireKind rejects principals of any other kind with NOT_AUTHORIZED.
func RequireKind(kind domain.SubjectKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInvalidToken("authentication required")
		}
		if principal.Kind != kind {
			return apperrors.NewNotAuthorized(string(kind) + " session required")
		}
		return c.Next()
	}
}

// RequireOwner ensures a store owner is authenticated.
func RequireOwner() fiber.Handler {
	return RequireKind(domain.SubjectKindOwner)
}

// RequireUser ensures a buyer is authenticated.
func RequireUser() fiber.Handler {
	return RequireKind(domain.SubjectKindUser)
}

// RequireAnyKind ensures caller is authenticated (owner or user).
func RequireAnyKind() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewInvalidToken("authentication required")
		}
		return c.Next()
	}
}
