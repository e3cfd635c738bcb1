package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qasim12343/MarketPlace-sub002/internal/api/dto"
	"github.com/qasim12343/MarketPlace-sub002/internal/auth"
	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/service"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

// SessionHandler serves the session endpoints of one principal kind.
type SessionHandler struct {
	sessions *service.SessionManager
	kind     domain.SubjectKind
	secure   bool
}

// NewSessionHandler constructs a handler bound to kind. secure marks the
// access cookie as HTTPS-only.
func NewSessionHandler(sessions *service.SessionManager, kind domain.SubjectKind, secure bool) *SessionHandler {
	return &SessionHandler{sessions: sessions, kind: kind, secure: secure}
}

// Login authenticates phone and password.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var creds domain.Credentials = domain.UserCredentials{Phone: req.Phone, Password: req.Password}
	if h.kind == domain.SubjectKindOwner {
		creds = domain.OwnerCredentials{Phone: req.Phone, Password: req.Password}
	}

	session, err := h.sessions.Login(c.UserContext(), h.kind, creds)
	if err != nil {
		return err
	}
	h.setAccessCookie(c, session)
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Register creates the account and logs it in.
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var profile domain.Profile
	switch h.kind {
	case domain.SubjectKindOwner:
		var req dto.OwnerRegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		profile = req.Profile()
	default:
		var req dto.UserRegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		profile = req.Profile()
	}

	session, err := h.sessions.Register(c.UserContext(), h.kind, profile)
	if err != nil {
		return err
	}
	h.setAccessCookie(c, session)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Session reports who is logged in.
func (h *SessionHandler) Session(c *fiber.Ctx) error {
	token, err := auth.ExtractAccessToken(c)
	if err != nil {
		return err
	}
	info, err := h.sessions.GetCurrentSession(c.UserContext(), h.kind, token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionInfoResponse(info)})
}

// Logout revokes the presented access token and its refresh partner.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	token, err := auth.ExtractAccessToken(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.UserContext(), h.kind, token); err != nil {
		return err
	}
	c.ClearCookie(auth.AccessTokenCookie)
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Refresh rotates the token pair.
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token is required", map[string]any{"refresh_token": "required"})
	}

	session, err := h.sessions.Refresh(c.UserContext(), h.kind, req.RefreshToken)
	if err != nil {
		return err
	}
	h.setAccessCookie(c, session)
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

func (h *SessionHandler) setAccessCookie(c *fiber.Ctx, session *domain.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    session.AccessToken,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
