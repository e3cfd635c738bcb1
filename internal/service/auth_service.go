package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/qasim12343/MarketPlace-sub002/internal/auth"
	"github.com/qasim12343/MarketPlace-sub002/internal/config"
	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/observability"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository"
	"github.com/qasim12343/MarketPlace-sub002/internal/validation"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

// SessionManager issues, validates, refreshes and revokes sessions for both
// principal kinds. Owner and user flows share every code path; the kind is a
// parameter, never a branch in the token logic.
type SessionManager struct {
	owners     repository.OwnerRepository
	users      repository.UserRepository
	sessions   repository.SessionStore
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
}

// SessionDependencies encapsulates requirements for the session manager.
type SessionDependencies struct {
	OwnerRepo    repository.OwnerRepository
	UserRepo     repository.UserRepository
	SessionStore repository.SessionStore
	// TokenManager is built from the auth config when nil.
	TokenManager *auth.TokenManager
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewSessionManager builds the service.
func NewSessionManager(cfg config.AuthConfig, deps SessionDependencies) *SessionManager {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.Issuer, cfg.AccessTTL(), cfg.RefreshTTL())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		owners:     deps.OwnerRepo,
		users:      deps.UserRepo,
		sessions:   deps.SessionStore,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
		metrics:    deps.Metrics,
		tracer:     observability.Tracer("avina/service/session"),
	}
}

// account is the kind-independent view of an owner or user needed to log in.
type account struct {
	id           string
	passwordHash string
	status       domain.AccountStatus
}

// Login authenticates a principal of the given kind. Credentials of the other
// kind are rejected before any lookup.
func (s *SessionManager) Login(ctx context.Context, kind domain.SubjectKind, creds domain.Credentials) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionManager.Login", trace.WithAttributes(attribute.String("kind", string(kind))))
	defer span.End()

	if creds == nil || creds.Kind() != kind {
		return nil, apperrors.NewNotAuthorized("credentials do not belong to a " + string(kind) + " account")
	}

	phone := domain.NormalizePhone(creds.LoginPhone())
	if phone == "" || creds.Secret() == "" {
		details := map[string]any{}
		if phone == "" {
			details["phone"] = "is required"
		}
		if creds.Secret() == "" {
			details["password"] = "is required"
		}
		return nil, apperrors.NewValidationError("invalid input", details)
	}

	acct, err := s.lookupByPhone(ctx, kind, phone)
	if errors.Is(err, repository.ErrNotFound) {
		auth.CompareDecoy(creds.Secret(), s.bcryptCost)
		return nil, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if acct.status != domain.AccountStatusActive {
		return nil, apperrors.NewInvalidCredentials()
	}
	if err := auth.ComparePassword(acct.passwordHash, creds.Secret()); err != nil {
		s.logger.Info("login rejected", zap.String("kind", string(kind)), zap.String("subject_id", acct.id))
		return nil, apperrors.NewInvalidCredentials()
	}

	return s.issue(ctx, acct.id, kind, "issued")
}

// Register validates the profile, persists the new account and logs it in.
func (s *SessionManager) Register(ctx context.Context, kind domain.SubjectKind, profile domain.Profile) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionManager.Register", trace.WithAttributes(attribute.String("kind", string(kind))))
	defer span.End()

	if profile == nil || profile.Kind() != kind {
		return nil, apperrors.NewNotAuthorized("profile does not belong to a " + string(kind) + " account")
	}

	profile.Normalize()
	if err := validation.Struct(profile); err != nil {
		return nil, err
	}

	var (
		subjectID string
		err       error
	)
	switch p := profile.(type) {
	case *domain.OwnerProfile:
		subjectID, err = s.createOwner(ctx, p)
	case *domain.UserProfile:
		subjectID, err = s.createUser(ctx, p)
	default:
		return nil, apperrors.NewValidationError("unsupported profile", nil)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.NewDuplicateIdentity("an account with this phone or email already exists",
			map[string]any{"kind": string(kind)})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("account registered", zap.String("kind", string(kind)), zap.String("subject_id", subjectID))
	return s.issue(ctx, subjectID, kind, "issued")
}

// Refresh exchanges a live refresh token for a new token pair. The refresh
// record is consumed atomically, so a replayed refresh token fails with
// REVOKED_SESSION.
func (s *SessionManager) Refresh(ctx context.Context, kind domain.SubjectKind, refreshToken string) (*domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionManager.Refresh", trace.WithAttributes(attribute.String("kind", string(kind))))
	defer span.End()

	claims, err := s.tokens.ParseToken(strings.TrimSpace(refreshToken), auth.TokenTypeRefresh)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, apperrors.NewExpiredRefreshToken()
	}
	if err != nil {
		return nil, apperrors.NewInvalidToken("invalid refresh token")
	}
	if claims.Kind != kind {
		return nil, apperrors.NewNotAuthorized(string(kind) + " refresh token required")
	}

	record, err := s.sessions.ConsumeRefresh(ctx, claims.PairID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewRevokedSession()
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if record.TokenID != claims.TokenID() || record.SubjectID != claims.SubjectID() {
		return nil, apperrors.NewRevokedSession()
	}
	if err := s.requireActive(ctx, kind, claims.SubjectID()); err != nil {
		return nil, err
	}

	return s.issue(ctx, claims.SubjectID(), kind, "refreshed")
}

// GetCurrentSession resolves the profile behind an access token of the given kind.
func (s *SessionManager) GetCurrentSession(ctx context.Context, kind domain.SubjectKind, accessToken string) (*domain.SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "SessionManager.GetCurrentSession")
	defer span.End()

	principal, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if principal.Kind != kind {
		return nil, apperrors.NewNotAuthorized(string(kind) + " session required")
	}

	info := &domain.SessionInfo{
		SubjectID: principal.SubjectID,
		Kind:      principal.Kind,
		IssuedAt:  principal.IssuedAt,
		ExpiresAt: principal.ExpiresAt,
	}
	switch kind {
	case domain.SubjectKindOwner:
		owner, err := s.owners.GetByID(ctx, principal.SubjectID)
		if err != nil {
			return nil, s.profileError(err)
		}
		storeName := owner.StoreName
		info.FirstName, info.LastName = owner.FirstName, owner.LastName
		info.Email, info.Phone = owner.Email, owner.Phone
		info.StoreName = &storeName
	case domain.SubjectKindUser:
		user, err := s.users.GetByID(ctx, principal.SubjectID)
		if err != nil {
			return nil, s.profileError(err)
		}
		info.FirstName, info.LastName = user.FirstName, user.LastName
		info.Email, info.Phone = user.Email, user.Phone
	}
	return info, nil
}

// Logout revokes the access token and its paired refresh token. Only the
// first of several concurrent logouts with the same token succeeds.
func (s *SessionManager) Logout(ctx context.Context, kind domain.SubjectKind, accessToken string) error {
	ctx, span := s.tracer.Start(ctx, "SessionManager.Logout")
	defer span.End()

	claims, err := s.tokens.ParseToken(strings.TrimSpace(accessToken), auth.TokenTypeAccess)
	if err != nil {
		return apperrors.NewInvalidToken("invalid access token")
	}
	if claims.Kind != kind {
		return apperrors.NewNotAuthorized(string(kind) + " session required")
	}

	if err := s.sessions.RevokeAccess(ctx, claims.TokenID()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewInvalidToken("session already ended")
		}
		return apperrors.NewInternalError(err)
	}
	if err := s.sessions.DeleteRefresh(ctx, claims.PairID); err != nil {
		s.logger.Warn("failed to delete paired refresh token", zap.String("pair_id", claims.PairID), zap.Error(err))
	}

	s.metrics.RecordSession(string(kind), "revoked")
	s.logger.Info("session revoked", zap.String("kind", string(kind)), zap.String("subject_id", claims.SubjectID()))
	return nil
}

// Authenticate implements auth.Authenticator. The token must carry a valid
// signature and expiry, still have a live record in the session store, and
// belong to an account that is still active. Sessions of a deactivated or
// banned account are revoked on first use.
func (s *SessionManager) Authenticate(ctx context.Context, accessToken string) (*auth.Principal, error) {
	claims, err := s.tokens.ParseToken(strings.TrimSpace(accessToken), auth.TokenTypeAccess)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, apperrors.NewExpiredToken()
	}
	if err != nil {
		return nil, apperrors.NewInvalidToken("invalid access token")
	}

	record, err := s.sessions.GetAccess(ctx, claims.TokenID())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInvalidToken("session is no longer active")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if record.SubjectID != claims.SubjectID() || record.Kind != claims.Kind {
		return nil, apperrors.NewInvalidToken("session does not match token")
	}
	if err := s.requireActive(ctx, claims.Kind, claims.SubjectID()); err != nil {
		if apperrors.Is(err, apperrors.CodeRevokedSession) {
			s.revokePair(ctx, claims.TokenID(), claims.PairID)
		}
		return nil, err
	}

	principal := &auth.Principal{
		SubjectID: claims.SubjectID(),
		Kind:      claims.Kind,
		TokenID:   claims.TokenID(),
		PairID:    claims.PairID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	return principal, nil
}

// issue mints an access/refresh pair sharing one pair id and records both.
func (s *SessionManager) issue(ctx context.Context, subjectID string, kind domain.SubjectKind, event string) (*domain.Session, error) {
	pairID := uuid.NewString()

	access, accessClaims, err := s.tokens.GenerateToken(subjectID, kind, auth.TokenTypeAccess, pairID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, refreshClaims, err := s.tokens.GenerateToken(subjectID, kind, auth.TokenTypeRefresh, pairID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.tokens.Now()
	for _, save := range []struct {
		claims *auth.Claims
		store  func(context.Context, domain.SessionRecord, time.Duration) error
	}{
		{accessClaims, s.sessions.SaveAccess},
		{refreshClaims, s.sessions.SaveRefresh},
	} {
		record := domain.SessionRecord{
			TokenID:   save.claims.TokenID(),
			PairID:    pairID,
			SubjectID: subjectID,
			Kind:      kind,
			IssuedAt:  save.claims.IssuedAt.Time,
			ExpiresAt: save.claims.ExpiresAt.Time,
		}
		if err := save.store(ctx, record, record.ExpiresAt.Sub(now)); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.metrics.RecordSession(string(kind), event)
	s.logger.Info("session "+event,
		zap.String("kind", string(kind)),
		zap.String("subject_id", subjectID),
		zap.String("pair_id", pairID),
	)

	return &domain.Session{
		SubjectID:        subjectID,
		Kind:             kind,
		AccessToken:      access,
		RefreshToken:     refresh,
		IssuedAt:         accessClaims.IssuedAt.Time,
		ExpiresAt:        accessClaims.ExpiresAt.Time,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

func (s *SessionManager) lookupByPhone(ctx context.Context, kind domain.SubjectKind, phone string) (*account, error) {
	switch kind {
	case domain.SubjectKindOwner:
		owner, err := s.owners.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		return &account{id: owner.ID, passwordHash: owner.PasswordHash, status: owner.Status}, nil
	case domain.SubjectKindUser:
		user, err := s.users.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		return &account{id: user.ID, passwordHash: user.PasswordHash, status: user.Status}, nil
	default:
		return nil, repository.ErrNotFound
	}
}

// requireActive reports REVOKED_SESSION for accounts that are no longer active.
func (s *SessionManager) requireActive(ctx context.Context, kind domain.SubjectKind, subjectID string) error {
	var status domain.AccountStatus
	switch kind {
	case domain.SubjectKindOwner:
		owner, err := s.owners.GetByID(ctx, subjectID)
		if err != nil {
			return s.profileError(err)
		}
		status = owner.Status
	case domain.SubjectKindUser:
		user, err := s.users.GetByID(ctx, subjectID)
		if err != nil {
			return s.profileError(err)
		}
		status = user.Status
	default:
		return apperrors.NewInvalidToken("unknown subject kind")
	}
	if status != domain.AccountStatusActive {
		s.logger.Info("session rejected for inactive account",
			zap.String("kind", string(kind)),
			zap.String("subject_id", subjectID),
			zap.String("status", string(status)),
		)
		return apperrors.NewRevokedSession()
	}
	return nil
}

func (s *SessionManager) revokePair(ctx context.Context, tokenID, pairID string) {
	if err := s.sessions.RevokeAccess(ctx, tokenID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("failed to revoke access token", zap.String("pair_id", pairID), zap.Error(err))
	}
	if err := s.sessions.DeleteRefresh(ctx, pairID); err != nil {
		s.logger.Warn("failed to delete paired refresh token", zap.String("pair_id", pairID), zap.Error(err))
	}
}

func (s *SessionManager) createOwner(ctx context.Context, p *domain.OwnerProfile) (string, error) {
	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return "", err
	}
	owner := &domain.Owner{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Email:        p.Email,
		StoreName:    p.StoreName,
		City:         p.City,
		PasswordHash: hash,
		Status:       domain.AccountStatusActive,
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return "", err
	}
	return owner.ID, nil
}

func (s *SessionManager) createUser(ctx context.Context, p *domain.UserProfile) (string, error) {
	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return "", err
	}
	user := &domain.User{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Email:        p.Email,
		City:         p.City,
		PostCode:     p.PostCode,
		PasswordHash: hash,
		Status:       domain.AccountStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *SessionManager) profileError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewSessionNotFound()
	}
	return apperrors.NewInternalError(err)
}
