package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

var (
	// ErrTokenExpired is returned for a well-signed token past its exp claim.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and wrong token types.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenType separates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= accessTTL {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source, used by tests to simulate expiry.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// Now returns the manager's current time.
func (tm *TokenManager) Now() time.Time {
	return tm.now()
}

// Claims describes JWT payload.
type Claims struct {
	Kind   domain.SubjectKind `json:"kind"`
	Type   TokenType          `json:"typ"`
	PairID string             `json:"pid"`
	jwt.RegisteredClaims
}

// SubjectID returns the principal identifier.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// TokenID returns the jti claim.
func (c *Claims) TokenID() string {
	return c.ID
}

// GenerateToken builds and signs a JWT of the given type for the subject.
// Access and refresh tokens minted together share a pair id.
func (tm *TokenManager) GenerateToken(subjectID string, kind domain.SubjectKind, typ TokenType, pairID string) (string, *Claims, error) {
	ttl := tm.accessTTL
	if typ == TokenTypeRefresh {
		ttl = tm.refreshTTL
	}
	issuedAt := tm.now().Truncate(time.Second)
	claims := &Claims{
		Kind:   kind,
		Type:   typ,
		PairID: pairID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tm.issuer,
			Subject:   subjectID,
			Audience:  jwt.ClaimStrings{string(kind)},
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// ParseToken validates signature, issuer, expiry and token type and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string, typ TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != typ || !claims.Kind.Valid() || claims.ID == "" || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
