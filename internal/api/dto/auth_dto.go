package dto

import (
	"time"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

// LoginRequest payload for owner and user login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UserRegisterRequest payload for new buyers.
type UserRegisterRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	City      *string `json:"city"`
	PostCode  *string `json:"post_code"`
}

// Profile converts the request into the registration profile.
func (r UserRegisterRequest) Profile() *domain.UserProfile {
	return &domain.UserProfile{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Password:  r.Password,
		Email:     r.Email,
		City:      r.City,
		PostCode:  r.PostCode,
	}
}

// OwnerRegisterRequest payload for new store owners.
type OwnerRegisterRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	StoreName string  `json:"store_name"`
	City      string  `json:"city"`
}

// Profile converts the request into the registration profile.
func (r OwnerRegisterRequest) Profile() *domain.OwnerProfile {
	return &domain.OwnerProfile{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Password:  r.Password,
		Email:     r.Email,
		StoreName: r.StoreName,
		City:      r.City,
	}
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse standard response for login, registration and refresh.
type SessionResponse struct {
	SubjectID        string             `json:"subject_id"`
	Kind             domain.SubjectKind `json:"kind"`
	TokenType        string             `json:"token_type"`
	AccessToken      string             `json:"access_token"`
	RefreshToken     string             `json:"refresh_token"`
	IssuedAt         time.Time          `json:"issued_at"`
	ExpiresAt        time.Time          `json:"expires_at"`
	RefreshExpiresAt time.Time          `json:"refresh_expires_at"`
}

// NewSessionResponse maps a session.
func NewSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		SubjectID:        s.SubjectID,
		Kind:             s.Kind,
		TokenType:        "Bearer",
		AccessToken:      s.AccessToken,
		RefreshToken:     s.RefreshToken,
		IssuedAt:         s.IssuedAt,
		ExpiresAt:        s.ExpiresAt,
		RefreshExpiresAt: s.RefreshExpiresAt,
	}
}

// SessionInfoResponse answers "who is logged in".
type SessionInfoResponse struct {
	SubjectID   string             `json:"subject_id"`
	Kind        domain.SubjectKind `json:"kind"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	DisplayName string             `json:"display_name"`
	Initials    string             `json:"initials"`
	Email       *string            `json:"email"`
	Phone       string             `json:"phone"`
	StoreName   *string            `json:"store_name,omitempty"`
	IssuedAt    time.Time          `json:"issued_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// NewSessionInfoResponse maps session info.
func NewSessionInfoResponse(info *domain.SessionInfo) SessionInfoResponse {
	return SessionInfoResponse{
		SubjectID:   info.SubjectID,
		Kind:        info.Kind,
		FirstName:   info.FirstName,
		LastName:    info.LastName,
		DisplayName: info.DisplayName(),
		Initials:    info.Initials(),
		Email:       info.Email,
		Phone:       info.Phone,
		StoreName:   info.StoreName,
		IssuedAt:    info.IssuedAt,
		ExpiresAt:   info.ExpiresAt,
	}
}
