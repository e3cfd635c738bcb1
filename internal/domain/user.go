package domain

import (
	"strings"
	"time"
	"unicode"
)

// AccountStatus represents lifecycle states shared by owners and users.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusBanned   AccountStatus = "banned"
)

// User is a buyer of the storefront.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        string
	Email        *string
	City         *string
	PostCode     *string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the registration payload for a buyer.
type UserProfile struct {
	FirstName string  `validate:"required,min=2,max=50"`
	LastName  string  `validate:"required,min=2,max=50"`
	Phone     string  `validate:"required,ir_mobile"`
	Password  string  `validate:"required,min=6,max=72"`
	Email     *string `validate:"omitempty,email"`
	City      *string `validate:"omitempty,max=50"`
	PostCode  *string `validate:"omitempty,len=10,numeric"`
}

// Kind implements Profile.
func (*UserProfile) Kind() SubjectKind { return SubjectKindUser }

// Normalize trims names and strips whitespace from the phone number.
func (p *UserProfile) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = NormalizePhone(p.Phone)
	p.Email = trimOptional(p.Email)
	p.City = trimOptional(p.City)
	p.PostCode = trimOptional(p.PostCode)
}

// NormalizePhone removes all whitespace, matching how the storefront forms submit numbers.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
