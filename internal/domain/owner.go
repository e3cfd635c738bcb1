package domain

import (
	"strings"
	"time"
)

// Owner is a store owner (seller) who fulfils orders.
type Owner struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        string
	Email        *string
	StoreName    string
	City         string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerProfile is the registration payload for a store owner.
type OwnerProfile struct {
	FirstName string  `validate:"required,min=2,max=50"`
	LastName  string  `validate:"required,min=2,max=50"`
	Phone     string  `validate:"required,ir_mobile"`
	Password  string  `validate:"required,min=6,max=72"`
	Email     *string `validate:"omitempty,email"`
	StoreName string  `validate:"required,min=2,max=100"`
	City      string  `validate:"required,max=50"`
}

// Kind implements Profile.
func (*OwnerProfile) Kind() SubjectKind { return SubjectKindOwner }

// Normalize trims names and strips whitespace from the phone number.
func (p *OwnerProfile) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = NormalizePhone(p.Phone)
	p.Email = trimOptional(p.Email)
	p.StoreName = strings.TrimSpace(p.StoreName)
	p.City = strings.TrimSpace(p.City)
}
