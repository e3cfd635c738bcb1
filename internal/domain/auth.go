package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// SubjectKind differentiates the two principal families. Sessions of one kind
// never authorize calls scoped to the other.
type SubjectKind string

const (
	SubjectKindOwner SubjectKind = "owner"
	SubjectKindUser  SubjectKind = "user"
)

// Valid reports whether k is a known kind.
func (k SubjectKind) Valid() bool {
	return k == SubjectKindOwner || k == SubjectKindUser
}

// Credentials is implemented by the kind-specific login payloads.
type Credentials interface {
	Kind() SubjectKind
	LoginPhone() string
	Secret() string
}

// OwnerCredentials authenticates a store owner.
type OwnerCredentials struct {
	Phone    string
	Password string
}

func (OwnerCredentials) Kind() SubjectKind    { return SubjectKindOwner }
func (c OwnerCredentials) LoginPhone() string { return c.Phone }
func (c OwnerCredentials) Secret() string     { return c.Password }

// UserCredentials authenticates a buyer.
type UserCredentials struct {
	Phone    string
	Password string
}

func (UserCredentials) Kind() SubjectKind    { return SubjectKindUser }
func (c UserCredentials) LoginPhone() string { return c.Phone }
func (c UserCredentials) Secret() string     { return c.Password }

// Profile is implemented by the kind-specific registration payloads.
type Profile interface {
	Kind() SubjectKind
	Normalize()
}

// Session is the credential pair handed to a client after login, registration or refresh.
type Session struct {
	SubjectID        string
	Kind             SubjectKind
	AccessToken      string
	RefreshToken     string
	IssuedAt         time.Time
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
}

// SessionRecord is the server-side state kept per issued token id.
type SessionRecord struct {
	TokenID   string      `json:"token_id"`
	PairID    string      `json:"pair_id"`
	SubjectID string      `json:"subject_id"`
	Kind      SubjectKind `json:"kind"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// SessionInfo resolves "who is logged in" for the presentation layer.
type SessionInfo struct {
	SubjectID string
	Kind      SubjectKind
	FirstName string
	LastName  string
	Email     *string
	Phone     string
	StoreName *string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// DisplayName joins first and last name.
func (s SessionInfo) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Initials returns the first rune of the first and last name.
func (s SessionInfo) Initials() string {
	var b strings.Builder
	for _, part := range []string{s.FirstName, s.LastName} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
	}
	return b.String()
}
