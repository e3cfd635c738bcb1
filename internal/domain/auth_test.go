package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionInfoNames(t *testing.T) {
	info := SessionInfo{FirstName: " علی ", LastName: "رضایی"}
	assert.Equal(t, "علی رضایی", info.DisplayName())
	assert.Equal(t, "عر", info.Initials())

	assert.Equal(t, "", SessionInfo{}.Initials())
}

func TestCredentialKinds(t *testing.T) {
	var owner Credentials = OwnerCredentials{Phone: "09120000000", Password: "secret1"}
	var user Credentials = UserCredentials{Phone: "09120000001", Password: "secret2"}

	assert.Equal(t, SubjectKindOwner, owner.Kind())
	assert.Equal(t, SubjectKindUser, user.Kind())
	assert.Equal(t, "09120000001", user.LoginPhone())
	assert.Equal(t, "secret1", owner.Secret())
	assert.True(t, SubjectKindOwner.Valid())
	assert.False(t, SubjectKind("admin").Valid())
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "09123456789", NormalizePhone(" 0912 345 6789 "))

	p := UserProfile{FirstName: "  Sara ", Phone: "0912 345 6789", City: ptr("  ")}
	p.Normalize()
	assert.Equal(t, "Sara", p.FirstName)
	assert.Equal(t, "09123456789", p.Phone)
	assert.Nil(t, p.City)
}

func ptr(s string) *string { return &s }
