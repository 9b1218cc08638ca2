package domain

import (
	"strings"
	"time"
)

// Role classifies a user into the application area they land in after login.
type Role string

const (
	RoleUser           Role = "user"
	RoleAdmin          Role = "admin"
	RoleStaff          Role = "staff"
	RoleStaffWarehouse Role = "staff_warehouse"
	RoleStaffShipping  Role = "staff_shipping"
)

// validRoles is the closed set; unknown values are rejected at write time.
var validRoles = map[Role]struct{}{
	RoleUser:           {},
	RoleAdmin:          {},
	RoleStaff:          {},
	RoleStaffWarehouse: {},
	RoleStaffShipping:  {},
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, ok := validRoles[r]
	return ok
}

// User models an account that can authenticate with a local password, an
// external identity, or both after linking.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ExternalID   string    `json:"external_id,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         Role      `json:"role"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAuthMethod reports whether the record carries at least one way to
// authenticate. Records without one are rejected at the create boundary.
func (u *User) HasAuthMethod() bool {
	return u.PasswordHash != "" || u.ExternalID != ""
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UsernameFromEmail derives a handle from the local part of an email address.
func UsernameFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return email[:at]
}
