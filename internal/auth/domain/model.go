package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFederatedLogin     = errors.New("federated sign-in failed")
	ErrEmailExists        = errors.New("email already registered")
)

const (
	RoleCustomer = "customer"
	RolePartner  = "partner"

	// TransientName is shown for a signed-in principal with no profile row.
	TransientName = "New User"
)

// User is the profile row keyed by the Firebase UID.
type User struct {
	UID       string    `json:"uid" db:"uid"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Principal is the authenticated caller as decoded from the ID token.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// ProfileUpdate is a merge update: empty fields are left unchanged.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// Session is the snapshot returned by the session manager.
type Session struct {
	Principal    Principal `json:"principal"`
	User         User      `json:"user"`
	Transient    bool      `json:"transient"`
	Role         string    `json:"role"`
	ProviderID   string    `json:"provider_id,omitempty"`
	RoleDegraded bool      `json:"role_degraded,omitempty"`
}

// TransientUser synthesises an unpersisted profile for p.
func TransientUser(p Principal) User {
	name := p.DisplayName
	if name == "" {
		name = TransientName
	}
	return User{UID: p.UID, Name: name, Email: p.Email}
}

// SignInResult is returned by password and federated sign-in.
type SignInResult struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name,omitempty"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}
