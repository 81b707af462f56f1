package domain

import "errors"

var (
	ErrNotPartner         = errors.New("principal has no partner profile")
	ErrRoleUnavailable    = errors.New("role could not be resolved")
	ErrRegistrationFailed = errors.New("partner registration failed")
)

// Role is the resolved role claim of a principal.
type Role struct {
	IsPartner  bool   `json:"is_partner"`
	ProviderID string `json:"provider_id,omitempty"`
}
