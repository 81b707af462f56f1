package domain

import (
	"errors"
	"strings"
	"time"
)

const AnonymousName = "Anonymous User"

var (
	ErrEmptyComment   = errors.New("comment is required")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrNoPriorBooking = errors.New("no prior booking for this provider")
)

// Review is immutable once written. UserName is the reviewer's name at
// submission time.
type Review struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the submitted rating and comment.
func Validate(rating int, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// SnapshotName picks the name frozen into a review: the profile name, then
// the identity provider's display name, then AnonymousName.
func SnapshotName(profileName, displayName string) string {
	if n := strings.TrimSpace(profileName); n != "" {
		return n
	}
	if n := strings.TrimSpace(displayName); n != "" {
		return n
	}
	return AnonymousName
}
