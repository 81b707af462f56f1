package domain

import (
	"strings"
	"time"
)

// Category is one of the fixed service categories.
type Category string

const (
	Electrician Category = "Electrician"
	Plumber     Category = "Plumber"
	Mechanic    Category = "Mechanic"
	Tutor       Category = "Tutor"
	Tailor      Category = "Tailor"

	// CategoryAll disables the category filter when searching.
	CategoryAll = "All"
)

// Categories in display order.
var Categories = []Category{Electrician, Plumber, Mechanic, Tutor, Tailor}

// IsValid reports whether c is one of Categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseFilter turns a category query parameter into a filter. An empty value
// or "All" yields the empty Category, meaning no filter.
func ParseFilter(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == CategoryAll {
		return "", nil
	}
	c := Category(raw)
	if !c.IsValid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

type ProviderStatus string

const (
	StatusOnline  ProviderStatus = "online"
	StatusOffline ProviderStatus = "offline"
)

// Toggle flips online and offline.
func (s ProviderStatus) Toggle() ProviderStatus {
	if s == StatusOnline {
		return StatusOffline
	}
	return StatusOnline
}

const DefaultRating = 5.0

// Provider is a partner's business profile.
type Provider struct {
	ID                string         `json:"id"`
	AdminUID          string         `json:"admin_uid"`
	AdminEmail        string         `json:"admin_email"`
	Name              string         `json:"name"`
	Phone             string         `json:"phone"`
	Category          Category       `json:"category"`
	SubCategory       string         `json:"sub_category"`
	Price             float64        `json:"price"`
	Address           string         `json:"address"`
	Image             string         `json:"image"`
	Rating            float64        `json:"rating"`
	Views             int64          `json:"views"`
	Status            ProviderStatus `json:"status"`
	IsVerifiedPartner bool           `json:"is_verified_partner"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// IsOwner reports whether uid owns the provider. An empty uid never does.
func (p *Provider) IsOwner(uid string) bool {
	return uid != "" && p.AdminUID == uid
}

func (p *Provider) IsOnline() bool {
	return p.Status != StatusOffline
}

// CanBook applies the booking guard for the caller uid.
func (p *Provider) CanBook(uid string) bool {
	return !p.IsOwner(uid) && p.IsOnline()
}

// EffectiveRating falls back to DefaultRating for an unset rating.
func (p *Provider) EffectiveRating() float64 {
	if p.Rating <= 0 {
		return DefaultRating
	}
	return p.Rating
}

// Matches is a case-insensitive substring match of term against name,
// category, sub-category and address.
func (p *Provider) Matches(term string) bool {
	needle := strings.ToLower(term)
	for _, field := range []string{p.Name, string(p.Category), p.SubCategory, p.Address} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Filter keeps the providers matching q, preserving order. Only the empty
// string returns providers unchanged; whitespace is matched literally.
func Filter(providers []Provider, q string) []Provider {
	if q == "" {
		return providers
	}
	out := make([]Provider, 0, len(providers))
	for i := range providers {
		if providers[i].Matches(q) {
			out = append(out, providers[i])
		}
	}
	return out
}

// ProviderDraft carries the business fields of a new provider.
type ProviderDraft struct {
	AdminUID    string
	AdminEmail  string
	Name        string
	Phone       string
	Category    Category
	SubCategory string
	Price       float64
	Address     string
	Image       string
}

// ProviderUpdate carries the editable settings fields.
type ProviderUpdate struct {
	Name        string
	Price       float64
	Category    Category
	SubCategory string
	Address     string
}
