// Package contact builds the external deep links shown on a provider page.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

var ErrNoPhone = errors.New("no contact number")

// Links are the deep links for one provider.
type Links struct {
	WhatsAppURL string `json:"whatsapp_url"`
	MapsURL     string `json:"maps_url"`
}

// Digits strips every non-digit from phone.
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// WhatsAppURL returns a wa.me link with the booking greeting prefilled.
func WhatsAppURL(phone, providerName, category string) (string, error) {
	digits := Digits(phone)
	if digits == "" {
		return "", ErrNoPhone
	}
	message := fmt.Sprintf("Hi %s, I need your %s service...", providerName, category)
	return "https://wa.me/" + digits + "?text=" + escape(message), nil
}

// MapsURL returns a Google Maps search for address within city. An empty
// address searches the city itself.
func MapsURL(address, city string) string {
	query := strings.TrimSpace(address)
	switch {
	case query == "":
		query = city
	case city != "":
		query += " " + city
	}
	return "https://www.google.com/maps/search/?api=1&query=" + escape(query)
}

// escape percent-encodes s for a query value, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
