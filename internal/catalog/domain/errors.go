package domain

import "errors"

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderExists   = errors.New("principal already owns a provider")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrOwnerAction      = errors.New("action not allowed on own listing")
	ErrProviderOffline  = errors.New("provider is offline")
	ErrNoPhone          = errors.New("provider has no contact number")
)
