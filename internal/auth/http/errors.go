package http

import (
	"errors"
	"net/http"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	partnersdomain "github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
)

const (
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgFederatedFailed    = "Google Login failed. Try again."
	msgNotPartner         = "Access Denied: Your account is not registered as a Partner. Please create a business profile."
)

func toAppError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperror.New(http.StatusUnauthorized, msgInvalidCredentials, err)
	case errors.Is(err, domain.ErrFederatedLogin):
		return apperror.New(http.StatusUnauthorized, msgFederatedFailed, err)
	case errors.Is(err, domain.ErrEmailExists):
		return apperror.New(http.StatusConflict, "This email is already registered.", err)
	case errors.Is(err, domain.ErrUserNotFound):
		return apperror.New(http.StatusNotFound, "user not found", err)
	case errors.Is(err, partnersdomain.ErrNotPartner):
		return apperror.New(http.StatusForbidden, msgNotPartner, err).With("redirect", "/register-partner")
	case errors.Is(err, partnersdomain.ErrRoleUnavailable):
		return apperror.Unavailable("Partner verification is temporarily unavailable.", err)
	default:
		return apperror.Internal(err)
	}
}
