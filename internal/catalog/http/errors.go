package http

import (
	"errors"
	"net/http"

	"github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
)

func toAppError(err error) error {
	switch {
	case errors.Is(err, domain.ErrProviderNotFound):
		return apperror.New(http.StatusNotFound, "Provider not found", err)
	case errors.Is(err, domain.ErrUnknownCategory):
		return apperror.New(http.StatusBadRequest, "Unknown category", err)
	case errors.Is(err, domain.ErrOwnerAction):
		return apperror.New(http.StatusForbidden, "You cannot contact your own listing.", err)
	case errors.Is(err, domain.ErrNoPhone):
		return apperror.New(http.StatusUnprocessableEntity, "Contact number not verified for this provider.", err)
	default:
		return apperror.Internal(err)
	}
}
