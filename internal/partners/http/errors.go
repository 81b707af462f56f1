package http

import (
	"errors"
	"net/http"

	authdomain "github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/service"
	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
)

const msgPartnerRequired = "Access Denied: Partner Profile Required."

func toAppError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotPartner):
		return apperror.New(http.StatusForbidden, msgPartnerRequired, err).With("redirect", "/register-partner")
	case errors.Is(err, domain.ErrRoleUnavailable):
		return apperror.Unavailable("Partner verification is temporarily unavailable.", err)
	case errors.Is(err, catalogdomain.ErrProviderExists):
		return apperror.New(http.StatusConflict, "You already have a business profile.", err)
	case errors.Is(err, authdomain.ErrEmailExists):
		return apperror.New(http.StatusConflict, "This email is already registered.", err)
	case errors.Is(err, catalogdomain.ErrProviderNotFound):
		return apperror.New(http.StatusNotFound, "Provider not found", err)
	case errors.Is(err, service.ErrInvalidImage):
		return apperror.New(http.StatusBadRequest, "Please upload a JPEG or PNG image.", err)
	case errors.Is(err, bookingdomain.ErrOrderNotFound):
		return apperror.New(http.StatusNotFound, "Order not found", err)
	case errors.Is(err, bookingdomain.ErrOrderNotOwned):
		return apperror.New(http.StatusForbidden, "This order does not belong to your business.", err)
	case errors.Is(err, bookingdomain.ErrInvalidTransition):
		return apperror.New(http.StatusConflict, "Orders move from Paid to Accepted to Completed, one step at a time.", err)
	case errors.Is(err, bookingdomain.ErrInvalidStatus):
		return apperror.New(http.StatusBadRequest, "Unknown order status", err)
	default:
		return apperror.Internal(err)
	}
}
