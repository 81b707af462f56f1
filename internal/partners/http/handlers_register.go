package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/partners/service"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)
}

// bindBusiness binds JSON or multipart forms and reads the optional photo.
func bindBusiness(c *gin.Context, obj any) ([]byte, bool) {
	var err error
	if isMultipart(c) {
		err = c.ShouldBindWith(obj, binding.FormMultipart)
	} else {
		err = c.ShouldBindJSON(obj)
	}
	if err != nil {
		c.Error(validation.BindError(err))
		return nil, false
	}

	if !isMultipart(c) {
		return nil, true
	}
	image, err := readImage(c)
	if err != nil {
		c.Error(err)
		return nil, false
	}
	return image, true
}

// RegisterAccount creates an account together with its business profile
func (h *Handler) RegisterAccount(c *gin.Context) {
	var req registerRequest
	image, ok := bindBusiness(c, &req)
	if !ok {
		return
	}

	b := req.toBusiness()
	b.Image = image
	p, err := h.registration.Register(c.Request.Context(), service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Business: b,
	})
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"provider": p})
}

// RegisterExisting adds a business profile to the signed-in account
func (h *Handler) RegisterExisting(c *gin.Context) {
	var req businessRequest
	image, ok := bindBusiness(c, &req)
	if !ok {
		return
	}

	principal, _ := auth.PrincipalFrom(c)
	b := req.toBusiness()
	b.Image = image
	p, err := h.registration.RegisterExisting(c.Request.Context(), principal.UID, principal.Email, b)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"provider": p})
}
