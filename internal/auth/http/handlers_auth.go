package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth/service"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
)

// Signup creates an account and its profile
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	user, err := h.identity.Signup(c.Request.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login signs in with email and password
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	res, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, res)
}

// LoginFederated signs in with a federated provider credential
func (h *Handler) LoginFederated(c *gin.Context) {
	var req federatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}
	if req.IDToken == "" && req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token or access_token is required"})
		return
	}

	res, err := h.identity.LoginFederated(c.Request.Context(), req.ProviderID, req.IDToken, req.AccessToken)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, res)
}

// PartnerLogin signs in and requires a business profile
func (h *Handler) PartnerLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	res, role, err := h.identity.PartnerLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":           res.UID,
		"email":         res.Email,
		"id_token":      res.IDToken,
		"refresh_token": res.RefreshToken,
		"expires_in":    res.ExpiresIn,
		"provider_id":   role.ProviderID,
	})
}
