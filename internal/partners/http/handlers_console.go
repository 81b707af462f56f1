package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetDashboard returns the provider, stats, orders and reviews
func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.console.Dashboard(c.Request.Context(), providerID(c))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, d)
}

// ListLeads returns the provider's orders
func (h *Handler) ListLeads(c *gin.Context) {
	orders, err := h.console.Leads(c.Request.Context(), providerID(c))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": orders, "count": len(orders)})
}

// UpdateLead moves an order to the next status
func (h *Handler) UpdateLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	to, err := bookingdomain.ParseStatus(req.Status)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	order, err := h.console.TransitionLead(c.Request.Context(), providerID(c), c.Param("orderId"), to)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateSettings saves the business profile and syncs the owner's name
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	p, err := h.console.SaveSettings(c.Request.Context(), providerID(c), catalogdomain.ProviderUpdate{
		Name:        req.Name,
		Price:       *req.Price,
		Category:    catalogdomain.Category(req.Category),
		SubCategory: req.SubCategory,
		Address:     req.Address,
	})
	if err != nil {
		if p != nil {
			// provider saved, profile name not synced
			logger.FromContext(c.Request.Context()).Warn("owner name not synced", "provider_id", p.ID, "error", err)
			c.JSON(http.StatusOK, gin.H{"provider": p, "warning": "Profile name could not be updated."})
			return
		}
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": p})
}

// ToggleStatus flips online/offline
func (h *Handler) ToggleStatus(c *gin.Context) {
	p, err := h.console.ToggleStatus(c.Request.Context(), providerID(c))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": p, "status": p.Status})
}

// UploadImage replaces the provider photo
func (h *Handler) UploadImage(c *gin.Context) {
	raw, err := readImage(c)
	if err != nil {
		c.Error(err)
		return
	}
	if raw == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	url, err := h.console.ReplaceImage(c.Request.Context(), providerID(c), raw)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": url})
}

// DownloadEarnings streams the orders workbook
func (h *Handler) DownloadEarnings(c *gin.Context) {
	export, err := h.console.ExportEarnings(c.Request.Context(), providerID(c))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, xlsxContentType, export.Data)
}

// readImage returns the "image" form file, or nil when none was sent.
func readImage(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, apperror.New(http.StatusBadRequest, "invalid upload", err)
	}
	if fh.Size > maxImageBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, "Image must be 5 MB or smaller.", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(data) > maxImageBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, "Image must be 5 MB or smaller.", nil)
	}
	return data, nil
}
