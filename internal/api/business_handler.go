package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
)

// BusinessHandler handles API endpoints for a user's own business records.
type BusinessHandler struct {
	businessService core.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(bs core.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: bs}
}

// mapBusinessErrorToStatus maps errors from core.BusinessService to HTTP status codes.
func mapBusinessErrorToStatus(c *gin.Context, err error) {
	var vErr *core.ValidationError
	switch {
	case errors.Is(err, core.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrBusinessNotFound.Error()})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
	default:
		log.Printf("Internal Server Error in BusinessHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// ListBusinesses handles GET /businesses.
// It returns all registrations (drafts and completed) of the caller.
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	businesses, err := h.businessService.ListByUser(c.Request.Context(), userID.(string))
	if err != nil {
		mapBusinessErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, businesses)
}

// GetBusiness handles GET /businesses/:businessId.
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	businessID := c.Param("businessId")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Business ID is required"})
		return
	}

	business, err := h.businessService.GetByID(c.Request.Context(), userID.(string), businessID)
	if err != nil {
		mapBusinessErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

// UpdateBusiness handles PUT /businesses/:businessId.
// The body is a partial field map merged into the caller's own record;
// status and payment details cannot be changed through this path.
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	businessID := c.Param("businessId")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Business ID is required"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	updated, err := h.businessService.Update(c.Request.Context(), userID.(string), businessID, fields)
	if err != nil {
		mapBusinessErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
