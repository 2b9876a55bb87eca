package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/db"
)

// AdminHandler handles the admin-panel API endpoints. All routes using it
// sit behind both the auth middleware and the admin gate.
type AdminHandler struct {
	adminService core.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(as core.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

// mapAdminErrorToStatus maps errors from core.AdminService to HTTP status codes.
func mapAdminErrorToStatus(c *gin.Context, err error) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
	case errors.Is(err, core.ErrBusinessNotFound), errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found", Details: err.Error()})
	default:
		log.Printf("Internal Server Error in AdminHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// ListUsers handles GET /admin/users.
// Every identity-provider user is returned joined with its profile and
// business records.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	listings, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": listings})
}

// ListBusinesses handles GET /admin/businesses.
// All users' business records are returned as one flattened list.
func (h *AdminHandler) ListBusinesses(c *gin.Context) {
	businesses, err := h.adminService.ListBusinesses(c.Request.Context())
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// UpdateBusiness handles PUT /admin/businesses/:userId/:businessId.
// The body is a partial field map merged into the record; status and
// payment details cannot be changed through this path.
func (h *AdminHandler) UpdateBusiness(c *gin.Context) {
	userID := c.Param("userId")
	businessID := c.Param("businessId")
	if userID == "" || businessID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID and Business ID are required"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	updated, err := h.adminService.UpdateBusiness(c.Request.Context(), userID, businessID, fields)
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ReplaceDocuments handles POST /admin/businesses/:userId/:businessId/documents.
// The multipart form carries one file per field; the field name is the
// document slot being replaced. The same size and type constraints as the
// user-facing upload apply.
func (h *AdminHandler) ReplaceDocuments(c *gin.Context) {
	userID := c.Param("userId")
	businessID := c.Param("businessId")
	if userID == "" || businessID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID and Business ID are required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A multipart form is required", Details: err.Error()})
		return
	}

	var uploads []core.DocumentUpload
	var openFiles []interface{ Close() error }
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()

	for slot, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		// One file per slot; extra files under the same field are ignored.
		header := headers[0]
		file, err := header.Open()
		if err != nil {
			log.Printf("ReplaceDocuments Error: failed to open multipart file for slot %s: %v", slot, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
			return
		}
		openFiles = append(openFiles, file)
		uploads = append(uploads, core.DocumentUpload{
			Slot:        slot,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
	}

	documents, err := h.adminService.ReplaceDocuments(c.Request.Context(), userID, businessID, uploads)
	if err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, documents)
}

// RemoveDocument handles DELETE /admin/businesses/:userId/:businessId/documents/:slot.
func (h *AdminHandler) RemoveDocument(c *gin.Context) {
	userID := c.Param("userId")
	businessID := c.Param("businessId")
	slot := c.Param("slot")
	if userID == "" || businessID == "" || slot == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "User ID, Business ID and document slot are required"})
		return
	}

	if err := h.adminService.RemoveDocument(c.Request.Context(), userID, businessID, slot); err != nil {
		mapAdminErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
