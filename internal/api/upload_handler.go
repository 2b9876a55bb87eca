package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
)

// UploadHandler handles owner/compliance document uploads during the
// registration wizard. Files are stored immediately on selection; the
// returned URL is embedded in the owner data the client submits later.
type UploadHandler struct {
	storageService core.StorageService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(ss core.StorageService) *UploadHandler {
	return &UploadHandler{storageService: ss}
}

// RemoveDocumentRequest identifies a stored document by its public URL.
type RemoveDocumentRequest struct {
	URL string `json:"url" binding:"required"`
}

func mapStorageErrorToStatus(c *gin.Context, err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
		return
	}
	log.Printf("Internal Server Error in UploadHandler: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

// UploadDocument handles POST /upload (multipart form, field "file").
func (h *UploadHandler) UploadDocument(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 'file' form field is required", Details: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("UploadDocument Error: failed to open multipart file: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	doc, err := h.storageService.Upload(
		c.Request.Context(),
		userID.(string),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		mapStorageErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, DocumentUploadResponse{URL: doc.URL, Name: doc.Name})
}

// RemoveDocument handles DELETE /upload.
// Called when the user replaces or removes a file before submitting the
// owner step; an already-deleted object is still a success.
func (h *UploadHandler) RemoveDocument(c *gin.Context) {
	_, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req RemoveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.storageService.Remove(c.Request.Context(), req.URL); err != nil {
		mapStorageErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Document removed"})
}
