package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/models"
)

// WizardHandler handles the multi-step registration wizard endpoints.
// Every transition returns the resulting session state; the client renders
// whatever step it names.
type WizardHandler struct {
	wizardService core.WizardService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(ws core.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: ws}
}

// mapWizardErrorToStatus maps errors from core.WizardService to HTTP status codes.
func mapWizardErrorToStatus(c *gin.Context, err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
		return
	}
	log.Printf("Internal Server Error in WizardHandler: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

func sessionResponse(session *models.WizardSession, cancelled bool) WizardSessionResponse {
	return WizardSessionResponse{
		Step:       session.Step,
		Form:       session.Form,
		BusinessID: session.BusinessID,
		Cancelled:  cancelled,
	}
}

// StartWizard handles GET /wizard.
// With ?fresh=true any previous session is discarded first; otherwise the
// persisted session is recovered so a returning user resumes where they
// left off.
func (h *WizardHandler) StartWizard(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	fresh := c.Query("fresh") == "true"
	session, err := h.wizardService.Start(c.Request.Context(), userID.(string), fresh)
	if err != nil {
		mapWizardErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, false))
}

// Next handles POST /wizard/next.
// The body carries the current step number and that step's section data.
func (h *WizardHandler) Next(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.WizardNextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.wizardService.Next(c.Request.Context(), userID.(string), req)
	if err != nil {
		mapWizardErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, false))
}

// Back handles POST /wizard/back.
// At the first step going back cancels the whole registration; the
// response flags that so the client can leave the wizard.
func (h *WizardHandler) Back(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	session, cancelled, err := h.wizardService.Back(c.Request.Context(), userID.(string))
	if err != nil {
		mapWizardErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, cancelled))
}

// Edit handles POST /wizard/edit.
// Used from the review step to jump back to an earlier section.
func (h *WizardHandler) Edit(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.WizardEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.wizardService.Edit(c.Request.Context(), userID.(string), req.Step)
	if err != nil {
		mapWizardErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, false))
}

// Review handles GET /wizard/review.
// A non-empty missing list means the registration is incomplete and the
// client must redirect back into the wizard.
func (h *WizardHandler) Review(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	session, missing, err := h.wizardService.Review(c.Request.Context(), userID.(string))
	if err != nil {
		mapWizardErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{
		Step:    session.Step,
		Form:    session.Form,
		Missing: missing,
	})
}

// Cancel handles POST /wizard/cancel.
// Uploaded owner documents are removed and the persisted state is cleared.
func (h *WizardHandler) Cancel(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	if err := h.wizardService.Cancel(c.Request.Context(), userID.(string)); err != nil {
		mapWizardErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Registration cancelled"})
}
