package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/models"
)

// BillingHandler handles payment-related API endpoints.
type BillingHandler struct {
	billingService core.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs}
}

// mapBillingErrorToStatus maps errors from core.BillingService to HTTP status codes.
func mapBillingErrorToStatus(c *gin.Context, err error) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
	case errors.Is(err, core.ErrPaymentNotCompleted):
		// The payment has not been collected (yet); the client should not
		// treat the registration as complete.
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Payment has not been completed for this session"})
	case errors.Is(err, core.ErrSessionMetadata):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Checkout session does not belong to a registration"})
	case errors.Is(err, core.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrBusinessNotFound.Error()})
	default:
		log.Printf("Internal Server Error in BillingHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateCheckoutSession handles POST /billing/create-checkout-session.
// The registration must be complete; the response carries the hosted
// checkout URL the client redirects the browser to.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	email := c.GetString("userEmail")

	// The body is optional; it only carries the draft business ID when the
	// client tracked one.
	var req models.CreateCheckoutSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}

	sessionID, url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID.(string), email, req)
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutSessionResponse{SessionID: sessionID, URL: url})
}

// ConfirmPayment handles POST /billing/confirm-payment.
// Called from the client-side success page with the session ID from the
// return URL. Safe to call repeatedly for the same session.
func (h *BillingHandler) ConfirmPayment(c *gin.Context) {
	_, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	confirmation, err := h.billingService.ConfirmPayment(c.Request.Context(), req.SessionID)
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, confirmation)
}

// HandleStripeWebhook handles POST /billing/webhooks/stripe.
// This endpoint is public and does not require JWT authentication.
// Stripe authenticates webhooks using the 'Stripe-Signature' header.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		log.Println("Stripe Webhook: Missing Stripe-Signature header.")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("Stripe Webhook: Error reading request body: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload", Details: err.Error()})
		return
	}
	defer c.Request.Body.Close()

	// The service verifies the signature and processes the event; internal
	// save failures after a valid signature are logged there and still
	// acknowledged, so Stripe does not retry forever.
	if err := h.billingService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, core.ErrWebhookSignature) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
			return
		}
		mapBillingErrorToStatus(c, err)
		return
	}

	// Stripe expects a 2xx response to acknowledge receipt of the webhook.
	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received successfully"})
}
