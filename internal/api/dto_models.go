package api

import "incorpora-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WizardSessionResponse is the state returned after every wizard
// transition: the client renders the step it names.
type WizardSessionResponse struct {
	Step       int               `json:"step"`
	Form       models.WizardForm `json:"form"`
	BusinessID string            `json:"businessId,omitempty"`
	Cancelled  bool              `json:"cancelled,omitempty"`
}

// ReviewResponse carries the accumulated registration plus the names of
// any sections still missing; a non-empty list tells the client to send
// the user back into the wizard instead of rendering the review page.
type ReviewResponse struct {
	Step    int               `json:"step"`
	Form    models.WizardForm `json:"form"`
	Missing []string          `json:"missing,omitempty"`
}

// CheckoutSessionResponse returns the created hosted-checkout session.
// The client redirects the browser to URL.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// DocumentUploadResponse returns the stored location of one uploaded file.
type DocumentUploadResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}
