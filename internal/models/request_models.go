package models

// InitializeProfileRequest carries the optional profile fields collected
// at sign-up. Identity fields (uid, email) come from the verified token.
type InitializeProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// WizardNextRequest advances the wizard by one step.
type WizardNextRequest struct {
	Step int            `json:"step" binding:"required"`
	Data WizardStepData `json:"data"`
}

// WizardEditRequest jumps back to an earlier step, used from the review
// step to correct a section.
type WizardEditRequest struct {
	Step int `json:"step" binding:"required"`
}

// CreateCheckoutSessionRequest starts a hosted checkout for the
// registration currently held by the wizard. BusinessID is set when the
// registration was already persisted as a draft; otherwise the wizard
// form itself is embedded in the session metadata.
type CreateCheckoutSessionRequest struct {
	BusinessID string `json:"businessId,omitempty"`
}

// ConfirmPaymentRequest verifies a completed checkout session from the
// client-side return page.
type ConfirmPaymentRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}
