package core

import (
	"context"
	"io"

	"incorpora-backend-go/internal/models"
)

// UserService defines the interface for user-profile operations.
type UserService interface {
	// GetOrCreate retrieves the profile of an authenticated user, creating
	// it from the token claims and the optional sign-up fields if absent.
	GetOrCreate(ctx context.Context, userID, email, displayName string, req models.InitializeProfileRequest) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// WizardService drives the multi-step registration state machine.
type WizardService interface {
	// Start returns the current session, or a fresh one when fresh is set
	// or no snapshot exists.
	Start(ctx context.Context, userID string, fresh bool) (*models.WizardSession, error)
	// Next validates the submitted step data, merges it into the form and
	// advances one step.
	Next(ctx context.Context, userID string, req models.WizardNextRequest) (*models.WizardSession, error)
	// Back decrements the step. At the first step it cancels the wizard
	// instead; the returned flag reports that case.
	Back(ctx context.Context, userID string) (*models.WizardSession, bool, error)
	// Edit jumps to an arbitrary earlier step (from the review step).
	Edit(ctx context.Context, userID string, step int) (*models.WizardSession, error)
	// Review returns the session plus the names of any missing required
	// sections; a non-empty list means the client must re-enter the wizard.
	Review(ctx context.Context, userID string) (*models.WizardSession, []string, error)
	// Cancel deletes uploaded owner documents (best effort) and clears the
	// persisted state.
	Cancel(ctx context.Context, userID string) error
	// Clear drops the persisted state without touching uploaded documents.
	// Used after successful payment, when the documents belong to the
	// finalized business record.
	Clear(ctx context.Context, userID string) error
}

// BusinessService is the draft-persistence adapter around business records.
type BusinessService interface {
	// SaveDraft translates the wizard form into a Business and persists it
	// as a draft, creating the record or merging into businessID.
	SaveDraft(ctx context.Context, userID string, form *models.WizardForm, businessID string) (*models.Business, error)
	GetByID(ctx context.Context, userID, businessID string) (*models.Business, error)
	ListByUser(ctx context.Context, userID string) ([]models.Business, error)
	// Update merges partial fields into a record and stamps updatedAt.
	// Incoming maps are scrubbed of nil values before the write.
	Update(ctx context.Context, userID, businessID string, fields map[string]interface{}) (*models.Business, error)
	// Finalize flips an existing draft to completed (one-way).
	Finalize(ctx context.Context, userID, businessID string, details *models.PaymentDetails) error
	// CompleteFromSession upserts a completed record keyed by the checkout
	// session ID, so repeated confirmations of one session converge on a
	// single record. Returns the business ID.
	CompleteFromSession(ctx context.Context, userID, sessionID string, business *models.Business, details *models.PaymentDetails) (string, error)
}

// StorageService is the upload adapter over the document bucket.
type StorageService interface {
	Upload(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader) (*models.Document, error)
	// Remove deletes the object behind a public URL. A missing object is
	// not an error.
	Remove(ctx context.Context, url string) error
}

// BillingService is the payment adapter over the hosted checkout provider.
type BillingService interface {
	// CreateCheckoutSession starts a hosted checkout for the caller's
	// in-progress registration and returns the session ID and redirect URL.
	CreateCheckoutSession(ctx context.Context, userID, email string, req models.CreateCheckoutSessionRequest) (sessionID, url string, err error)
	// ConfirmPayment verifies a session from the client return page and
	// persists the business. Idempotent per session.
	ConfirmPayment(ctx context.Context, sessionID string) (*models.PaymentConfirmation, error)
	// HandleWebhook verifies the provider signature and processes the
	// event. Only signature failures are returned as errors.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// DocumentUpload is one file of an admin document-replacement batch.
type DocumentUpload struct {
	Slot        string
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AdminService aggregates data across all users for the admin panel.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.AdminUserListing, error)
	ListBusinesses(ctx context.Context) ([]models.AdminBusiness, error)
	UpdateBusiness(ctx context.Context, userID, businessID string, fields map[string]interface{}) (*models.Business, error)
	// ReplaceDocuments uploads the files sequentially and merges the
	// resulting entries into the business's document map.
	ReplaceDocuments(ctx context.Context, userID, businessID string, uploads []DocumentUpload) (map[string]models.Document, error)
	RemoveDocument(ctx context.Context, userID, businessID, slot string) error
	IsAdmin(ctx context.Context, email string) (bool, error)
}
