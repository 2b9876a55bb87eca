package db

import (
	"context"

	"incorpora-backend-go/internal/models"
)

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// BusinessRepository defines the interface for business record storage
// operations. Businesses live in a per-user subcollection; every method is
// therefore keyed by the owning user's ID.
type BusinessRepository interface {
	Create(ctx context.Context, userID string, business *models.Business) (string, error) // returns new business ID
	// CreateWithID writes a business under a caller-chosen document ID and
	// succeeds silently when the document already exists. Used for
	// session-keyed upserts so that duplicate payment confirmations cannot
	// create duplicate records.
	CreateWithID(ctx context.Context, userID, businessID string, business *models.Business) error
	GetByID(ctx context.Context, userID, businessID string) (*models.Business, error)
	ListByUser(ctx context.Context, userID string) ([]models.Business, error)
	// MergeFields merges the given fields into the document, stamps
	// updatedAt and returns the resulting record. ErrNotFound if the
	// document cannot be read back after the merge.
	MergeFields(ctx context.Context, userID, businessID string, fields map[string]interface{}) (*models.Business, error)
	// Finalize flips the record to completed with the given payment
	// details inside a transaction. A record that is already completed is
	// left untouched; completed never transitions back to draft.
	Finalize(ctx context.Context, userID, businessID string, details *models.PaymentDetails) error
	MergeDocuments(ctx context.Context, userID, businessID string, documents map[string]models.Document) error
	DeleteDocument(ctx context.Context, userID, businessID, slot string) error
}

// AdminRepository looks up admin users for the admin route gate.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
