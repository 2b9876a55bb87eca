package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"incorpora-backend-go/internal/models"
)

const businessesCollection = "businesses"

// firestoreBusinessRepository implements BusinessRepository on the
// users/{uid}/businesses subcollection.
type firestoreBusinessRepository struct {
	client *firestore.Client
}

// NewFirestoreBusinessRepository creates a new firestoreBusinessRepository.
func NewFirestoreBusinessRepository(client *firestore.Client) BusinessRepository {
	if client == nil {
		panic("Firestore client is not initialized for BusinessRepository")
	}
	return &firestoreBusinessRepository{client: client}
}

func (r *firestoreBusinessRepository) docRef(userID, businessID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(businessesCollection).Doc(businessID)
}

// stampedFields returns a copy of fields with updatedAt set to the server
// timestamp. The caller's map is left untouched.
func stampedFields(fields map[string]interface{}) map[string]interface{} {
	stamped := make(map[string]interface{}, len(fields)+1)
	for key, value := range fields {
		stamped[key] = value
	}
	stamped["updatedAt"] = firestore.ServerTimestamp
	return stamped
}

// Create adds a business record with an auto-generated document ID and
// returns the new ID.
func (r *firestoreBusinessRepository) Create(ctx context.Context, userID string, business *models.Business) (string, error) {
	if userID == "" {
		return "", errors.New("userID cannot be empty for Create operation")
	}
	ref := r.client.Collection(usersCollection).Doc(userID).Collection(businessesCollection).NewDoc()
	if _, err := ref.Create(ctx, business); err != nil {
		return "", fmt.Errorf("failed to create business for user '%s': %w", userID, err)
	}
	return ref.ID, nil
}

// CreateWithID writes a business under a caller-chosen document ID. An
// AlreadyExists error is swallowed: the first writer wins and later
// writers (a second payment confirmation for the same checkout session)
// become no-ops.
func (r *firestoreBusinessRepository) CreateWithID(ctx context.Context, userID, businessID string, business *models.Business) error {
	if userID == "" || businessID == "" {
		return errors.New("userID and businessID cannot be empty for CreateWithID operation")
	}
	if _, err := r.docRef(userID, businessID).Create(ctx, business); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create business '%s' for user '%s': %w", businessID, userID, err)
	}
	return nil
}

// GetByID retrieves one business record.
func (r *firestoreBusinessRepository) GetByID(ctx context.Context, userID, businessID string) (*models.Business, error) {
	if userID == "" || businessID == "" {
		return nil, errors.New("userID and businessID cannot be empty for GetByID operation")
	}
	docSnap, err := r.docRef(userID, businessID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("business '%s' of user '%s' not found: %w", businessID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get business '%s' of user '%s': %w", businessID, userID, err)
	}

	var business models.Business
	if err := docSnap.DataTo(&business); err != nil {
		return nil, fmt.Errorf("failed to decode business '%s': %w", businessID, err)
	}
	business.ID = docSnap.Ref.ID
	return &business, nil
}

// ListByUser returns all business records of one user, oldest first.
func (r *firestoreBusinessRepository) ListByUser(ctx context.Context, userID string) ([]models.Business, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	iter := r.client.Collection(usersCollection).Doc(userID).Collection(businessesCollection).
		OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	businesses := make([]models.Business, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate businesses of user '%s': %w", userID, err)
		}
		var business models.Business
		if err := docSnap.DataTo(&business); err != nil {
			return nil, fmt.Errorf("failed to decode business '%s': %w", docSnap.Ref.ID, err)
		}
		business.ID = docSnap.Ref.ID
		businesses = append(businesses, business)
	}
	return businesses, nil
}

// MergeFields merges the given fields into the document, stamps updatedAt
// and reads the result back. The read-back doubles as the existence check:
// a record that vanished surfaces as ErrNotFound.
func (r *firestoreBusinessRepository) MergeFields(ctx context.Context, userID, businessID string, fields map[string]interface{}) (*models.Business, error) {
	if userID == "" || businessID == "" {
		return nil, errors.New("userID and businessID cannot be empty for MergeFields operation")
	}
	if _, err := r.docRef(userID, businessID).Set(ctx, stampedFields(fields), firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to merge fields into business '%s': %w", businessID, err)
	}
	return r.GetByID(ctx, userID, businessID)
}

// Finalize flips a business to completed with the given payment details.
// The transition is one-way: a record already completed keeps its original
// payment details no matter how many confirmations arrive.
func (r *firestoreBusinessRepository) Finalize(ctx context.Context, userID, businessID string, details *models.PaymentDetails) error {
	if userID == "" || businessID == "" {
		return errors.New("userID and businessID cannot be empty for Finalize operation")
	}
	ref := r.docRef(userID, businessID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("business '%s' of user '%s' not found: %w", businessID, userID, ErrNotFound)
			}
			return err
		}
		var business models.Business
		if err := docSnap.DataTo(&business); err != nil {
			return fmt.Errorf("failed to decode business '%s': %w", businessID, err)
		}
		if business.Status == models.BusinessStatusCompleted {
			// Already confirmed by the other confirmation path.
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: models.BusinessStatusCompleted},
			{Path: "paymentDetails", Value: details},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to finalize business '%s' of user '%s': %w", businessID, userID, err)
	}
	return nil
}

// MergeDocuments merges {url,name} entries into the documents map.
func (r *firestoreBusinessRepository) MergeDocuments(ctx context.Context, userID, businessID string, documents map[string]models.Document) error {
	if len(documents) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(documents)+1)
	for slot, doc := range documents {
		updates = append(updates, firestore.Update{Path: "documents." + slot, Value: doc})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	if _, err := r.docRef(userID, businessID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("business '%s' of user '%s' not found: %w", businessID, userID, ErrNotFound)
		}
		return fmt.Errorf("failed to merge documents into business '%s': %w", businessID, err)
	}
	return nil
}

// DeleteDocument removes one entry from the documents map.
func (r *firestoreBusinessRepository) DeleteDocument(ctx context.Context, userID, businessID, slot string) error {
	if slot == "" {
		return errors.New("slot cannot be empty for DeleteDocument operation")
	}
	updates := []firestore.Update{
		{Path: "documents." + slot, Value: firestore.Delete},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if _, err := r.docRef(userID, businessID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("business '%s' of user '%s' not found: %w", businessID, userID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete document slot '%s' of business '%s': %w", slot, businessID, err)
	}
	return nil
}
