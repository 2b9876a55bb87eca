package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"incorpora-backend-go/internal/models"
)

const adminsCollection = "admins"

// firestoreAdminRepository implements AdminRepository on the "admins"
// collection, keyed by email.
type firestoreAdminRepository struct {
	client *firestore.Client
}

// NewFirestoreAdminRepository creates a new firestoreAdminRepository.
func NewFirestoreAdminRepository(client *firestore.Client) AdminRepository {
	if client == nil {
		panic("Firestore client is not initialized for AdminRepository")
	}
	return &firestoreAdminRepository{client: client}
}

// GetByEmail retrieves an admin user record by email.
func (r *firestoreAdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for GetByEmail operation")
	}
	docSnap, err := r.client.Collection(adminsCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("admin user '%s' not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin user '%s': %w", email, err)
	}

	var admin models.AdminUser
	if err := docSnap.DataTo(&admin); err != nil {
		return nil, fmt.Errorf("failed to decode admin user '%s': %w", email, err)
	}
	admin.Email = docSnap.Ref.ID
	return &admin, nil
}
