package core

import (
	"context"
	"errors"
	"fmt"
	"log"

	"incorpora-backend-go/internal/db"
	"incorpora-backend-go/internal/models"
)

// adminService implements AdminService: cross-user aggregation for the
// admin panel plus document management on arbitrary business records.
type adminService struct {
	identity     IdentityProvider
	userRepo     db.UserRepository
	businessRepo db.BusinessRepository
	adminRepo    db.AdminRepository
	storage      StorageService
	business     BusinessService
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	identity IdentityProvider,
	userRepo db.UserRepository,
	businessRepo db.BusinessRepository,
	adminRepo db.AdminRepository,
	storage StorageService,
	business BusinessService,
) (AdminService, error) {
	if identity == nil {
		return nil, errors.New("IdentityProvider is required for AdminService")
	}
	if userRepo == nil || businessRepo == nil || adminRepo == nil {
		return nil, errors.New("repositories are required for AdminService")
	}
	if storage == nil || business == nil {
		return nil, errors.New("StorageService and BusinessService are required for AdminService")
	}
	return &adminService{
		identity:     identity,
		userRepo:     userRepo,
		businessRepo: businessRepo,
		adminRepo:    adminRepo,
		storage:      storage,
		business:     business,
	}, nil
}

// IsAdmin reports whether the email belongs to an admin user.
func (s *adminService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up admin user '%s': %w", email, err)
	}
	return admin.Role == "admin", nil
}

// ListUsers enumerates all identity-provider users and joins each to its
// profile document and business subcollection. The join runs sequentially
// per user; user counts in this system are small.
func (s *adminService) ListUsers(ctx context.Context) ([]models.AdminUserListing, error) {
	records, err := s.identity.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]models.AdminUserListing, 0, len(records))
	for _, record := range records {
		listing := models.AdminUserListing{
			UID:         record.UID,
			Email:       record.Email,
			DisplayName: record.DisplayName,
			PhoneNumber: record.PhoneNumber,
		}

		profile, err := s.userRepo.GetByID(ctx, record.UID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to load profile of user '%s': %w", record.UID, err)
		}
		listing.Profile = profile // nil when no profile document exists

		businesses, err := s.businessRepo.ListByUser(ctx, record.UID)
		if err != nil {
			return nil, fmt.Errorf("failed to load businesses of user '%s': %w", record.UID, err)
		}
		listing.Businesses = businesses

		listings = append(listings, listing)
	}
	return listings, nil
}

// ListBusinesses flattens all users' businesses into one list, each entry
// annotated with the owning user and a synthetic path for traceability.
func (s *adminService) ListBusinesses(ctx context.Context) ([]models.AdminBusiness, error) {
	records, err := s.identity.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	flattened := make([]models.AdminBusiness, 0)
	for _, record := range records {
		businesses, err := s.businessRepo.ListByUser(ctx, record.UID)
		if err != nil {
			return nil, fmt.Errorf("failed to load businesses of user '%s': %w", record.UID, err)
		}
		for _, business := range businesses {
			flattened = append(flattened, models.AdminBusiness{
				Business:  business,
				UserID:    record.UID,
				UserEmail: record.Email,
				Path:      fmt.Sprintf("users/%s/businesses/%s", record.UID, business.ID),
			})
		}
	}
	return flattened, nil
}

// UpdateBusiness merges partial fields into any user's business record.
func (s *adminService) UpdateBusiness(ctx context.Context, userID, businessID string, fields map[string]interface{}) (*models.Business, error) {
	return s.business.Update(ctx, userID, businessID, fields)
}

// ReplaceDocuments uploads the given files one by one and merges the
// resulting entries into the business's document map. Uploads are issued
// sequentially; document counts are small and simplicity wins over
// throughput here.
func (s *adminService) ReplaceDocuments(ctx context.Context, userID, businessID string, uploads []DocumentUpload) (map[string]models.Document, error) {
	if len(uploads) == 0 {
		return nil, newValidationError("No documents provided")
	}

	// The record must exist before any blobs are written.
	existing, err := s.business.GetByID(ctx, userID, businessID)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]models.Document, len(uploads))
	replaced := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if upload.Slot == "" {
			return nil, newValidationError("Every document needs a slot identifier")
		}
		doc, err := s.storage.Upload(ctx, userID, upload.Filename, upload.ContentType, upload.Size, upload.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload document for slot '%s': %w", upload.Slot, err)
		}
		documents[upload.Slot] = *doc

		if previous, ok := existing.Documents[upload.Slot]; ok && previous.URL != "" {
			replaced = append(replaced, previous.URL)
		}
	}

	if err := s.businessRepo.MergeDocuments(ctx, userID, businessID, documents); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
		}
		return nil, fmt.Errorf("failed to merge documents into business '%s': %w", businessID, err)
	}

	// The record now points at the new blobs. Only here do the replaced
	// blobs become orphans; delete them best effort. A failed merge keeps
	// the old blobs so the stored URLs stay resolvable.
	for _, url := range replaced {
		if err := s.storage.Remove(ctx, url); err != nil {
			log.Printf("AdminService: failed to remove replaced document %q of business %s: %v", url, businessID, err)
		}
	}
	return documents, nil
}

// RemoveDocument deletes one entry from the document map and its blob.
func (s *adminService) RemoveDocument(ctx context.Context, userID, businessID, slot string) error {
	business, err := s.business.GetByID(ctx, userID, businessID)
	if err != nil {
		return err
	}
	doc, ok := business.Documents[slot]
	if !ok {
		return fmt.Errorf("%w: document slot '%s' of business '%s'", db.ErrNotFound, slot, businessID)
	}

	if doc.URL != "" {
		if err := s.storage.Remove(ctx, doc.URL); err != nil {
			log.Printf("AdminService: failed to remove document blob %q of business %s: %v", doc.URL, businessID, err)
		}
	}

	if err := s.businessRepo.DeleteDocument(ctx, userID, businessID, slot); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
		}
		return fmt.Errorf("failed to delete document slot '%s' of business '%s': %w", slot, businessID, err)
	}
	return nil
}
