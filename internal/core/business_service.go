package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"incorpora-backend-go/internal/db"
	"incorpora-backend-go/internal/models"
)

// ErrBusinessNotFound is returned when a business record is not found.
var ErrBusinessNotFound = errors.New("business not found")

// businessService implements the BusinessService interface.
type businessService struct {
	businessRepo db.BusinessRepository
}

// NewBusinessService creates a new BusinessService instance.
func NewBusinessService(businessRepo db.BusinessRepository) BusinessService {
	return &businessService{businessRepo: businessRepo}
}

// BusinessFromForm translates the accumulated wizard form into the
// Business record shape. Nil sections become zero values; optional fields
// stay empty rather than null.
func BusinessFromForm(form *models.WizardForm) *models.Business {
	business := &models.Business{
		Status:    models.BusinessStatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if form == nil {
		return business
	}
	if form.Company != nil {
		business.Company = *form.Company
	}
	if form.Country != nil {
		business.Country = *form.Country
	}
	if form.Package != nil {
		business.Package = *form.Package
	}
	if form.Address != nil {
		business.Address = *form.Address
	}
	if len(form.Owners) > 0 {
		business.Owners = form.Owners
	}
	return business
}

// SaveDraft persists the wizard form as a draft record, creating it on the
// first call and merging on later ones.
func (s *businessService) SaveDraft(ctx context.Context, userID string, form *models.WizardForm, businessID string) (*models.Business, error) {
	business := BusinessFromForm(form)

	if businessID == "" {
		id, err := s.businessRepo.Create(ctx, userID, business)
		if err != nil {
			return nil, fmt.Errorf("failed to create draft business for user '%s': %w", userID, err)
		}
		business.ID = id
		return business, nil
	}

	fields := map[string]interface{}{
		"company": business.Company,
		"country": business.Country,
		"package": business.Package,
		"address": business.Address,
		"owner":   business.Owners,
	}
	updated, err := s.businessRepo.MergeFields(ctx, userID, businessID, fields)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
		}
		return nil, fmt.Errorf("failed to update draft business '%s': %w", businessID, err)
	}
	return updated, nil
}

// GetByID retrieves one business record of a user.
func (s *businessService) GetByID(ctx context.Context, userID, businessID string) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, userID, businessID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
		}
		return nil, fmt.Errorf("failed to get business '%s': %w", businessID, err)
	}
	return business, nil
}

// ListByUser returns all business records of one user.
func (s *businessService) ListByUser(ctx context.Context, userID string) ([]models.Business, error) {
	businesses, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses of user '%s': %w", userID, err)
	}
	return businesses, nil
}

// Update merges partial fields into a record. The incoming map is scrubbed
// of nil values at every depth first; the store rejects explicit nulls.
// Status changes are not accepted through this path.
func (s *businessService) Update(ctx context.Context, userID, businessID string, fields map[string]interface{}) (*models.Business, error) {
	cleaned := models.CleanMap(fields)
	delete(cleaned, "status")
	delete(cleaned, "paymentDetails")
	if len(cleaned) == 0 {
		return nil, newValidationError("No updatable fields provided")
	}

	updated, err := s.businessRepo.MergeFields(ctx, userID, businessID, cleaned)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
		}
		return nil, fmt.Errorf("failed to update business '%s': %w", businessID, err)
	}
	return updated, nil
}

// Finalize flips an existing draft record to completed. The repository
// runs the flip in a transaction and ignores records that are already
// completed, so both confirmation paths can call this safely.
func (s *businessService) Finalize(ctx context.Context, userID, businessID string, details *models.PaymentDetails) error {
	if err := s.businessRepo.Finalize(ctx, userID, businessID, details); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
		}
		return fmt.Errorf("failed to finalize business '%s': %w", businessID, err)
	}
	return nil
}

// CompleteFromSession persists a completed record keyed by the checkout
// session ID. The create-if-absent write plus the transactional finalize
// make repeated confirmations of one session converge on a single record.
func (s *businessService) CompleteFromSession(ctx context.Context, userID, sessionID string, business *models.Business, details *models.PaymentDetails) (string, error) {
	business.Status = models.BusinessStatusDraft
	business.CheckoutSessionID = sessionID
	if err := s.businessRepo.CreateWithID(ctx, userID, sessionID, business); err != nil {
		return "", fmt.Errorf("failed to upsert business for session '%s': %w", sessionID, err)
	}
	if err := s.businessRepo.Finalize(ctx, userID, sessionID, details); err != nil {
		return "", fmt.Errorf("failed to finalize business for session '%s': %w", sessionID, err)
	}
	return sessionID, nil
}
