package core

import (
	"context"
	"fmt"
	"io"
	"sync"

	"incorpora-backend-go/internal/models"
)

// fakeStorageService records uploads and removals without touching a bucket.
type fakeStorageService struct {
	mu       sync.Mutex
	uploads  []string
	removed  []string
	uploadID int
}

func (f *fakeStorageService) Upload(_ context.Context, userID, filename, _ string, _ int64, _ io.Reader) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadID++
	url := fmt.Sprintf("https://storage.googleapis.com/test-bucket/users/%s/documents/%d", userID, f.uploadID)
	f.uploads = append(f.uploads, url)
	return &models.Document{URL: url, Name: filename}, nil
}

func (f *fakeStorageService) Remove(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, url)
	return nil
}

// fakeBusinessService emulates the persistence behavior the wizard and
// billing layers depend on: draft upserts and an idempotent finalize.
type fakeBusinessService struct {
	mu             sync.Mutex
	saveDraftCalls int
	finalizeCalls  int
	completeCalls  int
	records        map[string]*models.Business
}

func newFakeBusinessService() *fakeBusinessService {
	return &fakeBusinessService{records: make(map[string]*models.Business)}
}

func (f *fakeBusinessService) SaveDraft(_ context.Context, _ string, form *models.WizardForm, businessID string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveDraftCalls++
	business := BusinessFromForm(form)
	if businessID == "" {
		businessID = fmt.Sprintf("draft-%d", f.saveDraftCalls)
	}
	business.ID = businessID
	f.records[businessID] = business
	return business, nil
}

func (f *fakeBusinessService) GetByID(_ context.Context, _, businessID string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	business, ok := f.records[businessID]
	if !ok {
		return nil, fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
	}
	return business, nil
}

func (f *fakeBusinessService) ListByUser(_ context.Context, _ string) ([]models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Business, 0, len(f.records))
	for _, b := range f.records {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBusinessService) Update(_ context.Context, _, businessID string, _ map[string]interface{}) (*models.Business, error) {
	return f.GetByID(context.Background(), "", businessID)
}

func (f *fakeBusinessService) Finalize(_ context.Context, _, businessID string, details *models.PaymentDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalizeCalls++
	business, ok := f.records[businessID]
	if !ok {
		return fmt.Errorf("%w: business '%s'", ErrBusinessNotFound, businessID)
	}
	// Mirrors the transactional repository: a completed record stays as is.
	if business.Status == models.BusinessStatusCompleted {
		return nil
	}
	business.Status = models.BusinessStatusCompleted
	business.PaymentDetails = details
	return nil
}

func (f *fakeBusinessService) CompleteFromSession(ctx context.Context, _, sessionID string, business *models.Business, details *models.PaymentDetails) (string, error) {
	f.mu.Lock()
	f.completeCalls++
	// Create-if-absent keyed by session ID, like the real repository.
	if _, ok := f.records[sessionID]; !ok {
		business.ID = sessionID
		business.Status = models.BusinessStatusDraft
		business.CheckoutSessionID = sessionID
		f.records[sessionID] = business
	}
	f.mu.Unlock()
	if err := f.Finalize(ctx, "", sessionID, details); err != nil {
		return "", err
	}
	return sessionID, nil
}

// fakeWizardService only tracks Clear calls; billing tears the wizard down
// after a confirmed payment.
type fakeWizardService struct {
	mu         sync.Mutex
	clearCalls int
	session    *models.WizardSession
	missing    []string
}

func (f *fakeWizardService) Start(_ context.Context, _ string, _ bool) (*models.WizardSession, error) {
	return f.session, nil
}

func (f *fakeWizardService) Next(_ context.Context, _ string, _ models.WizardNextRequest) (*models.WizardSession, error) {
	return f.session, nil
}

func (f *fakeWizardService) Back(_ context.Context, _ string) (*models.WizardSession, bool, error) {
	return f.session, false, nil
}

func (f *fakeWizardService) Edit(_ context.Context, _ string, _ int) (*models.WizardSession, error) {
	return f.session, nil
}

func (f *fakeWizardService) Review(_ context.Context, _ string) (*models.WizardSession, []string, error) {
	return f.session, f.missing, nil
}

func (f *fakeWizardService) Cancel(_ context.Context, _ string) error { return nil }

func (f *fakeWizardService) Clear(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return nil
}
