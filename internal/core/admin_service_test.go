package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incorpora-backend-go/internal/db"
	"incorpora-backend-go/internal/models"
)

// fakeIdentityProvider serves a fixed user list.
type fakeIdentityProvider struct {
	users []IdentityUser
	err   error
}

func (f *fakeIdentityProvider) ListUsers(_ context.Context) ([]IdentityUser, error) {
	return f.users, f.err
}

type fakeUserRepository struct {
	profiles map[string]*models.User
}

func (f *fakeUserRepository) GetByID(_ context.Context, userID string) (*models.User, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("user '%s' not found: %w", userID, db.ErrNotFound)
	}
	return profile, nil
}

func (f *fakeUserRepository) Create(_ context.Context, _ *models.User) error { return nil }
func (f *fakeUserRepository) Update(_ context.Context, _ *models.User) error { return nil }

type fakeAdminRepository struct {
	admins map[string]*models.AdminUser
}

func (f *fakeAdminRepository) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	admin, ok := f.admins[email]
	if !ok {
		return nil, fmt.Errorf("admin '%s' not found: %w", email, db.ErrNotFound)
	}
	return admin, nil
}

type adminTestEnv struct {
	identity *fakeIdentityProvider
	users    *fakeUserRepository
	repo     *fakeBusinessRepository
	admins   *fakeAdminRepository
	storage  *fakeStorageService
	business *fakeBusinessService
	svc      AdminService
}

func newTestAdmin(t *testing.T) *adminTestEnv {
	t.Helper()
	env := &adminTestEnv{
		identity: &fakeIdentityProvider{},
		users:    &fakeUserRepository{profiles: make(map[string]*models.User)},
		repo:     &fakeBusinessRepository{businessesByUser: make(map[string][]models.Business)},
		admins:   &fakeAdminRepository{admins: make(map[string]*models.AdminUser)},
		storage:  &fakeStorageService{},
		business: newFakeBusinessService(),
	}
	svc, err := NewAdminService(env.identity, env.users, env.repo, env.admins, env.storage, env.business)
	require.NoError(t, err)
	env.svc = svc
	return env
}

func TestIsAdmin(t *testing.T) {
	env := newTestAdmin(t)
	env.admins.admins["root@example.com"] = &models.AdminUser{Email: "root@example.com", Role: "admin"}
	env.admins.admins["viewer@example.com"] = &models.AdminUser{Email: "viewer@example.com", Role: "viewer"}

	ok, err := env.svc.IsAdmin(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	// A record with a different role does not pass the gate.
	ok, err = env.svc.IsAdmin(context.Background(), "viewer@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown and empty emails are a clean "no", not an error.
	ok, err = env.svc.IsAdmin(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.svc.IsAdmin(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListUsersJoinsProfilesAndBusinesses(t *testing.T) {
	env := newTestAdmin(t)
	env.identity.users = []IdentityUser{
		{UID: "u1", Email: "jane@example.com", DisplayName: "Jane Smith"},
		{UID: "u2", Email: "john@example.com"},
	}
	env.users.profiles["u1"] = &models.User{ID: "u1", Email: "jane@example.com", FirstName: "Jane"}
	env.repo.businessesByUser["u1"] = []models.Business{{ID: "b1", Status: models.BusinessStatusDraft}}

	listings, err := env.svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "u1", listings[0].UID)
	assert.Equal(t, "jane@example.com", listings[0].Email)
	require.NotNil(t, listings[0].Profile)
	assert.Equal(t, "Jane", listings[0].Profile.FirstName)
	require.Len(t, listings[0].Businesses, 1)
	assert.Equal(t, "b1", listings[0].Businesses[0].ID)

	// A user without a profile document still appears, with a nil profile.
	assert.Equal(t, "u2", listings[1].UID)
	assert.Nil(t, listings[1].Profile)
	assert.Empty(t, listings[1].Businesses)
}

func TestListUsersPropagatesProviderError(t *testing.T) {
	env := newTestAdmin(t)
	env.identity.err = errors.New("export failed")

	_, err := env.svc.ListUsers(context.Background())
	require.Error(t, err)
}

func TestListBusinessesFlattensAcrossUsers(t *testing.T) {
	env := newTestAdmin(t)
	env.identity.users = []IdentityUser{
		{UID: "u1", Email: "jane@example.com"},
		{UID: "u2", Email: "john@example.com"},
	}
	env.repo.businessesByUser["u1"] = []models.Business{
		{ID: "b1", Status: models.BusinessStatusCompleted},
		{ID: "b2", Status: models.BusinessStatusDraft},
	}
	env.repo.businessesByUser["u2"] = []models.Business{
		{ID: "b3", Status: models.BusinessStatusDraft},
	}

	flattened, err := env.svc.ListBusinesses(context.Background())
	require.NoError(t, err)
	require.Len(t, flattened, 3)

	assert.Equal(t, "u1", flattened[0].UserID)
	assert.Equal(t, "jane@example.com", flattened[0].UserEmail)
	assert.Equal(t, "users/u1/businesses/b1", flattened[0].Path)
	assert.Equal(t, "users/u1/businesses/b2", flattened[1].Path)
	assert.Equal(t, "users/u2/businesses/b3", flattened[2].Path)
	assert.Equal(t, "john@example.com", flattened[2].UserEmail)
}

func TestReplaceDocumentsRemovesReplacedBlobAfterMerge(t *testing.T) {
	env := newTestAdmin(t)
	oldURL := "https://storage.googleapis.com/test-bucket/users/u1/documents/old.pdf"
	env.business.records["b1"] = &models.Business{
		ID:        "b1",
		Documents: map[string]models.Document{"passport": {URL: oldURL, Name: "old.pdf"}},
	}

	documents, err := env.svc.ReplaceDocuments(context.Background(), "u1", "b1", []DocumentUpload{
		{Slot: "passport", Filename: "new.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("x")},
	})
	require.NoError(t, err)

	require.Contains(t, documents, "passport")
	assert.Equal(t, "new.pdf", documents["passport"].Name)
	assert.Equal(t, documents, env.repo.mergedDocuments)
	// The previous blob for the slot is gone once the record is updated.
	assert.Equal(t, []string{oldURL}, env.storage.removed)
}

func TestReplaceDocumentsKeepsPreviousBlobWhenMergeFails(t *testing.T) {
	env := newTestAdmin(t)
	oldURL := "https://storage.googleapis.com/test-bucket/users/u1/documents/old.pdf"
	env.business.records["b1"] = &models.Business{
		ID:        "b1",
		Documents: map[string]models.Document{"passport": {URL: oldURL, Name: "old.pdf"}},
	}
	env.repo.mergeDocsErr = errors.New("write aborted")

	_, err := env.svc.ReplaceDocuments(context.Background(), "u1", "b1", []DocumentUpload{
		{Slot: "passport", Filename: "new.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("x")},
	})
	require.Error(t, err)

	// The stored record still references the old blob, so it must survive.
	assert.Empty(t, env.storage.removed)
}

func TestReplaceDocumentsValidation(t *testing.T) {
	env := newTestAdmin(t)
	env.business.records["b1"] = &models.Business{ID: "b1"}

	var vErr *ValidationError
	_, err := env.svc.ReplaceDocuments(context.Background(), "u1", "b1", nil)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "No documents provided", vErr.Message)

	_, err = env.svc.ReplaceDocuments(context.Background(), "u1", "b1", []DocumentUpload{
		{Slot: "", Filename: "new.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("x")},
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Every document needs a slot identifier", vErr.Message)

	_, err = env.svc.ReplaceDocuments(context.Background(), "u1", "missing", []DocumentUpload{
		{Slot: "passport", Filename: "new.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestRemoveDocumentDeletesBlobAndSlot(t *testing.T) {
	env := newTestAdmin(t)
	docURL := "https://storage.googleapis.com/test-bucket/users/u1/documents/passport.pdf"
	env.business.records["b1"] = &models.Business{
		ID:        "b1",
		Documents: map[string]models.Document{"passport": {URL: docURL, Name: "passport.pdf"}},
	}

	err := env.svc.RemoveDocument(context.Background(), "u1", "b1", "passport")
	require.NoError(t, err)
	assert.Equal(t, []string{docURL}, env.storage.removed)
	assert.Equal(t, []string{"passport"}, env.repo.deletedSlots)
}

func TestRemoveDocumentUnknownSlot(t *testing.T) {
	env := newTestAdmin(t)
	env.business.records["b1"] = &models.Business{ID: "b1"}

	err := env.svc.RemoveDocument(context.Background(), "u1", "b1", "passport")
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Empty(t, env.storage.removed)
	assert.Empty(t, env.repo.deletedSlots)
}
