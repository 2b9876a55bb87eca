package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/models"
)

// stubAdminService returns canned listings for the handler tests.
type stubAdminService struct {
	listings   []models.AdminUserListing
	businesses []models.AdminBusiness
}

func (s *stubAdminService) ListUsers(_ context.Context) ([]models.AdminUserListing, error) {
	return s.listings, nil
}

func (s *stubAdminService) ListBusinesses(_ context.Context) ([]models.AdminBusiness, error) {
	return s.businesses, nil
}

func (s *stubAdminService) UpdateBusiness(_ context.Context, _, _ string, _ map[string]interface{}) (*models.Business, error) {
	return nil, nil
}

func (s *stubAdminService) ReplaceDocuments(_ context.Context, _, _ string, _ []core.DocumentUpload) (map[string]models.Document, error) {
	return nil, nil
}

func (s *stubAdminService) RemoveDocument(_ context.Context, _, _, _ string) error { return nil }

func (s *stubAdminService) IsAdmin(_ context.Context, _ string) (bool, error) { return true, nil }

func newAdminTestRouter(svc core.AdminService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAdminHandler(svc)
	router.GET("/admin/users", handler.ListUsers)
	router.GET("/admin/businesses", handler.ListBusinesses)
	return router
}

func TestListUsersResponseShape(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{
		listings: []models.AdminUserListing{{UID: "u1", Email: "jane@example.com"}},
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Users []models.AdminUserListing `json:"users"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "u1", body.Users[0].UID)
}

func TestListBusinessesResponseShape(t *testing.T) {
	router := newAdminTestRouter(&stubAdminService{
		businesses: []models.AdminBusiness{{
			Business: models.Business{ID: "b1"},
			UserID:   "u1",
			Path:     "users/u1/businesses/b1",
		}},
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/businesses", nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Businesses []models.AdminBusiness `json:"businesses"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Businesses, 1)
	assert.Equal(t, "users/u1/businesses/b1", body.Businesses[0].Path)
}
