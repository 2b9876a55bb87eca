package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/models"
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// InitializeUserProfile handles the POST /api/v1/users/initialize endpoint.
// This endpoint is intended to be called by a client after a Firebase authentication event (login/signup)
// to ensure that a corresponding user profile exists in the application's database.
// It relies on the authentication middleware to validate the Firebase ID token and extract user information
// into the Gin context; the request body may carry the optional sign-up profile fields.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	rawUserID, exists := c.Get("userID")
	if !exists {
		log.Println("InitializeUserProfile Error: userID not found in context. Auth middleware might not have run or failed.")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}
	firebaseUserID, ok := rawUserID.(string)
	if !ok || firebaseUserID == "" {
		log.Printf("InitializeUserProfile Error: userID in context is not a valid string or is empty. Value: %v", rawUserID)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID format in context"})
		return
	}

	email := c.GetString("userEmail")
	displayName := c.GetString("userDisplayName")

	// The body is optional: a bare token-only call still initializes the
	// profile from the claims alone.
	var req models.InitializeProfileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), firebaseUserID, email, displayName, req)
	if err != nil {
		log.Printf("InitializeUserProfile Error: userService.GetOrCreate failed for userID %s: %v", firebaseUserID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile", Details: err.Error()})
		return
	}

	if created {
		log.Printf("User profile created for userID: %s", firebaseUserID)
		c.JSON(http.StatusCreated, user)
	} else {
		log.Printf("User profile already existed for userID: %s", firebaseUserID)
		c.JSON(http.StatusOK, user)
	}
}
