package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"incorpora-backend-go/internal/config"
	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/db"
	"incorpora-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// It's expected that global middleware (Logging, Recovery, CORS) are applied to the `router`
// instance *before* this function is called, typically in `main.go`.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	wizardService core.WizardService,
	businessService core.BusinessService,
	storageService core.StorageService,
	billingService core.BillingService,
	adminService core.AdminService,
) {
	// --- Initialize Middleware requiring dependencies ---
	// Get Firebase Auth client. This must be available after db.InitFirebase().
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirebase() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)
	adminMW := middleware.NewAdminMiddleware(adminService)

	// --- Initialize Handlers ---
	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	wizardHandler := NewWizardHandler(wizardService)
	businessHandler := NewBusinessHandler(businessService)
	uploadHandler := NewUploadHandler(storageService)
	billingHandler := NewBillingHandler(billingService)
	adminHandler := NewAdminHandler(adminService)

	// --- Define API Route Groups ---
	apiV1 := router.Group("/api/v1")
	{
		// --- User and Authentication Endpoints ---
		userAuthGroup := apiV1.Group("/users")
		{
			// POST /api/v1/users/initialize - Requires auth to identify the user.
			// Called after client-side Firebase login/signup to ensure backend profile exists.
			userAuthGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeUserProfile)

			// GET /api/v1/users/me - Requires auth to get current user's profile.
			userAuthGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
		}

		// --- Registration Wizard Endpoints ---
		// All wizard transitions require authentication; the session is
		// keyed by the authenticated user's ID.
		wizardGroup := apiV1.Group("/wizard", authMW.VerifyToken())
		{
			wizardGroup.GET("", wizardHandler.StartWizard)
			wizardGroup.POST("/next", wizardHandler.Next)
			wizardGroup.POST("/back", wizardHandler.Back)
			wizardGroup.POST("/edit", wizardHandler.Edit)
			wizardGroup.GET("/review", wizardHandler.Review)
			wizardGroup.POST("/cancel", wizardHandler.Cancel)
		}

		// --- Document Upload Endpoints ---
		uploadGroup := apiV1.Group("/upload", authMW.VerifyToken())
		{
			uploadGroup.POST("", uploadHandler.UploadDocument)
			uploadGroup.DELETE("", uploadHandler.RemoveDocument)
		}

		// --- Business Record Endpoints ---
		businessesGroup := apiV1.Group("/businesses", authMW.VerifyToken())
		{
			businessesGroup.GET("", businessHandler.ListBusinesses)
			businessesGroup.GET("/:businessId", businessHandler.GetBusiness)
			businessesGroup.PUT("/:businessId", businessHandler.UpdateBusiness)
		}

		// --- Billing Endpoints ---
		billingGroup := apiV1.Group("/billing")
		{
			// Authenticated endpoints for user-initiated billing actions
			billingGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
			billingGroup.POST("/confirm-payment", authMW.VerifyToken(), billingHandler.ConfirmPayment)

			// Public webhook endpoint for Stripe (NO authMW.VerifyToken() middleware here)
			// Stripe authenticates webhooks via signature, handled by the service.
			billingGroup.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)
		}

		// --- Admin Panel Endpoints ---
		// Behind both authentication and the admin gate.
		adminGroup := apiV1.Group("/admin", authMW.VerifyToken(), adminMW.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/businesses", adminHandler.ListBusinesses)
			adminGroup.PUT("/businesses/:userId/:businessId", adminHandler.UpdateBusiness)
			adminGroup.POST("/businesses/:userId/:businessId/documents", adminHandler.ReplaceDocuments)
			adminGroup.DELETE("/businesses/:userId/:businessId/documents/:slot", adminHandler.RemoveDocument)
		}
	}

	// --- General Health Check Endpoint ---
	// This endpoint is typically public and does not go under /api/v1 group.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Incorpora backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
