package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"incorpora-backend-go/internal/api"
	"incorpora-backend-go/internal/cache"
	"incorpora-backend-go/internal/config"
	"incorpora-backend-go/internal/core"
	"incorpora-backend-go/internal/db"
	"incorpora-backend-go/internal/mailer"
	"incorpora-backend-go/internal/middleware"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	// Using NewDevelopment for more verbose, human-readable output during development.
	// For production, consider zap.NewProduction() or a custom configuration.
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync() // Flushes buffer, if any. IMPORTANT for buffered loggers.
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	// A local .env file is optional; in deployed environments the variables
	// come from the runtime.
	if err := godotenv.Load(); err != nil {
		zapLogger.Info("No .env file found, relying on environment variables.")
	}
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore, Auth and Storage clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth, Storage) initialized successfully.")

	// --- 4. Retrieve initialized clients ---
	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	storageBucket := db.GetStorageBucket()

	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}
	if storageBucket == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Storage bucket handle is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firestore, Firebase Auth and Storage clients retrieved successfully.")

	// --- 5. Initialize Session Cache ---
	// Redis when configured; otherwise an in-process cache, which is fine
	// for a single instance but loses wizard sessions on restart.
	var sessionCache cache.Cache
	if appConfig.RedisAddr != "" {
		sessionCache, err = cache.NewRedisCache(initCtx, cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		zapLogger.Info("Redis session cache initialized.", zap.String("addr", appConfig.RedisAddr))
	} else {
		sessionCache = cache.NewMemoryCache()
		zapLogger.Warn("REDIS_ADDR not configured; using in-memory session cache. Wizard sessions will not survive restarts and will not be shared across instances.")
	}

	// --- 6. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	businessRepo := db.NewFirestoreBusinessRepository(firestoreClient)
	adminRepo := db.NewFirestoreAdminRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 7. Initialize Core Services ---
	mail := mailer.New(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.SMTPUsername, appConfig.SMTPPassword, appConfig.MailFrom)

	userService := core.NewUserService(userRepo)
	businessService := core.NewBusinessService(businessRepo)

	storageService, err := core.NewStorageService(storageBucket, appConfig.StorageBucket)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize StorageService", zap.Error(err))
	}

	wizardService, err := core.NewWizardService(sessionCache, storageService, businessService)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize WizardService", zap.Error(err))
	}

	billingService, err := core.NewBillingService(
		appConfig.StripeSecretKey,
		appConfig.StripeWebhookSecret,
		appConfig.ClientURL,
		businessService,
		wizardService,
		mail,
	)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize BillingService", zap.Error(err))
	}

	identityProvider, err := core.NewFirebaseIdentityProvider(firebaseAuthClient)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize IdentityProvider", zap.Error(err))
	}

	adminService, err := core.NewAdminService(identityProvider, userRepo, businessRepo, adminRepo, storageService, businessService)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize AdminService", zap.Error(err))
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	// Using gin.New() to have control over the middleware stack (e.g., not using gin.DefaultLogger if using custom Zap logger).
	router := gin.New()
	zapLogger.Info("Gin engine created.")

	// --- 9. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))      // Log every request; should be early.
	router.Use(middleware.RecoveryMiddleware(zapLogger)) // Recover from panics; should be after logger, before other handlers.

	// Apply CORS middleware only if ClientURL is configured, otherwise log a warning.
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		wizardService,
		businessService,
		storageService,
		billingService,
		adminService,
	)
	// SetupRoutes logs its own success message.

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	// Goroutine for starting the server, so it doesn't block graceful shutdown logic.
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Give active connections time to finish before the server is forced to close.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
