package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"incorpora-backend-go/internal/core"
)

// AdminMiddleware provides Gin middleware that gates routes to admin users.
// It must run after AuthMiddleware.VerifyToken, which supplies the caller's
// verified email.
type AdminMiddleware struct {
	adminService core.AdminService
}

// NewAdminMiddleware creates a new AdminMiddleware instance.
func NewAdminMiddleware(adminService core.AdminService) *AdminMiddleware {
	if adminService == nil {
		log.Fatal("CRITICAL_ERROR: AdminService is not initialized for AdminMiddleware.")
		panic("AdminService is not initialized for AdminMiddleware")
	}
	return &AdminMiddleware{adminService: adminService}
}

// RequireAdmin aborts with 403 unless the authenticated caller's email is
// registered as an admin. Unauthenticated requests never reach this point;
// a missing email claim is treated as not-an-admin rather than an error.
func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("userEmail")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}

		isAdmin, err := m.adminService.IsAdmin(c.Request.Context(), email)
		if err != nil {
			log.Printf("AdminMiddleware: Error checking admin status for %s: %v", email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify admin access"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}

		c.Next()
	}
}
