package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saldoplus/database"
	"saldoplus/models"
)

// AdminOnly guards the administration routes. It must run after JWTAuth
// and requires the authenticated account to carry the is_admin flag.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			abortUnauthorized(c, "authentication required")
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			abortUnauthorized(c, "user not found")
			return
		}

		if !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
