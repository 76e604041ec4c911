package api

import (
	"net/http"
	"strings"

	"farmer-portal/internal/auth"
	"farmer-portal/internal/models"

	"github.com/gin-gonic/gin"
)

const farmerIDKey = "farmer_id"

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// RequireFarmer admits requests carrying a valid FARMER session token and
// stores the farmer id on the context.
func RequireFarmer(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"details": err.Error(),
			})
			return
		}

		if claims.Role != models.RoleFarmer || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Farmer access required"})
			return
		}

		c.Set(farmerIDKey, claims.Subject)
		c.Next()
	}
}

func farmerID(c *gin.Context) string {
	return c.GetString(farmerIDKey)
}
