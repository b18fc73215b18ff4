package middleware

import (
	"net/http"
	"strings"

	hostRepo "schedulify/database/repository/host"
	"schedulify/utils"

	"github.com/gin-gonic/gin"
)

// HostContextKey is where the authenticated host is stored on the gin context.
const HostContextKey = "host"

// SessionTokenKey is where the raw session token is stored, for sign-out.
const SessionTokenKey = "sessionToken"

// JWTAuthHostMiddleware authenticates dashboard requests: a valid session JWT
// whose hash still exists in the session store (so sign-out revokes it), and
// a live host profile for the token's subject.
func JWTAuthHostMiddleware(hosts hostRepo.HostRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		oid, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		sessionOID, err := utils.GetHostSession(utils.GetSessionClient(), utils.HashToken(tokenString))
		if err != nil || sessionOID != oid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, please sign in again"})
			return
		}

		host, err := hosts.GetByOID(oid)
		if err != nil || host == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "host profile not found, please sign in again"})
			return
		}

		c.Set(HostContextKey, host)
		c.Set(SessionTokenKey, tokenString)
		c.Next()
	}
}
