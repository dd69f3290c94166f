package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	C "taskmate/config"
	U "taskmate/util"
)

// scope constants.
const SCOPE_OWNER_ID = "ownerId"

// Owner identity header. The request layer resolves the caller's
// session before routing here; this subsystem trusts the resolved
// owner it is handed.
const HEADER_OWNER_ID = "X-Owner-Id"

// CustomCors for customised cors configuration based on conditions.
func CustomCors() gin.HandlerFunc {
	return func(c *gin.Context) {
		corsConfig := cors.DefaultConfig()
		if C.IsDevelopment() {
			corsConfig.AllowOrigins = []string{"http://localhost:8080", "http://localhost:3000"}
		}

		cors.New(corsConfig)(c)
		c.Next()
	}
}

// SetScopeOwnerByHeader - Request scope set by the resolved owner id
// on the X-Owner-Id header.
func SetScopeOwnerByHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := strings.TrimSpace(c.Request.Header.Get(HEADER_OWNER_ID))
		if ownerID == "" {
			errorMessage := "Missing owner header"
			log.WithFields(log.Fields{"error": errorMessage}).Error("Request failed with auth failure.")
			c.AbortWithStatusJSON(http.StatusUnauthorized, map[string]string{"error": errorMessage})
			return
		}

		U.SetScope(c, SCOPE_OWNER_ID, ownerID)
		c.Next()
	}
}
