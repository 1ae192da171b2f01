package middleware

import (
	"strings"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/pkg/jwt"
	"egovpapua-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxIdentityID = "identity_id"
	ctxRole       = "role"
	ctxTenantID   = "tenant_id"
)

// Auth validates the bearer token and stores the caller's identity on the
// request context.
func Auth(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ctxIdentityID, claims.IdentityID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxTenantID, claims.TenantID)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allow list. Must run
// after Auth.
func RequireRole(roles ...access.Role) gin.HandlerFunc {
	allowed := make(map[access.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := access.Role(c.GetString(ctxRole))
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// SubjectFrom builds the authorization subject from whatever Auth stored on
// the context. A request that skipped Auth yields an anonymous subject.
func SubjectFrom(c *gin.Context) access.Subject {
	return access.Subject{
		IdentityID: c.GetInt64(ctxIdentityID),
		Role:       access.Role(c.GetString(ctxRole)),
		TenantID:   c.GetInt64(ctxTenantID),
	}
}
