package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	authGate "github.com/wheelmarket/authGate"
)

// ContextIdentity is the gin context key under which [GinGuard] stores the
// authenticated identity.
const ContextIdentity = "authGate.identity"

// GinGuard adapts the gate to a gin handler chain. It mirrors [Guard]:
// renewed cookies are set on success and the identity is available both via
// [GinIdentity] and [IdentityFromContext] on the request context.
func GinGuard(gate *authGate.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gate == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "authentication unavailable",
			})
			return
		}

		policy := gate.CookiePolicy()
		creds := CredentialsFromRequest(c.Request, policy)

		ctx := authGate.WithClientIP(c.Request.Context(), c.ClientIP())
		ctx = authGate.WithUserAgent(ctx, c.Request.UserAgent())

		result, err := gate.Authenticate(ctx, creds)
		if err != nil {
			if rej, ok := authGate.AsRejection(err); ok {
				c.AbortWithStatusJSON(rej.Status, gin.H{
					"success": false,
					"message": rej.Message,
					"code":    string(rej.Code),
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "internal error",
			})
			return
		}

		SetTokenCookies(c.Writer, policy, result)

		c.Set(ContextIdentity, result.Identity)
		c.Request = c.Request.WithContext(context.WithValue(ctx, identityContextKey{}, result.Identity))
		c.Next()
	}
}

// GinIdentity returns the identity stored by [GinGuard], or nil.
func GinIdentity(c *gin.Context) *authGate.Identity {
	value, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	id, _ := value.(*authGate.Identity)
	return id
}

// GinRequireAdmin aborts with 403 unless the authenticated identity is an
// admin. It must run after [GinGuard].
func GinRequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GinIdentity(c)
		if id == nil || !id.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}

// GinRequirePermission aborts with 403 unless the identity carries perm.
func GinRequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GinIdentity(c)
		if id == nil || !id.HasPermission(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}
