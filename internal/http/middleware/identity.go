// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file bridges the external identity service into the request context.
// Authentication itself happens upstream (session handling is not this
// service's concern); by the time a request arrives here, the proxy has
// resolved the caller and forwards their identity via headers. The
// middleware only copies those claims into the Gin context so handlers and
// the logger share one source of truth.
package middleware

import "github.com/gin-gonic/gin"

const (
	// HeaderUserID carries the caller's opaque user id.
	HeaderUserID = "X-User-ID"
	// HeaderUserRole carries the caller's role ("internal", "admin",
	// "viewer", ...). Used for report publish-gating.
	HeaderUserRole = "X-User-Role"

	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// Identity stores the forwarded user id and role in the Gin context. Absent
// headers leave the context values empty; handlers decide per route whether
// an anonymous caller is acceptable.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader(HeaderUserID); uid != "" {
			c.Set(userIDKey, uid)
		}
		if role := c.GetHeader(HeaderUserRole); role != "" {
			c.Set(userRoleKey, role)
		}
		c.Next()
	}
}

// UserID returns the caller's id from the context, empty when anonymous.
func UserID(c *gin.Context) string {
	v, _ := c.Get(userIDKey)
	s, _ := v.(string)
	return s
}

// UserRole returns the caller's role from the context, empty when anonymous.
func UserRole(c *gin.Context) string {
	v, _ := c.Get(userRoleKey)
	s, _ := v.(string)
	return s
}
