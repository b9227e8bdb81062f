package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oasistravel/booking/internal/domain"
)

const (
	ctxUserIDKey = "auth.user_id"
	ctxRoleKey   = "auth.role"
)

// Claims is the token contract with the identity service. Authentication
// itself (login, hashing, token issuance) lives outside this backend; the
// middleware only verifies and extracts.
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's identity on the gin context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		SetCaller(c, claims.UserID, domain.Role(claims.Role))
		c.Next()
	}
}

// SetCaller stores the verified identity on the context.
func SetCaller(c *gin.Context, userID int64, role domain.Role) {
	c.Set(ctxUserIDKey, userID)
	c.Set(ctxRoleKey, role)
}

// RequireStaff aborts unless the caller holds a staff-level role.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerRole(c).IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func CallerID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func CallerRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(ctxRoleKey); ok {
		if role, ok := v.(domain.Role); ok {
			return role
		}
	}
	return domain.RoleCustomer
}
