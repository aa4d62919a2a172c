package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const operatorIDKey = "operator_id"

// RequireAuth validates the Bearer token and records the operator identity on
// the context. The identity is used for audit attribution, not authorization
// decisions.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		operator := ""
		if v, ok := claims["username"].(string); ok && v != "" {
			operator = v
		} else if v, ok := claims["user_id"].(float64); ok {
			operator = fmt.Sprintf("user:%d", int64(v))
		}
		if operator == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token carries no identity"})
			return
		}

		c.Set(operatorIDKey, operator)
		c.Next()
	}
}

// GetOperatorID returns the authenticated operator identity, or "".
func GetOperatorID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if v, ok := c.Get(operatorIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
