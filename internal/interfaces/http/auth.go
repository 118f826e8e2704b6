package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MadhavDodiya/expense-management/internal/application/service"
)

const actorContextKey = "actor"

// Claims are the token claims the API trusts. Tokens are issued by the
// identity service; this layer only verifies the HS256 signature.
type Claims struct {
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// VerifyToken parses and verifies a bearer token against the shared secret.
func VerifyToken(secret, tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	tokenStr = strings.TrimSpace(tokenStr)

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == 0 || claims.CompanyID == 0 {
		return nil, fmt.Errorf("token missing user or company claim")
	}

	return claims, nil
}

// authMiddleware verifies the Authorization header and stores the caller's
// identity for the handlers.
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing authorization header",
			})
			return
		}

		claims, err := VerifyToken(secret, header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid token",
			})
			return
		}

		c.Set(actorContextKey, service.Actor{
			UserID:    claims.UserID,
			CompanyID: claims.CompanyID,
			Role:      claims.Role,
		})
		c.Next()
	}
}

// actorFrom returns the authenticated actor stored by authMiddleware.
func actorFrom(c *gin.Context) service.Actor {
	v, _ := c.Get(actorContextKey)
	actor, _ := v.(service.Actor)
	return actor
}
