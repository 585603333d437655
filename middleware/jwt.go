package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/types"
	"github.com/haodang/chatpdf-be/utils"
)

const UserContextKey = "user"

// AuthMiddleware validates the bearer token and stores the claims in the
// request context for handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}
		c.Set(UserContextKey, claims)
		c.Next()
	}
}

// AdminAuthMiddleware additionally requires the admin role.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}
		if claims.Role != types.USER_ROLE_ADMIN {
			c.AbortWithStatusJSON(http.StatusForbidden, types.DataResponse{
				Status:  false,
				Message: "Admin role required",
			})
			return
		}
		c.Set(UserContextKey, claims)
		c.Next()
	}
}

// UserClaims returns the claims stored by the auth middleware, nil when
// the route is unauthenticated.
func UserClaims(c *gin.Context) *utils.UserClaims {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*utils.UserClaims)
	return claims
}

func parseBearer(c *gin.Context) (*utils.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header is required",
		})
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header format must be Bearer {token}",
		})
		return nil, false
	}

	claims, err := utils.ParseUserToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid token",
		})
		return nil, false
	}
	return claims, true
}
