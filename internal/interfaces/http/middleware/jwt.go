package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/infrastructure/auth"
	"github.com/merrysway/storefront/internal/infrastructure/logger"
	"github.com/merrysway/storefront/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
)

// JWTAuth rejects requests without a valid bearer token. On success the
// customer's email is available through GetUserEmail and is added to the
// request logger.
func JWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.ExtractBearer(c.GetHeader(AuthHeaderKey))
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed authorization header")
			return
		}

		claims, err := jwtService.Validate(token)
		if err != nil {
			log.Debug("Token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token is invalid")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(logger.GinUserEmailKey, claims.Email)
		c.Set(JWTUsernameKey, claims.Username)

		c.Request = c.Request.WithContext(logger.WithUserEmail(c.Request.Context(), claims.Email))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetUserEmail returns the authenticated customer's email
func GetUserEmail(c *gin.Context) string {
	return c.GetString(logger.GinUserEmailKey)
}

// GetClaims returns the validated token claims
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(JWTClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
