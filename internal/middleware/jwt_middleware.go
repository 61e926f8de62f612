package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/utils"
)

// ProfileIDKey is the gin context key holding the authenticated profile id.
const ProfileIDKey = "profile_id"

// JWTMiddleware authenticates profile tokens.
type JWTMiddleware struct {
	limiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware creates a JWTMiddleware. limiter may be nil.
func NewJWTMiddleware(limiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{limiter: limiter}
}

// Handle requires a bearer token. The token query parameter is accepted
// as well, since EventSource and browser websockets cannot set headers.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if m.limiter != nil && m.limiter.Blocked(ip) {
			utils.Error(c, 429, "RATE_LIMITED", "Too many invalid authentication attempts")
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			m.reject(c, ip, "UNAUTHORIZED", "Missing or invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, utils.ErrExpiredToken) {
				msg = "Token expired"
			}
			m.reject(c, ip, "INVALID_TOKEN", msg)
			return
		}

		c.Set(ProfileIDKey, claims.ProfileID)
		c.Next()
	}
}

// Optional authenticates the request when a token is present and lets
// anonymous requests through. A present but invalid token is rejected.
func (m *JWTMiddleware) Optional() gin.HandlerFunc {
	required := m.Handle()
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" && c.Query("token") == "" {
			c.Next()
			return
		}
		required(c)
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, ip, code, msg string) {
	if m.limiter != nil && !m.limiter.Allow(ip) {
		log.Warn().Str("ip", ip).Msg("Invalid auth rate limit exceeded")
		utils.Error(c, 429, "RATE_LIMITED", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, 401, code, msg)
	c.Abort()
}

func bearerToken(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if t := c.Query("token"); t != "" {
		return t, true
	}
	return "", false
}

// ProfileID returns the authenticated profile id.
func ProfileID(c *gin.Context) string {
	return c.GetString(ProfileIDKey)
}
