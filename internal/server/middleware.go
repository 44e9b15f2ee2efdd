package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/constants"
)

const (
	// ClaimsKey is the gin context key holding verified jwt.MapClaims.
	ClaimsKey = "jwt_claims"
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"

	RequestIDHeader = "X-Request-ID"
)

// VerifyConfig configures HS256 verification of the Authorization header.
type VerifyConfig struct {
	Secret        []byte
	AllowedIssuer string
	ClockSkew     time.Duration
}

// JWTMiddleware rejects requests without a valid Bearer token signed with cfg.Secret.
func JWTMiddleware(cfg VerifyConfig) gin.HandlerFunc {
	skew := cfg.ClockSkew
	if skew <= 0 {
		skew = constants.DefaultJWTClockSkew
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(skew),
	)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}
		tok, err := parser.Parse(strings.TrimSpace(header[7:]), func(t *jwt.Token) (interface{}, error) {
			return cfg.Secret, nil
		})
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}
		if err := checkIssuer(claims, cfg.AllowedIssuer); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func checkIssuer(c jwt.MapClaims, allowed string) error {
	if allowed == "" {
		return nil
	}
	iss, err := c.GetIssuer()
	if err != nil {
		return fmt.Errorf("invalid iss: %w", err)
	}
	if iss != allowed {
		return errors.New("invalid iss")
	}
	return nil
}

// requestID reuses an incoming X-Request-ID or assigns a new UUID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *common.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithRequest(c.Request.Method, c.Request.URL.Path).Debug("request",
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(RequestIDKey),
		)
	}
}
