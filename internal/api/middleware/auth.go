/**
 * @description
 * Authentication middleware for dashboard session tokens.
 * Validates Bearer tokens signed with JWT_SECRET, or against an external JWKS
 * when AUTH_JWKS_URL is set.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: HTTP Context
 * - github.com/golang-jwt/jwt/v5: JWT parsing
 * - github.com/MicahParks/keyfunc/v2: JWKS fetching and caching
 *
 * @notes
 * - Access requires a valid token AND a project claim in AUTH_ALLOWED_PROJECTS.
 * - Caches JWKS keys to prevent excessive network calls.
 */

package middleware

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/services"
)

const claimsLocalKey = "session_claims"

// AdminType is the users.type value allowed to trigger manual refreshes
const AdminType = "admin"

// AuthMiddlewareConfig holds the key material used to validate tokens
type AuthMiddlewareConfig struct {
	JWKS     *keyfunc.JWKS
	Secret   []byte
	Projects []string
}

var mwConfig *AuthMiddlewareConfig

// InitAuthMiddleware prepares token validation. Should be called at startup.
func InitAuthMiddleware(cfg *config.Config) error {
	mwConfig = &AuthMiddlewareConfig{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Projects: cfg.Auth.AllowedProjects,
	}

	if cfg.Auth.JWKSURL == "" {
		if len(mwConfig.Secret) == 0 {
			logger.Warn("Auth: JWT_SECRET is empty. Protected routes will reject every request.")
		}
		return nil
	}

	// Refresh the JWKS every hour.
	jwks, err := keyfunc.Get(cfg.Auth.JWKSURL, keyfunc.Options{
		RefreshInterval: time.Hour,
		RefreshErrorHandler: func(err error) {
			logger.Error("Auth: JWKS refresh failed: %v", err)
		},
	})
	if err != nil {
		return err
	}

	mwConfig.JWKS = jwks
	logger.Info("Auth: middleware initialized with JWKS")
	return nil
}

func (m *AuthMiddlewareConfig) keyFor(token *jwt.Token) (interface{}, error) {
	if m.JWKS != nil {
		return m.JWKS.Keyfunc(token)
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	if len(m.Secret) == 0 {
		return nil, errors.New("no signing secret configured")
	}
	return m.Secret, nil
}

// Protected protects routes requiring an authenticated user of an allowed project
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if mwConfig == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Auth configuration not initialized",
			})
		}

		// 1. Get Token from Header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token format"})
		}

		// 2. Parse and Validate Token
		var claims services.SessionClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, mwConfig.keyFor)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token: " + err.Error()})
		}
		if !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		// 3. Validate Claims
		if claims.Subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing subject"})
		}
		if !slices.Contains(mwConfig.Projects, claims.Project) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Project not allowed"})
		}

		// 4. Set Claims in Context
		c.Locals(claimsLocalKey, &claims)

		return c.Next()
	}
}

// AdminOnly rejects authenticated users whose account type is not admin. Use after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := GetClaims(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if claims.Type != AdminType {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		return c.Next()
	}
}

// GetClaims returns the authenticated session from context
func GetClaims(c *fiber.Ctx) (*services.SessionClaims, error) {
	claims, ok := c.Locals(claimsLocalKey).(*services.SessionClaims)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	return claims, nil
}
