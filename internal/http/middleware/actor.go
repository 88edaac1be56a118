package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"auditapi/internal/model"
)

// ActorLocalKey is the key used to store the resolved actor in Fiber's
// context locals.
const ActorLocalKey = "actor"

// actorClaims are the session token claims the engine relies on.
type actorClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Role              string `json:"role"`
}

// Actor resolves the current authenticated actor from a Bearer JWT.
//
// Behavior:
// - Extracts the Bearer token from the Authorization header.
// - Validates signature (HS256) and expiry against the shared secret.
// - Builds a model.Actor from sub / preferred_username / role claims.
// - Stores the actor in context locals under ActorLocalKey.
// Requests without a valid token are rejected with 401 before any handler
// runs; role strings outside the known tiers are rejected the same way.
func Actor(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "expected Bearer token")
		}

		claims := &actorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims,
			func(t *jwt.Token) (any, error) { return []byte(secret), nil },
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token has no subject")
		}
		role := model.Role(claims.Role)
		if !role.Valid() {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown role")
		}

		c.Locals(ActorLocalKey, model.Actor{
			ID:       sub,
			Username: claims.PreferredUsername,
			Role:     role,
		})
		return c.Next()
	}
}

// ActorFromCtx extracts the actor previously stored by the Actor middleware.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	a, ok := c.Locals(ActorLocalKey).(model.Actor)
	return a, ok
}
