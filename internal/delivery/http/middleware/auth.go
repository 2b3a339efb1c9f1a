package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/utils"
)

// Locals keys set by RequireRole
const (
	LocalActor = "actor"
	LocalRole  = "role"
)

// Claims - token payload issued by the profile's identity service
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AuthConfig - RequireRole settings
type AuthConfig struct {
	Secret  string
	Issuer  string
	Leeway  time.Duration
	Allowed []string
}

// RequireRole lets the request through only with a valid HS256 bearer token
// whose role claim is in Allowed. The subject becomes the actor of the write.
func RequireRole(cfg AuthConfig, logger *zap.Logger) fiber.Handler {
	allowed := make(map[string]struct{}, len(cfg.Allowed))
	for _, r := range cfg.Allowed {
		allowed[strings.ToLower(r)] = struct{}{}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" || cfg.Secret == "" {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		claims := &Claims{}
		_, err := parser.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		})
		if err != nil {
			logger.Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		if _, ok := allowed[strings.ToLower(claims.Role)]; !ok {
			logger.Info("Write denied for role",
				zap.String("path", c.Path()),
				zap.String("role", claims.Role),
				zap.String("subject", claims.Subject))
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		actor := claims.Subject
		if actor == "" {
			actor = claims.Name
		}
		c.Locals(LocalActor, actor)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// Actor - subject recorded by RequireRole, empty on public routes
func Actor(c *fiber.Ctx) string {
	actor, _ := c.Locals(LocalActor).(string)
	return actor
}
