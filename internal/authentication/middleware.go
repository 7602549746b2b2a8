package authentication

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SubjectKey is the fiber locals key holding the authenticated subject.
const SubjectKey = "auth_subject"

// Middleware validates the Authorization bearer token (HS256) and stores the
// subject claim in the request locals. With auth disabled it passes every
// request through, for local development.
func Middleware(cfg *Config) (fiber.Handler, error) {
	if cfg.Disabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}, nil
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set when auth is enabled")
	}

	secret := []byte(cfg.JWTSecret)

	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c, err)
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, errors.New("invalid token"))
		}

		c.Locals(SubjectKey, claims.Subject)
		return c.Next()
	}, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization header must be a bearer token")
	}

	return parts[1], nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": err.Error(),
	})
}
