package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LocalUserID is the fiber.Ctx local holding the authenticated subject.
const LocalUserID = "user_id"

var (
	ErrTokenNotFound = errors.New("bearer token not found")
	ErrTokenInvalid  = errors.New("invalid token")
)

// AuthMiddleware verifies an HS256 bearer token issued by the account
// service and stores its subject in the request locals.
func AuthMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return errorResponse(c, fiber.StatusUnauthorized, MessageUnauthorized, ErrTokenNotFound)
		}

		subject, err := parseToken(strings.TrimSpace(raw), secret)
		if err != nil {
			return errorResponse(c, fiber.StatusUnauthorized, MessageUnauthorized, err)
		}

		c.Locals(LocalUserID, subject)
		return c.Next()
	}
}

func parseToken(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return subject, nil
}
