package handler

import (
	"strings"

	"github.com/ISanaSaki/inventory-api/internal/auth/service"
	autherror "github.com/ISanaSaki/inventory-api/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const claimsContextKey = "auth_claims"

// authenticate extracts and verifies the bearer access token.
func (h *AuthHandler) authenticate(c *fiber.Ctx) (*service.JWTCustomClaims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, autherror.ErrInvalidToken
	}

	return h.tokenService.VerifyAccessToken(token)
}

// RequireAuth verifies the bearer access token and stashes its claims in the
// request locals for downstream handlers.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	claims, err := h.authenticate(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": autherror.ErrInvalidToken.Error(),
		})
	}

	c.Locals(claimsContextKey, claims)

	return c.Next()
}

// RequireRole gates a route group to the given roles. It implies RequireAuth.
func (h *AuthHandler) RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, err := h.authenticate(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": autherror.ErrInvalidToken.Error(),
			})
		}

		if _, ok := allowed[claims.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": autherror.ErrAccessDenied.Error(),
			})
		}

		c.Locals(claimsContextKey, claims)

		return c.Next()
	}
}

func ClaimsFromContext(c *fiber.Ctx) *service.JWTCustomClaims {
	claims, _ := c.Locals(claimsContextKey).(*service.JWTCustomClaims)
	return claims
}
