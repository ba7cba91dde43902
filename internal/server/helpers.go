package server

import (
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	refreshCookie = "jwt"
	resetCookie   = "token"
)

// Verify returns the authentication middleware. It resolves the bearer
// access token to a user and stores it in locals under "user" and "userID".
func (s *Server) Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return models.NewUnauthorizedError("Unauthorized")
		}

		user, err := s.authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
		return c.Next()
	}
}

// AdminRequired rejects non-admin users. Must run after Verify.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsAdmin() {
			return models.NewForbiddenError("You do not have permission to perform this action")
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentUser returns the user attached by Verify, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals("user").(*models.User)
	return u
}

// parseBody decodes the request body into out.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return models.NewBadRequestError("Invalid request body")
	}
	return nil
}

func success(c *fiber.Ctx, status int, message string, id string) error {
	body := fiber.Map{"success": message}
	if id != "" {
		body["id"] = id
	}
	return c.Status(status).JSON(body)
}

// idParam returns the trimmed :id route parameter.
func idParam(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Params("id"))
}
