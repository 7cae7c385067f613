package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/interview-grader/internal/util"
)

// Environment exposes the application environment to response helpers.
func Environment(env string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(util.LocalsEnv, env)
		return c.Next()
	}
}
