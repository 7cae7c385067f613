package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/fadilmartias/interview-grader/internal/util"
)

const (
	DefaultRateLimit  = 50
	DefaultRateWindow = time.Minute
)

// RateLimiter allows max requests per client IP in a sliding window of
// length window. Rejections use the standard error envelope.
func RateLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusTooManyRequests,
				Message: "too many requests, retry later",
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
