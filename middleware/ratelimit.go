package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/slotbooking/booking-app/redis"
)

var fixedWindowScript = goredis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit is a fixed-window per-IP limiter backed by Redis. It fails open:
// when Redis is unconfigured or unreachable the request goes through, since
// the booking transaction itself is what protects the data.
func RateLimit(limit int, window time.Duration, prefix string) fiber.Handler {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}

	return func(c *fiber.Ctx) error {
		if redis.Client == nil {
			return c.Next()
		}

		key := prefix + ":" + c.IP()
		count, err := fixedWindowScript.Run(c.UserContext(), redis.Client, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			log.Printf("rate limiter error: %v", err)
			return c.Next()
		}
		if count > int64(limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, try again later",
			})
		}
		return c.Next()
	}
}
