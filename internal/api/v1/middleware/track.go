package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TrackIDHeader = "X-Track-Id"
	trackIDKey    = "x_track_id"
)

// TrackID reuses the caller's X-Track-Id or generates one, stores it in
// locals and echoes it on the response.
func TrackID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(TrackIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(trackIDKey, id)
		c.Set(TrackIDHeader, id)

		return c.Next()
	}
}

func GetTrackID(c *fiber.Ctx) string {
	id, _ := c.Locals(trackIDKey).(string)
	return id
}
