package middleware

import (
	"chatroom/server/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionLocalKey is the fiber locals key holding the request's session
const SessionLocalKey = "session"

// SessionGate admits requests whose session cookie names a user and
// redirects everything else to redirectTo
func SessionGate(codec *session.Codec, redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sess session.Session
		if raw := c.Cookies(session.CookieName); raw != "" {
			if decoded, err := codec.Decode(raw); err == nil {
				sess = decoded
			}
		}

		if !sess.Authenticated() {
			return c.Redirect(redirectTo, fiber.StatusFound)
		}

		// Store session in locals and in the request context
		c.Locals(SessionLocalKey, sess)
		c.SetUserContext(session.NewContext(c.UserContext(), sess))

		return c.Next()
	}
}

// GetSession gets the session admitted by SessionGate
func GetSession(c *fiber.Ctx) session.Session {
	sess, ok := c.Locals(SessionLocalKey).(session.Session)
	if !ok {
		return session.Session{}
	}
	return sess
}

// GetUserID gets the session user ID from context
func GetUserID(c *fiber.Ctx) string {
	return GetSession(c).UserID
}
