package middleware

import (
	"github.com/airwuu/appstore/internal/session"
	"github.com/airwuu/appstore/internal/types"
	"github.com/gofiber/fiber/v2"
)

const sessionLocalsKey = "sessionStore"

// WithSession injects the session store into the request context. Every
// route that reads or mutates session state must run behind this.
func WithSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sessionLocalsKey, store)
		return c.Next()
	}
}

// Session returns the injected session store. Calling it on a route that is
// not behind WithSession is a programming error and panics rather than
// silently returning an empty session.
func Session(c *fiber.Ctx) *session.Store {
	store, ok := c.Locals(sessionLocalsKey).(*session.Store)
	if !ok || store == nil {
		panic("middleware: Session called outside WithSession scope")
	}
	return store
}

// RequireUser rejects requests when nobody is logged in. The logged-in user
// is stored in locals for the handler.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := Session(c).Current()
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "No user is logged in",
				Type:    "session.authorization.user",
			}
		}
		c.Locals("user", user)
		return c.Next()
	}
}
