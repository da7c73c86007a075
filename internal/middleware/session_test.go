package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/airwuu/appstore/internal/middleware"
	"github.com/airwuu/appstore/internal/session"
)

// TestSessionAccessorOutsideScopeFailsLoudly: a route registered without
// WithSession must panic on the accessor, not hand the handler a silent
// empty session. The recover middleware surfaces the panic as a 500.
func TestSessionAccessorOutsideScopeFailsLoudly(t *testing.T) {
	app := fiber.New()
	app.Use(recover.New())
	app.Get("/naked", func(c *fiber.Ctx) error {
		middleware.Session(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/naked", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500 from the accessor panic", resp.StatusCode)
	}
}

func TestSessionAccessorInsideScope(t *testing.T) {
	store := session.NewStore(nil)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(middleware.WithSession(store))
	app.Get("/scoped", func(c *fiber.Ctx) error {
		if middleware.Session(c) != store {
			t.Error("accessor returned a different store than injected")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/scoped", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
