package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/airwuu/appstore/internal/gateway"
	"github.com/airwuu/appstore/internal/handlers"
	"github.com/airwuu/appstore/internal/middleware"
	"github.com/airwuu/appstore/internal/models"
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/session"
	"github.com/airwuu/appstore/internal/types"
)

// newTestApp builds the route surface the way the server binary does, backed
// by an in-memory session store and a stub remote API.
func newTestApp(t *testing.T, remote http.Handler) *fiber.App {
	t.Helper()

	ts := httptest.NewServer(remote)
	t.Cleanup(ts.Close)

	gw, err := gateway.New(gateway.Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("Failed to create gateway client: %v", err)
	}

	sessions := session.NewStore(nil)
	svc := services.NewStorefront(sessions, gw, 5*time.Millisecond, 50)
	t.Cleanup(svc.Close)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := err.Error()
			errorType := "unknown"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			if e, ok := err.(*types.CustomError); ok {
				code = e.Code
				message = e.Message
				errorType = e.Type
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  code,
				"message": message,
				"ok":      false,
				"type":    errorType,
			})
		},
	})

	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.WithSession(sessions))

	storefrontHandler := &handlers.StorefrontHandler{Svc: svc}
	appsHandler := &handlers.AppsHandler{Svc: svc}
	reviewsHandler := &handlers.ReviewsHandler{Svc: svc}
	sessionHandler := &handlers.SessionHandler{Svc: svc}
	adminHandler := &handlers.AdminHandler{Svc: svc}

	store := api.Group("/storefront")
	store.Get("/apps", storefrontHandler.Browse)
	store.Put("/facets", storefrontHandler.UpdateFacets)
	store.Get("/results", storefrontHandler.Results)
	store.Get("/categories", storefrontHandler.Categories)
	store.Get("/users", storefrontHandler.Users)
	store.Get("/apps/:id", appsHandler.Detail)
	store.Post("/apps/:id/report", appsHandler.Report)
	store.Post("/apps/:id/install", middleware.RequireUser(), appsHandler.Install)
	store.Delete("/apps/:id/install", middleware.RequireUser(), appsHandler.Uninstall)
	store.Post("/apps/:id/reviews", middleware.RequireUser(), reviewsHandler.Create)
	store.Put("/reviews/:id", middleware.RequireUser(), reviewsHandler.Update)
	store.Delete("/reviews/:id", middleware.RequireUser(), reviewsHandler.Delete)

	api.Get("/session", sessionHandler.Current)
	api.Post("/session/login", sessionHandler.Login)
	api.Post("/session/logout", sessionHandler.Logout)

	admin := api.Group("/admin")
	admin.Get("/reported-users", adminHandler.ReportedUsers)
	admin.Get("/reported-apps", adminHandler.ReportedApps)
	admin.Get("/users/:id/reports", adminHandler.UserReports)
	admin.Get("/apps/:id/reports", adminHandler.AppReports)
	admin.Post("/apps", appsHandler.Create)

	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	_ = resp.Body.Close()
}

// remoteStub serves the handful of remote API routes the flow tests touch.
func remoteStub() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.User{
			{UserID: 1, Username: "alice", AppIDs: []int64{2}},
			{UserID: 2, Username: "bob"},
		})
	})
	mux.HandleFunc("/apps/5/download", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("/apps/5/report", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("/apps/5/comments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	return mux
}

func TestLoginInstallFlow(t *testing.T) {
	app := newTestApp(t, remoteStub())

	// Login with a bare id; the username resolves against the remote list.
	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/session/login", `{"user_id":1}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var user models.User
	decodeBody(t, resp, &user)
	if user.Username != "alice" || !user.HasApp(2) {
		t.Fatalf("resolved user = %+v", user)
	}

	resp, err = app.Test(jsonRequest(fiber.MethodPost, "/api/storefront/apps/5/install", ""))
	if err != nil {
		t.Fatalf("install request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("install status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/session", nil))
	if err != nil {
		t.Fatalf("session request failed: %v", err)
	}
	decodeBody(t, resp, &user)
	if !user.HasApp(5) {
		t.Errorf("installed app missing from session: %+v", user)
	}
}

func TestInstallRequiresLogin(t *testing.T) {
	app := newTestApp(t, remoteStub())

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/storefront/apps/5/install", ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if body["type"] != "session.authorization.user" {
		t.Errorf("error type = %v", body["type"])
	}
}

func TestUninstallRequiresConfirmation(t *testing.T) {
	app := newTestApp(t, remoteStub())

	if _, err := app.Test(jsonRequest(fiber.MethodPost, "/api/session/login", `{"user_id":1}`)); err != nil {
		t.Fatalf("login request failed: %v", err)
	}

	resp, err := app.Test(jsonRequest(fiber.MethodDelete, "/api/storefront/apps/5/install", ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("unconfirmed uninstall status = %d, want 400", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(fiber.MethodDelete, "/api/storefront/apps/5/install?confirm=true", ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("confirmed uninstall status = %d, want 200", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestReportRequiresReason(t *testing.T) {
	app := newTestApp(t, remoteStub())

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/storefront/apps/5/report", `{"reason":"  "}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("empty reason status = %d, want 400", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(fiber.MethodPost, "/api/storefront/apps/5/report", `{"reason":"scam"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("report status = %d, want 200", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestReviewForwardsSessionUser(t *testing.T) {
	var gotBody gateway.CommentInput
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.User{{UserID: 7, Username: "carol"}})
	})
	mux.HandleFunc("/apps/5/comments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	app := newTestApp(t, mux)

	if _, err := app.Test(jsonRequest(fiber.MethodPost, "/api/session/login", `{"user_id":7}`)); err != nil {
		t.Fatalf("login request failed: %v", err)
	}

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/storefront/apps/5/reviews", `{"stars":4,"comment":"nice"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("review status = %d, want 200", resp.StatusCode)
	}
	_ = resp.Body.Close()

	if gotBody.UserID != 7 {
		t.Errorf("forwarded user_id = %d, want the session user", gotBody.UserID)
	}
}

// TestMutationResponseEchoesAPIVersion: mutation envelopes carry the
// negotiated version, including the "1.0" alias spelled out.
func TestMutationResponseEchoesAPIVersion(t *testing.T) {
	app := newTestApp(t, remoteStub())

	req := jsonRequest(fiber.MethodPost, "/api/session/logout", "")
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if body["apiVersion"] != "1.0.0" {
		t.Errorf("apiVersion = %v, want 1.0.0", body["apiVersion"])
	}
}

// TestBrowseProxiesFacets checks that a one-shot browse turns URL facets
// into the composed remote request.
func TestBrowseProxiesFacets(t *testing.T) {
	var gotPath string
	var gotParams map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]models.App{{AppID: 9, AppName: "maps pro"}})
	})
	app := newTestApp(t, mux)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/storefront/apps?q=maps&category=games&max_price=3", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("browse status = %d", resp.StatusCode)
	}
	var apps []models.App
	decodeBody(t, resp, &apps)

	if gotPath != "/search" {
		t.Errorf("remote path = %q, want /search", gotPath)
	}
	if got := gotParams["q"]; len(got) != 1 || got[0] != "maps" {
		t.Errorf("q = %v", gotParams["q"])
	}
	if got := gotParams["category"]; len(got) != 1 || got[0] != "games" {
		t.Errorf("category = %v", gotParams["category"])
	}
	if got := gotParams["max_price"]; len(got) != 1 || got[0] != "3" {
		t.Errorf("max_price = %v", gotParams["max_price"])
	}
	if len(apps) != 1 || apps[0].AppName != "maps pro" {
		t.Errorf("apps = %+v", apps)
	}
}

func TestDetailNotFound(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "App not found", http.StatusNotFound)
	}))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/storefront/apps/404", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestLoginUnknownUser(t *testing.T) {
	app := newTestApp(t, remoteStub())

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/session/login", `{"user_id":999}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

// TestFacetsResultsLoop drives the live path: a facet update settles after
// the quiescence window and its results become visible on the results route.
func TestFacetsResultsLoop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.App{{AppID: 3, AppName: "weather live"}})
	})
	app := newTestApp(t, mux)

	resp, err := app.Test(jsonRequest(fiber.MethodPut, "/api/storefront/facets", `{"q":"weather"}`))
	if err != nil {
		t.Fatalf("facets request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("facets status = %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	var payload struct {
		Apps       []models.App `json:"apps"`
		Generation uint64       `json:"generation"`
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/storefront/results", nil))
		if err != nil {
			t.Fatalf("results request failed: %v", err)
		}
		decodeBody(t, resp, &payload)
		if payload.Generation >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("results never settled: %+v", payload)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if len(payload.Apps) != 1 || payload.Apps[0].AppName != "weather live" {
		t.Errorf("apps = %+v", payload.Apps)
	}
}
