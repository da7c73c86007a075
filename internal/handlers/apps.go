package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/airwuu/appstore/internal/gateway"
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// AppsHandler handles app detail and install-state routes
type AppsHandler struct {
	Svc *services.Storefront
}

// Detail handles GET /api/storefront/apps/:id
// @Summary Get app details
// @Description Full detail payload including description, images, tags, and reviews
// @Tags Apps
// @Produce json
// @Param id path int true "App ID"
// @Success 200 {object} models.AppDetails
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/apps/{id} [get]
func (h *AppsHandler) Detail(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid app id", fiber.StatusBadRequest, "apps.validation.id")
	}

	details, err := h.Svc.Gateway.AppDetails(c.Context(), int64(appID))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "apps.detail")
	}
	if details == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("App %d not found", appID))
	}

	return c.Status(fiber.StatusOK).JSON(details)
}

// Install handles POST /api/storefront/apps/:id/install
// @Summary Install an app for the logged-in user
// @Description Records the download remotely, then marks the app installed locally
// @Tags Apps
// @Produce json
// @Param id path int true "App ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/apps/{id}/install [post]
func (h *AppsHandler) Install(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid app id", fiber.StatusBadRequest, "apps.validation.id")
	}

	if err := h.Svc.InstallApp(c.Context(), int64(appID)); err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			return utils.ErrorResponse(c, "No user is logged in", fiber.StatusForbidden, "session.authorization.user")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "apps.install")
	}

	return utils.MutationSuccessResponse(c, "App installed")
}

// Uninstall handles DELETE /api/storefront/apps/:id/install?confirm=true
// @Summary Uninstall an app for the logged-in user
// @Description Requires explicit confirmation; removes the download remotely, then locally
// @Tags Apps
// @Produce json
// @Param id path int true "App ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/apps/{id}/install [delete]
func (h *AppsHandler) Uninstall(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid app id", fiber.StatusBadRequest, "apps.validation.id")
	}

	// Uninstall is destructive; the caller must confirm explicitly.
	if c.Query("confirm") != "true" {
		return utils.ErrorResponse(c, "Uninstall requires confirm=true", fiber.StatusBadRequest, "apps.validation.confirm")
	}

	if err := h.Svc.UninstallApp(c.Context(), int64(appID)); err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			return utils.ErrorResponse(c, "No user is logged in", fiber.StatusForbidden, "session.authorization.user")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "apps.uninstall")
	}

	return utils.MutationSuccessResponse(c, "App uninstalled")
}

// Report handles POST /api/storefront/apps/:id/report
// @Summary Report an app
// @Description Files a moderation report; requires a non-empty reason, no login needed
// @Tags Apps
// @Accept json
// @Produce json
// @Param id path int true "App ID"
// @Param body body object true "Report reason"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/apps/{id}/report [post]
func (h *AppsHandler) Report(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid app id", fiber.StatusBadRequest, "apps.validation.id")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "apps.validation.input")
	}
	if strings.TrimSpace(body.Reason) == "" {
		return utils.ErrorResponse(c, "A report reason is required", fiber.StatusBadRequest, "apps.validation.reason")
	}

	if err := h.Svc.Gateway.ReportApp(c.Context(), int64(appID), body.Reason); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "apps.report")
	}

	return utils.MutationSuccessResponse(c, "Report submitted")
}

// Create handles POST /api/admin/apps
// @Summary Create a store listing (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body gateway.CreateAppInput true "New app"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /admin/apps [post]
func (h *AppsHandler) Create(c *fiber.Ctx) error {
	var in gateway.CreateAppInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "apps.validation.input")
	}

	if err := h.Svc.Gateway.CreateApp(c.Context(), in); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "apps.create")
	}

	return utils.MutationSuccessResponse(c, "App created")
}
