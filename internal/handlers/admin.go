package handlers

import (
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the moderation dashboard reads
type AdminHandler struct {
	Svc *services.Storefront
}

// ReportedUsers handles GET /api/admin/reported-users
// @Summary List users with reported content
// @Tags Admin
// @Produce json
// @Success 200 {array} models.User
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /admin/reported-users [get]
func (h *AdminHandler) ReportedUsers(c *fiber.Ctx) error {
	users, err := h.Svc.Gateway.ReportedUsers(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "admin.reported_users")
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// ReportedApps handles GET /api/admin/reported-apps
// @Summary List reported apps
// @Tags Admin
// @Produce json
// @Success 200 {array} models.App
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /admin/reported-apps [get]
func (h *AdminHandler) ReportedApps(c *fiber.Ctx) error {
	apps, err := h.Svc.Gateway.ReportedApps(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "admin.reported_apps")
	}
	return c.Status(fiber.StatusOK).JSON(apps)
}

// UserReports handles GET /api/admin/users/:id/reports
// @Summary Get report detail for one user
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id}/reports [get]
func (h *AdminHandler) UserReports(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "admin.validation.id")
	}

	reports, err := h.Svc.Gateway.UserReports(c.Context(), int64(userID))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "admin.user_reports")
	}
	return c.Status(fiber.StatusOK).JSON(reports)
}

// AppReports handles GET /api/admin/apps/:id/reports
// @Summary Get report detail for one app
// @Tags Admin
// @Produce json
// @Param id path int true "App ID"
// @Success 200 {array} models.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /admin/apps/{id}/reports [get]
func (h *AdminHandler) AppReports(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid app id", fiber.StatusBadRequest, "admin.validation.id")
	}

	reports, err := h.Svc.Gateway.AppReports(c.Context(), int64(appID))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "admin.app_reports")
	}
	return c.Status(fiber.StatusOK).JSON(reports)
}
