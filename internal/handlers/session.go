package handlers

import (
	"github.com/airwuu/appstore/internal/middleware"
	"github.com/airwuu/appstore/internal/models"
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/types"
	"github.com/airwuu/appstore/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles login, logout, and session inspection. Login is a
// trust-on-click identity pick from the user list; there is no credential
// check.
type SessionHandler struct {
	Svc *services.Storefront
}

// Login handles POST /api/session/login
// @Summary Log in as a picked user
// @Description Replaces the current identity and persists it durably
// @Tags Session
// @Accept json
// @Produce json
// @Param body body object true "User identity"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var body struct {
		UserID   types.FlexInt64 `json:"user_id"`
		Username string          `json:"username"`
		AppIDs   []int64         `json:"app_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "session.validation.input")
	}
	if body.UserID.Int64() <= 0 {
		return utils.ErrorResponse(c, "user_id is required", fiber.StatusBadRequest, "session.validation.input")
	}

	user := models.User{
		UserID:   body.UserID.Int64(),
		Username: body.Username,
		AppIDs:   body.AppIDs,
	}

	// A bare user_id is resolved against the remote user list so the picker
	// can post just the id.
	if user.Username == "" {
		users, err := h.Svc.Gateway.Users(c.Context())
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "session.login")
		}
		found := false
		for _, u := range users {
			if u.UserID == user.UserID {
				user = u
				found = true
				break
			}
		}
		if !found {
			return utils.ErrorResponse(c, "Unknown user", fiber.StatusBadRequest, "session.validation.user")
		}
	}

	middleware.Session(c).Login(user)
	current, _ := middleware.Session(c).Current()
	return c.Status(fiber.StatusOK).JSON(current)
}

// Logout handles POST /api/session/logout
// @Summary Log out
// @Description Clears the identity and removes the persisted record
// @Tags Session
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	middleware.Session(c).Logout()
	return utils.MutationSuccessResponse(c, "Logged out")
}

// Current handles GET /api/session
// @Summary Get the current session user
// @Tags Session
// @Produce json
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /session [get]
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	user, ok := middleware.Session(c).Current()
	if !ok {
		return utils.NotFoundResponse(c, "No user is logged in")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
