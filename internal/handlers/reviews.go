package handlers

import (
	"github.com/airwuu/appstore/internal/gateway"
	"github.com/airwuu/appstore/internal/models"
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// ReviewsHandler handles review create/edit/delete routes. All of them run
// behind RequireUser; the session user's id is forwarded as the acting
// user_id. Ownership is enforced by the remote API, not here.
type ReviewsHandler struct {
	Svc *services.Storefront
}

// sessionUser reads the user stored by the RequireUser middleware.
func sessionUser(c *fiber.Ctx) models.User {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		panic("handlers: sessionUser called outside RequireUser scope")
	}
	return user
}

type reviewBody struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

// Create handles POST /api/storefront/apps/:id/reviews
// @Summary Post a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "App ID"
// @Param body body object true "Stars and comment text"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/apps/{id}/reviews [post]
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid app id", fiber.StatusBadRequest, "reviews.validation.id")
	}

	var body reviewBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "reviews.validation.input")
	}

	in := gateway.CommentInput{
		UserID:  sessionUser(c).UserID,
		Stars:   body.Stars,
		Comment: body.Comment,
	}
	if err := h.Svc.Gateway.CreateComment(c.Context(), int64(appID), in); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "reviews.create")
	}

	return utils.MutationSuccessResponse(c, "Review posted")
}

// Update handles PUT /api/storefront/reviews/:id
// @Summary Edit a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param body body object true "Stars and comment text"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/reviews/{id} [put]
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	commentID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid comment id", fiber.StatusBadRequest, "reviews.validation.id")
	}

	var body reviewBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "reviews.validation.input")
	}

	in := gateway.CommentInput{
		UserID:  sessionUser(c).UserID,
		Stars:   body.Stars,
		Comment: body.Comment,
	}
	if err := h.Svc.Gateway.UpdateComment(c.Context(), int64(commentID), in); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "reviews.update")
	}

	return utils.MutationSuccessResponse(c, "Review updated")
}

// Delete handles DELETE /api/storefront/reviews/:id
// @Summary Delete a review
// @Tags Reviews
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/reviews/{id} [delete]
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	commentID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid comment id", fiber.StatusBadRequest, "reviews.validation.id")
	}

	if err := h.Svc.Gateway.DeleteComment(c.Context(), int64(commentID), sessionUser(c).UserID); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "reviews.delete")
	}

	return utils.MutationSuccessResponse(c, "Review deleted")
}
