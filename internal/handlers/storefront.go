package handlers

import (
	"strconv"

	"github.com/airwuu/appstore/internal/query"
	"github.com/airwuu/appstore/internal/services"
	"github.com/airwuu/appstore/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// StorefrontHandler handles browse, search, and live facet routes
type StorefrontHandler struct {
	Svc *services.Storefront
}

// facetsFromQuery builds facets from request query parameters, starting from
// the browse-all defaults so absent parameters keep their default meaning.
func facetsFromQuery(c *fiber.Ctx) query.Facets {
	f := query.DefaultFacets()
	f.Query = c.Query("q")
	f.Category = c.Query("category")
	if v := c.Query("max_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MaxPrice = n
		}
	}
	if v := c.Query("sort_by"); v != "" {
		f.SortBy = query.SortBy(v)
	}
	if v := c.Query("sort_order"); v != "" {
		f.SortOrder = query.SortOrder(v)
	}
	return f.Normalize()
}

// Browse handles GET /api/storefront/apps
// @Summary Browse or search the store
// @Description Compose one listing request from the q/category/max_price/sort facets and execute it
// @Tags Storefront
// @Produce json
// @Param q query string false "Free-text query"
// @Param category query string false "Category filter"
// @Param max_price query int false "Price ceiling 0-10, 10 = unbounded"
// @Param sort_by query string false "downloads|price|rating"
// @Param sort_order query string false "asc|desc"
// @Success 200 {array} models.App
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /storefront/apps [get]
func (h *StorefrontHandler) Browse(c *fiber.Ctx) error {
	apps, err := h.Svc.Browse(c.Context(), facetsFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "storefront.browse")
	}
	return c.Status(fiber.StatusOK).JSON(apps)
}

// UpdateFacets handles PUT /api/storefront/facets
// @Summary Update live facet state
// @Description Record a facet change; the listing request fires after the quiescence window
// @Tags Storefront
// @Accept json
// @Produce json
// @Param body body query.Facets true "Facet state"
// @Success 200 {object} query.Facets
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /storefront/facets [put]
func (h *StorefrontHandler) UpdateFacets(c *fiber.Ctx) error {
	var f query.Facets
	if err := c.BodyParser(&f); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "storefront.validation.input")
	}

	h.Svc.UpdateFacets(f)
	return c.Status(fiber.StatusOK).JSON(h.Svc.Facets())
}

// Results handles GET /api/storefront/results
// @Summary Get live search results
// @Description Return the results of the most recently applied listing request
// @Tags Storefront
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /storefront/results [get]
func (h *StorefrontHandler) Results(c *fiber.Ctx) error {
	apps, generation := h.Svc.Results()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"apps":       apps,
		"generation": generation,
		"facets":     h.Svc.Facets(),
	})
}

// Categories handles GET /api/storefront/categories
// @Summary List store categories
// @Tags Storefront
// @Produce json
// @Success 200 {array} models.Category
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/categories [get]
func (h *StorefrontHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.Svc.Gateway.Categories(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "storefront.categories")
	}
	return c.Status(fiber.StatusOK).JSON(categories)
}

// Users handles GET /api/storefront/users
// @Summary List users for the login picker
// @Tags Storefront
// @Produce json
// @Success 200 {array} models.User
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /storefront/users [get]
func (h *StorefrontHandler) Users(c *fiber.Ctx) error {
	users, err := h.Svc.Gateway.Users(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "storefront.users")
	}
	return c.Status(fiber.StatusOK).JSON(users)
}
