package summary

import (
	"github.com/gofiber/fiber/v2"

	"shopcart/internal/cart"
)

type RouteHandler struct {
	repo SummaryRepository
}

func NewRouteHandler(repo SummaryRepository) *RouteHandler {
	return &RouteHandler{
		repo: repo,
	}
}

func (h *RouteHandler) List(c *fiber.Ctx) error {
	status := cart.Status(c.Query("status"))

	summaries, err := h.repo.List(c.Context(), status)
	if err != nil {
		return err
	}

	return c.JSON(summaries)
}
