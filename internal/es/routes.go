package es

import (
	"github.com/gofiber/fiber/v2"
)

type RouteHandler struct {
	store EventStore
}

func NewRouteHandler(store EventStore) *RouteHandler {
	return &RouteHandler{
		store: store,
	}
}

// StreamEvents lists the raw events of one stream, for inspection.
func (h *RouteHandler) StreamEvents(c *fiber.Ctx) error {
	streamID := c.Params("streamID")
	if streamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "streamID is required",
		})
	}

	events, revision, err := h.store.Read(c.Context(), streamID)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "stream not found",
		})
	}

	return c.JSON(fiber.Map{
		"stream_id": streamID,
		"revision":  revision,
		"events":    events,
	})
}
