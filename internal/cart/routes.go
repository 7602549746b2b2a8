package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopcart/internal/es"
	"shopcart/internal/util"
)

// DetailsCache caches rendered cart details between commands. The route
// handler defines the interface it consumes; the redis implementation lives
// in internal/cache.
type DetailsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context, key string) error
}

type RouteHandler struct {
	svc   *Service
	cache DetailsCache
	now   util.Timestamp
}

type RouteOption func(*RouteHandler)

func UseTimestamp(tp util.Timestamp) RouteOption {
	return func(h *RouteHandler) {
		h.now = tp
	}
}

func UseDetailsCache(cache DetailsCache) RouteOption {
	return func(h *RouteHandler) {
		h.cache = cache
	}
}

func NewRouteHandler(svc *Service, options ...RouteOption) *RouteHandler {
	h := &RouteHandler{
		svc: svc,
		now: time.Now,
	}

	for _, opt := range options {
		opt(h)
	}

	return h
}

type cartResponse struct {
	ShoppingCart
	Revision int64 `json:"revision"`
}

type openCartRequest struct {
	ClientID uuid.UUID `json:"client_id"`
}

type productItemRequest struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int32            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

func (h *RouteHandler) OpenCart(c *fiber.Ctx) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req openCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.ClientID == uuid.Nil {
		return badRequest(c, errors.New("client_id is required"))
	}

	return h.handle(c, fiber.StatusCreated, OpenShoppingCart{
		ShoppingCartID: cartID,
		ClientID:       req.ClientID,
		Now:            h.now(),
	})
}

func (h *RouteHandler) AddProductItem(c *fiber.Ctx) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req productItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.UnitPrice == nil {
		return badRequest(c, errors.New("unit_price is required"))
	}

	return h.handle(c, fiber.StatusOK, AddProductItem{
		ShoppingCartID: cartID,
		ProductItem: PricedProductItem{
			ProductItem: ProductItem{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			},
			UnitPrice: *req.UnitPrice,
		},
		Now: h.now(),
	})
}

func (h *RouteHandler) RemoveProductItem(c *fiber.Ctx) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req productItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	return h.handle(c, fiber.StatusOK, RemoveProductItem{
		ShoppingCartID: cartID,
		ProductItem: ProductItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		},
		Now: h.now(),
	})
}

func (h *RouteHandler) ConfirmCart(c *fiber.Ctx) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	return h.handle(c, fiber.StatusOK, ConfirmShoppingCart{
		ShoppingCartID: cartID,
		Now:            h.now(),
	})
}

func (h *RouteHandler) CancelCart(c *fiber.Ctx) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	return h.handle(c, fiber.StatusOK, CancelShoppingCart{
		ShoppingCartID: cartID,
		Now:            h.now(),
	})
}

func (h *RouteHandler) GetCartDetails(c *fiber.Ctx) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	if h.cache != nil {
		if payload, ok, err := h.cache.Get(c.Context(), cartID.String()); err == nil && ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(payload)
		}
	}

	state, revision, err := h.svc.GetCart(c.Context(), cartID)
	if err != nil {
		return writeError(c, err)
	}

	resp := cartResponse{ShoppingCart: state, Revision: revision}

	if h.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			// Best effort; a failed cache write only costs the next read.
			_ = h.cache.Set(c.Context(), cartID.String(), payload)
		}
	}

	return c.JSON(resp)
}

func (h *RouteHandler) handle(c *fiber.Ctx, successStatus int, command Command) error {
	state, revision, err := h.svc.Handle(c.Context(), command)
	if err != nil {
		return writeError(c, err)
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(c.Context(), command.CartID().String())
	}

	return c.Status(successStatus).JSON(cartResponse{
		ShoppingCart: state,
		Revision:     revision,
	})
}

func cartIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	cartID, err := uuid.Parse(c.Params("cartID"))
	if err != nil {
		return uuid.Nil, errors.New("cartID must be a valid UUID")
	}
	return cartID, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, es.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, es.ErrAlreadyExists):
		status = fiber.StatusConflict
	case errors.Is(err, es.ErrInvalidStateTransition):
		status = fiber.StatusConflict
	case errors.Is(err, es.ErrInvalidOperation):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, es.ErrConcurrencyConflict):
		status = fiber.StatusPreconditionFailed
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
