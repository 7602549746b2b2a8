package internal

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopcart/internal/authentication"
	"shopcart/internal/cart"
	"shopcart/internal/es"
	"shopcart/internal/summary"
)

func NewApi(pool *pgxpool.Pool, cartCache cart.DetailsCache) *fiber.App {
	store := es.NewPGEventStore(pool)

	app := fiber.New()

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/livez",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return pool.Ping(c.Context()) == nil
		},
		ReadinessEndpoint: "/readyz",
	}))
	app.Use(logger.New())

	authMW, err := authentication.Middleware(authentication.LoadConfig())
	if err != nil {
		panic(fmt.Sprintf("failed to initialize auth middleware: %v", err))
	}

	svc := cart.NewService(store)

	opts := []cart.RouteOption{}
	if cartCache != nil {
		opts = append(opts, cart.UseDetailsCache(cartCache))
	}
	h := cart.NewRouteHandler(svc, opts...)

	api := app.Group("/carts", authMW)
	api.Post("/:cartID", h.OpenCart)
	api.Get("/:cartID", h.GetCartDetails)
	api.Post("/:cartID/product-items", h.AddProductItem)
	api.Delete("/:cartID/product-items", h.RemoveProductItem)
	api.Post("/:cartID/confirm", h.ConfirmCart)
	api.Post("/:cartID/cancel", h.CancelCart)

	summaryHandler := summary.NewRouteHandler(summary.NewPGSummaryRepository(pool))
	summariesApi := app.Group("/summaries", authMW)
	summariesApi.Get("/", summaryHandler.List)

	eventsApi := app.Group("/events")
	eHandler := es.NewRouteHandler(store)
	eventsApi.Get("/:streamID", eHandler.StreamEvents)

	return app
}
