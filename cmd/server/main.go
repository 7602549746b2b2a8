package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shopcart/internal"
	"shopcart/internal/cache"
	"shopcart/internal/cart"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func main() {
	ctx := context.Background()
	pool := internal.MustDBPool(ctx)
	defer pool.Close()

	app := internal.NewApi(pool, cartCache())

	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}

	go func() {
		if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)

	fmt.Println("Application started!")

	<-signalCh
	fmt.Println("Received shutdown signal, exiting...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// cartCache is optional: without a redis address every read goes straight to
// the event store.
func cartCache() cart.DetailsCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		PoolSize: 10,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	return cache.NewCartCache(client, 12*time.Hour)
}
