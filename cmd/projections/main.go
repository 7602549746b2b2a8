package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"shopcart/internal"
	"shopcart/internal/es"
	"shopcart/internal/summary"
)

const pollInterval = 2 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()
	pool := internal.MustDBPool(ctx)
	defer pool.Close()

	store := es.NewPGEventStore(pool)
	projection := summary.NewProjection(pool)
	subscription := es.NewSubscription(store, 25)

	for {
		if err := subscription.CatchUp(ctx, projection); err != nil {
			log.Fatalf("Unable to catch up projection %s: %v", projection.Name(), err)
		}

		time.Sleep(pollInterval)
	}
}
