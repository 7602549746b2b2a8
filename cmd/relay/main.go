package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"shopcart/internal"
	"shopcart/internal/cache"
	"shopcart/internal/es"
	"shopcart/internal/relay"
	"shopcart/internal/util"
)

const pollInterval = 2 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()
	pool := internal.MustDBPool(ctx)
	defer pool.Close()

	redisClient := util.Must(cache.NewRedisClient(cache.RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		PoolSize: 5,
	}))

	writer := &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    "shopping-cart-events",
		Balancer: &kafka.Hash{},
	}
	defer writer.Close()

	store := es.NewPGEventStore(pool)
	r := relay.New(writer, relay.NewRedisCheckpoint(redisClient))
	subscription := es.NewSubscription(store, 100)

	for {
		if err := subscription.CatchUp(ctx, r); err != nil {
			log.Fatalf("Unable to relay events: %v", err)
		}

		time.Sleep(pollInterval)
	}
}
