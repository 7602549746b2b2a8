package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"shopcart/internal"
)

func main() {
	fmt.Println("Migrating database...")

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()
	conn := internal.MustDBConn(ctx)
	defer conn.Close(ctx)

	sqlFile, err := os.ReadFile("cmd/db_migrations/create_events_table.sql")
	if err != nil {
		log.Fatalf("Unable to read SQL file: %v\n", err)
	}

	if _, err := conn.Exec(ctx, string(sqlFile)); err != nil {
		log.Fatalf("Unable to execute migration: %v\n", err)
	}

	fmt.Println("Migration executed successfully.")
}
