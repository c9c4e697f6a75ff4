// Seeds the sample catalog. Safe to run repeatedly: it skips seeding when
// any products already exist.
package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/db"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/shopspring/decimal"
)

func main() {
	cred := &db.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              getEnvInt("DB_PORT", 5432),
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "go_shop"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./migrations"),
	}

	conn, err := db.Connect(cred)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer conn.Close()

	if errMig := db.RunMigrations(conn, cred); errMig != nil {
		log.Fatalf("Failed to run migrations: %v", errMig)
	}

	repo := catalog.NewRepository(conn)
	ctx := context.Background()

	count, err := repo.CountProducts(ctx)
	if err != nil {
		log.Fatalf("Failed to count products: %v", err)
	}
	if count > 0 {
		log.Println("Products already exist. Skipping.")
		return
	}

	products := []*domain.Product{
		{Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("24.99"),
			ImageURL: "https://picsum.photos/seed/mouse/400/240", Category: "Electronics"},
		{Name: "Mechanical Keyboard", Description: "RGB mechanical keyboard", Price: decimal.RequireFromString("79.99"),
			ImageURL: "https://picsum.photos/seed/keyboard/400/240", Category: "Electronics"},
		{Name: "Water Bottle", Description: "Insulated stainless steel bottle", Price: decimal.RequireFromString("19.99"),
			ImageURL: "https://picsum.photos/seed/bottle/400/240", Category: "Home"},
		{Name: "Notebook", Description: "Hardcover ruled notebook", Price: decimal.RequireFromString("9.99"),
			ImageURL: "https://picsum.photos/seed/notebook/400/240", Category: "Stationery"},
	}

	for _, p := range products {
		if errCreate := repo.CreateProduct(ctx, p); errCreate != nil {
			log.Fatalf("Failed to create product %q: %v", p.Name, errCreate)
		}
	}
	log.Printf("Seeded %d products.", len(products))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
