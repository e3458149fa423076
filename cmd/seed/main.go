package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/dmarkova/go-blog-platform/config"
	"github.com/dmarkova/go-blog-platform/pkg/helpers"
)

// Categories and tags have no management endpoints; this seeder is how they
// get into the database.
var (
	categories = []string{"General", "Tech", "Travel", "Food"}
	tags       = []string{"go", "postgres", "redis", "web", "notes"}
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, name := range categories {
		var id int64
		if err := db.QueryRow(`
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&id); err != nil {
			log.Fatalf("failed to seed category %q: %v", name, err)
		}
		fmt.Printf("category ensured: id=%d name=%s\n", id, name)
	}

	for _, name := range tags {
		var id int64
		if err := db.QueryRow(`
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&id); err != nil {
			log.Fatalf("failed to seed tag %q: %v", name, err)
		}
		fmt.Printf("tag ensured: id=%d name=%s\n", id, name)
	}

	username := "demo"
	password := "password123"
	email := "demo@example.com"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (username, password_hash, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, username, hash, email).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s password=%s\n", id, username, password)
}
