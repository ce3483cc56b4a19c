package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/natoursapp/natours-api/config"
	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/pkg/helpers"
)

type seedTour struct {
	Name           string  `json:"name"`
	DurationDays   int     `json:"duration_days"`
	MaxGroupSize   int     `json:"max_group_size"`
	Difficulty     string  `json:"difficulty"`
	Price          float64 `json:"price"`
	Summary        string  `json:"summary"`
	Description    string  `json:"description"`
	ImageCoverURL  string  `json:"image_cover_url"`
	StartLat       float64 `json:"start_lat"`
	StartLng       float64 `json:"start_lng"`
	RatingsAverage float64 `json:"ratings_average"`
	RatingsCount   int     `json:"ratings_count"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seedAdmin(db, cfg)
	seedTours(db, getenvDefault("TOURS_JSON", "dev-data/tours.json"))
}

func seedAdmin(db *sql.DB, cfg *config.Config) {
	email := getenvDefault("SEED_ADMIN_EMAIL", "admin@natours.dev")
	password := getenvDefault("SEED_ADMIN_PASSWORD", "changeme8")

	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, role, password_hash)
		VALUES ($1, $2, 'admin', $3)
		ON CONFLICT (email) DO UPDATE SET role = 'admin'
		RETURNING id
	`, "Admin", email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", id, email)
}

func seedTours(db *sql.DB, path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("no tour data at %s, skipping tours (%v)", path, err)
		return
	}
	var tours []seedTour
	if err := json.Unmarshal(b, &tours); err != nil {
		log.Fatalf("invalid tour data: %v", err)
	}

	n := 0
	for _, t := range tours {
		_, err := db.Exec(`
			INSERT INTO tours (name, slug, duration_days, max_group_size, difficulty, price,
				summary, description, ratings_average, ratings_count, image_cover_url,
				start_lat, start_lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (name) DO NOTHING
		`, t.Name, application.Slugify(t.Name), t.DurationDays, t.MaxGroupSize, t.Difficulty,
			t.Price, t.Summary, t.Description, t.RatingsAverage, t.RatingsCount,
			t.ImageCoverURL, t.StartLat, t.StartLng)
		if err != nil {
			log.Fatalf("failed to seed tour %q: %v", t.Name, err)
		}
		n++
	}
	fmt.Printf("seeded %d tours from %s\n", n, path)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
