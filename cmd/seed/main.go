// Command seed populates the database with demo users, reviews, and comments.
package main

import (
	"flag"
	"log"

	"bookden/internal/config"
	"bookden/internal/database"
	"bookden/internal/seed"
)

func main() {
	opts := seed.DefaultOptions

	flag.IntVar(&opts.NumUsers, "users", opts.NumUsers, "number of demo users to create")
	flag.IntVar(&opts.NumReviews, "reviews", opts.NumReviews, "number of reviews to create")
	flag.IntVar(&opts.NumComments, "comments", opts.NumComments, "number of comments to create")
	flag.BoolVar(&opts.ShouldClean, "clean", opts.ShouldClean, "remove previously seeded data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
