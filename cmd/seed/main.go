// Command seed populates the database with demo listings for local
// development.
package main

import (
	"flag"
	"log"

	"yanjihub/internal/config"
	"yanjihub/internal/database"
	"yanjihub/internal/seed"
)

func main() {
	posts := flag.Int("posts", 3, "listings per category")
	comments := flag.Int("comments", 2, "comments per active listing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	factory := seed.NewFactory(db, seed.Options{
		PostsPerCategory: *posts,
		CommentsPerPost:  *comments,
	})
	if err := factory.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
