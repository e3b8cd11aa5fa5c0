// Command main runs the database seeder for PulsePost.
package main

import (
	"flag"
	"log"

	"pulsepost/internal/config"
	"pulsepost/internal/database"
	"pulsepost/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 150, "Number of post records to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d post records, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	created, err := s.SeedHistory(users, *numPosts)
	if err != nil {
		log.Fatalf("History seeding failed: %v", err)
	}

	log.Printf("Seeded %d users and %d post records.", len(users), created)
	log.Printf("All test users have the password: %s", seed.DefaultPassword)
}
