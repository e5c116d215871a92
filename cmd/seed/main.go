// Command seed populates the StudySmarter database with demo accounts or a
// fake dataset, and can print fresh secrets for a .env file.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"studysmarter/internal/config"
	"studysmarter/internal/database"
	"studysmarter/internal/seed"
)

func main() {
	printSecrets := flag.Bool("print-secrets", false, "Print SECRET_KEY and JWT_SECRET_KEY values and exit")
	demo := flag.Bool("demo", true, "Create the demo accounts when the user table is empty")
	fakeUsers := flag.Int("fake", 0, "Number of fake users to generate (0 disables the fake dataset)")
	rooms := flag.Int("rooms", 1, "Study rooms per fake user")
	posts := flag.Int("posts", 3, "Posts per fake user")
	comments := flag.Int("comments", 2, "Comments per fake post")
	fakeSeed := flag.Int64("seed", 0, "Seed for reproducible fake data (0 picks a random seed)")
	flag.Parse()

	if *printSecrets {
		if err := seed.PrintSecrets(os.Stdout); err != nil {
			log.Fatalf("Failed to generate secrets: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	if *demo {
		n, err := seed.DemoUsers(ctx, db)
		if err != nil {
			log.Fatalf("Demo user seeding failed: %v", err)
		}
		log.Printf("Demo users created: %d", n)
	}

	if *fakeUsers > 0 {
		sum, err := seed.NewFactory(db, *fakeSeed).Dataset(ctx, seed.Options{
			Users:           *fakeUsers,
			RoomsPerUser:    *rooms,
			PostsPerUser:    *posts,
			CommentsPerPost: *comments,
		})
		if err != nil {
			log.Fatalf("Fake dataset seeding failed: %v", err)
		}
		log.Printf("Created %d users, %d rooms, %d posts, %d comments, %d media",
			sum.Users, sum.Rooms, sum.Posts, sum.Comments, sum.Media)
		log.Printf("All fake users have the password: %s", seed.FakePassword)
	}
}
