// Command main runs the database seeder for Paperless Audit.
package main

import (
	"flag"
	"log"

	"github.com/Thintalltom/Paperless-Audit/internal/config"
	"github.com/Thintalltom/Paperless-Audit/internal/database"
	"github.com/Thintalltom/Paperless-Audit/internal/seed"
)

func main() {
	numInitiators := flag.Int("initiators", 10, "Number of initiator accounts to create")
	numRequests := flag.Int("requests", 40, "Number of expense requests to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	domain := flag.String("domain", "lagos.example.com", "Email domain for generated initiators")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d initiators, %d requests, clean=%v\n", *numInitiators, *numRequests, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumInitiators:   *numInitiators,
		NumRequests:     *numRequests,
		ShouldClean:     *shouldClean,
		InitiatorDomain: *domain,
	})

	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with demo data.")
	log.Printf("All seeded accounts share the password: %s", "Password123!Demo")
}
