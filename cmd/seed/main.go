// Command main runs the database seeder for abuse.bin.
package main

import (
	"flag"
	"log"

	"abusebin/internal/bootstrap"
	"abusebin/internal/config"
	"abusebin/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of demo users to create")
	numPastes := flag.Int("pastes", 200, "Number of demo pastes to create")
	demo := flag.Bool("demo", true, "Also generate fake demo data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if *demo {
		if err := seed.Demo(db, *numUsers, *numPastes); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		log.Println("All demo users have the password: Password123!")
	}

	log.Println("Seeding complete.")
}
