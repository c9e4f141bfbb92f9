package main

import (
	"fmt"
	"log"
	"os"

	"consulthub/internal/database"
	"consulthub/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "consulthub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM listings")

	log.Println("Creating listings...")
	listings := []domain.Listing{
		{ExpertID: 101, Title: "Tax consultation", Description: "One hour on personal and small business tax", Price: 20000},
		{ExpertID: 101, Title: "Company registration walkthrough", Description: "Paperwork and filings, start to finish", Price: 45000},
		{ExpertID: 102, Title: "Contract review", Description: "Line by line review with written notes", Price: 35000},
		{ExpertID: 103, Title: "Career coaching session", Description: "CV, interviews, negotiation", Price: 15000},
		{ExpertID: 104, Title: "Product analytics audit", Description: "Funnels, retention, instrumentation gaps", Price: 99999},
	}
	for i := range listings {
		if err := db.Create(&listings[i]).Error; err != nil {
			log.Fatal("seed listing failed:", err)
		}
		fmt.Printf("listing %d: %s (%d)\n", listings[i].ID, listings[i].Title, listings[i].Price)
	}

	log.Printf("Seed completed: %d listings", len(listings))
}
