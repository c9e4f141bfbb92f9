package main

import (
	"context"
	"log"
	"os"
	"time"

	"consulthub/internal/database"
	"consulthub/internal/repository"
)

// Prints payments whose escrow hold has lapsed and that still await
// release. Meant to run from cron; the payout process consumes the same
// query through the repository.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	payments := repository.NewPaymentRepository(db)
	due, err := payments.ListEscrowDue(context.Background(), time.Now().UTC())
	if err != nil {
		log.Fatalf("escrow query failed: %v", err)
	}

	var total int64
	for _, p := range due {
		payout := p.Amount - p.PlatformFee
		total += payout
		log.Printf("escrow_due reference=%s booking_id=%d expert_id=%d amount=%d fee=%d payout=%d release_date=%s",
			p.TransactionReference, p.BookingID, p.ExpertID, p.Amount, p.PlatformFee, payout,
			p.EscrowReleaseDate.Format(time.RFC3339))
	}

	log.Printf("escrow report completed: payments=%d total_payout=%d", len(due), total)
}
