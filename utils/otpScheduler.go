package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"coursehub/repository"
)

// logSweeper logs sweeper events with timestamp
func logSweeper(message string) {
	log.Printf("[OTP-SWEEPER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartOTPSweeper runs the expiry sweep every 60 seconds, concurrently with
// request handling. A failed run is logged and the next scheduled run retries
// on its own; the sweep is idempotent so no backoff is needed.
func StartOTPSweeper(otps repository.OTPRepository) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@every 1m", func() {
		deleted, err := otps.SweepExpired(time.Now())
		if err != nil {
			logSweeper("Error sweeping expired OTP records: " + err.Error())
			return
		}
		if deleted > 0 {
			logSweeper(fmt.Sprintf("Removed %d expired OTP records", deleted))
		}
	})
	if err != nil {
		log.Fatalf("Failed to register OTP sweeper: %v", err)
	}

	c.Start()
	return c
}
