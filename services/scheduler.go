// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartClaimSweeper runs a periodic purge of expired ephemeral free claims.
// Expiry is already enforced lazily on every read; the sweep only keeps the
// map from accumulating dead entries between reads.
func (s *OrderService) StartClaimSweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if n := s.FreeClaims.Sweep(); n > 0 {
				log.Printf("[SWEEPER] purged %d expired free claims", n)
			}
		}),
	)
}
