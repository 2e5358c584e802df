package service

import (
	"context"
	"fmt"
	"log"

	"prenotazioni/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// SweepBookingStatuses advances bookings whose time has passed: confirmed
// bookings become completed, pending ones become no_show. Run from cron.
func (s *JobService) SweepBookingStatuses(ctx context.Context) error {
	completed, noShow, err := s.Repo.SweepPastBookings(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to sweep past bookings: %w", err)
	}
	if len(completed) == 0 && len(noShow) == 0 {
		log.Println("Cron Job: no past bookings to sweep")
		return nil
	}
	log.Printf("Cron Job: marked %d bookings completed (%v) and %d no-show (%v)",
		len(completed), completed, len(noShow), noShow)
	return nil
}

// CloseStaleCalls fails call logs that never received an end event.
func (s *JobService) CloseStaleCalls(ctx context.Context) error {
	closed, err := s.Repo.CloseStaleCalls(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to close stale call logs: %w", err)
	}
	if closed > 0 {
		log.Printf("Cron Job: closed %d stale call logs as failed", closed)
	}
	return nil
}
