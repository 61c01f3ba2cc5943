package services

import (
	"github.com/robfig/cron/v3"

	"github.com/bugtrackpro/backend/pkg/logger"
)

// Sweeper periodically flips past-due pending invitations to expired.
// Reads already filter on expires_at, so the sweeper is about keeping the
// stored status column honest, not about correctness of reads.
type Sweeper struct {
	invites       *InvitationService
	cronScheduler *cron.Cron
}

func NewSweeper(invites *InvitationService) *Sweeper {
	return &Sweeper{invites: invites}
}

// Start schedules the hourly sweep and runs one immediately to catch up
// after downtime.
func (s *Sweeper) Start() error {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc("@hourly", s.runOnce); err != nil {
		return err
	}

	s.cronScheduler.Start()
	logger.Info().Msg("invitation expiry sweeper started")

	go s.runOnce()
	return nil
}

func (s *Sweeper) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *Sweeper) runOnce() {
	flipped, err := s.invites.SweepExpired()
	if err != nil {
		logger.Error().Err(err).Msg("invitation expiry sweep failed")
		return
	}
	if flipped > 0 {
		logger.Info().Int64("expired", flipped).Msg("swept past-due invitations")
	}
}
