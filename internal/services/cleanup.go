package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sweepTimeout = 5 * time.Minute

// SweepReport summarizes one cleanup pass
type SweepReport struct {
	Candidates int `json:"candidates"`
	Purged     int `json:"purged"`
	Failed     int `json:"failed"`
}

// CleanupScheduler periodically purges completed profiles whose grace
// period has elapsed. The sweep runs in the background, independent of
// request traffic.
type CleanupScheduler struct {
	profiles *ProfileService
	spec     string
	cron     *cron.Cron
}

// NewCleanupScheduler creates a scheduler driven by a cron expression
func NewCleanupScheduler(profiles *ProfileService, cronSpec string) *CleanupScheduler {
	return &CleanupScheduler{
		profiles: profiles,
		spec:     cronSpec,
		cron:     cron.New(),
	}
}

// Start registers the cron entry and begins ticking
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.SweepOnce(ctx, time.Now())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("cron_spec", s.spec).Msg("Cleanup scheduler started")
	return nil
}

// Stop halts the ticker. A sweep already in flight finishes on its own.
func (s *CleanupScheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("Cleanup scheduler stopped")
}

// SweepOnce purges every profile whose scheduled deletion time has
// passed. Each candidate is attempted exactly once; a failure is logged
// and counted, and the sweep moves on. Failed candidates come up again
// on the next run.
func (s *CleanupScheduler) SweepOnce(ctx context.Context, now time.Time) SweepReport {
	var report SweepReport

	candidates, err := s.profiles.ExpiredProfiles(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Cleanup sweep could not list candidates")
		return report
	}
	report.Candidates = len(candidates)

	for _, p := range candidates {
		if err := s.profiles.Purge(ctx, p); err != nil {
			log.Error().Err(err).Str("profile_id", p.ID).Msg("Failed to purge profile")
			report.Failed++
			continue
		}
		report.Purged++
	}

	log.Info().
		Int("candidates", report.Candidates).
		Int("purged", report.Purged).
		Int("failed", report.Failed).
		Msg("Cleanup sweep finished")

	return report
}
