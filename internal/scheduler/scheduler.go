// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dobrohub/dobrohub/internal/metrics"
	"github.com/dobrohub/dobrohub/internal/models"
	"github.com/dobrohub/dobrohub/internal/notify"
	"github.com/dobrohub/dobrohub/internal/store"
)

// Completion markers prepended when a project's due date arrives. The exact
// strings are load-bearing: they double as the idempotency guard, and data
// files written by the legacy bot already carry them on completed projects.
const (
	completedNameMarker = "🔚 Завершён:"
	completedDescMarker = "🔚 Этот проект завершается сегодня, не забудьте отправить достаточно фотографий, для получения баллов! 🔚"
)

// Config holds scheduler tunables.
type Config struct {
	// CompletionInterval is the cadence of the due-date scan.
	CompletionInterval time.Duration

	// ReviewInterval is the cadence of the moderator review scan.
	ReviewInterval time.Duration

	// LockTimeout bounds the wait for the projects collection lock.
	LockTimeout time.Duration
}

// Scheduler runs the lifecycle scans. It takes the same collection locks as
// the membership engine; it is not a privileged writer.
type Scheduler struct {
	cfg      Config
	store    *store.Store
	locks    *store.KeyedLock
	notifier *notify.Notifier
	logger   zerolog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// New creates a Scheduler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, st *store.Store, locks *store.KeyedLock, notifier *notify.Notifier, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		store:    st,
		locks:    locks,
		notifier: notifier,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// Serve implements the suture.Service interface. It runs both scans on their
// configured cadences until the context is cancelled.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("completion_interval", s.cfg.CompletionInterval).
		Dur("review_interval", s.cfg.ReviewInterval).
		Msg("lifecycle scheduler starting")

	completionTicker := time.NewTicker(s.cfg.CompletionInterval)
	defer completionTicker.Stop()
	reviewTicker := time.NewTicker(s.cfg.ReviewInterval)
	defer reviewTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("lifecycle scheduler shutting down")
			return ctx.Err()

		case <-completionTicker.C:
			if _, err := s.RunCompletionScan(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("completion scan failed")
			}

		case <-reviewTicker.C:
			if err := s.RunReviewScan(); err != nil {
				s.logger.Warn().Err(err).Msg("review scan failed")
			}
		}
	}
}

// String returns the service name for supervisor logging.
func (s *Scheduler) String() string {
	return "lifecycle-scheduler"
}

// RunCompletionScan moves every active project due today to completing and
// returns how many projects it transitioned. The marker guard makes a rerun
// on the same day a no-op, and nothing is written when no project is due.
func (s *Scheduler) RunCompletionScan(ctx context.Context) (int, error) {
	metrics.SchedulerTicks.WithLabelValues("completion").Inc()

	release, err := s.locks.Acquire(ctx, string(store.CollectionProjects), s.cfg.LockTimeout)
	if err != nil {
		return 0, err
	}
	defer release()

	projects, err := s.store.ProjectsForUpdate()
	if err != nil {
		return 0, err
	}

	today := s.now()
	transitioned := 0
	for category, byID := range projects {
		for id, project := range byID {
			if !project.DueOn(today) || alreadyMarked(project) {
				continue
			}
			project.Name = completedNameMarker + " " + project.Name
			project.Description = completedDescMarker + "\n\n" + project.Description
			project.Unleaveable = true
			project.Completed = true
			transitioned++

			metrics.LifecycleTransitions.Inc()
			s.logger.Info().
				Str("project", models.NewProjectRef(category, id).String()).
				Msg("project moved to completing")
		}
	}

	if transitioned == 0 {
		return 0, nil
	}
	if err := s.store.SaveProjects(projects); err != nil {
		return 0, err
	}
	return transitioned, nil
}

// RunReviewScan surfaces every completing project to moderators for the
// archive-or-reward decision. It reads through the cache and writes nothing.
func (s *Scheduler) RunReviewScan() error {
	metrics.SchedulerTicks.WithLabelValues("review").Inc()

	projects, err := s.store.Projects()
	if err != nil {
		return err
	}

	for category, byID := range projects {
		for id, project := range byID {
			if project.State() != models.StateCompleting {
				continue
			}
			s.notifier.ProjectNeedsReview(notify.ProjectReview{
				ID:          notify.NewEventID(),
				Category:    category,
				ProjectID:   id,
				ProjectName: project.Name,
				Date:        project.Date,
				Prize:       project.Prize,
				MemberCount: project.MemberCount(),
			})
		}
	}
	return nil
}

// alreadyMarked reports whether a prior scan already stamped the project.
func alreadyMarked(p *models.Project) bool {
	return strings.HasPrefix(p.Name, completedNameMarker) ||
		strings.HasPrefix(p.Description, completedDescMarker)
}
