// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package engine

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/dobrohub/dobrohub/internal/metrics"
	"github.com/dobrohub/dobrohub/internal/models"
	"github.com/dobrohub/dobrohub/internal/notify"
	"github.com/dobrohub/dobrohub/internal/store"
)

// Config holds engine tunables.
type Config struct {
	// LockTimeout bounds the wait for collection locks; expiry surfaces
	// as the retryable store.ErrLockTimeout.
	LockTimeout time.Duration

	// HiddenPrefix marks project names excluded from normal listings.
	HiddenPrefix string
}

// Engine is the membership state machine. All of its mutations go through
// the store's keyed locks; it keeps no mutable state of its own beyond one
// operation's scope.
type Engine struct {
	cfg      Config
	store    *store.Store
	locks    *store.KeyedLock
	notifier *notify.Notifier
	logger   zerolog.Logger
}

// New creates an Engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, st *store.Store, locks *store.KeyedLock, notifier *notify.Notifier, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    st,
		locks:    locks,
		notifier: notifier,
		logger:   logger.With().Str("component", "engine").Logger(),
	}
}

// lockBoth acquires the users and projects collection locks in that fixed
// order. Every dual-collection mutation uses this helper, so lock ordering
// is uniform and the pair cannot deadlock.
func (e *Engine) lockBoth(ctx context.Context) (func(), error) {
	releaseUsers, err := e.locks.Acquire(ctx, string(store.CollectionUsers), e.cfg.LockTimeout)
	if err != nil {
		return nil, err
	}
	releaseProjects, err := e.locks.Acquire(ctx, string(store.CollectionProjects), e.cfg.LockTimeout)
	if err != nil {
		releaseUsers()
		return nil, err
	}
	return func() {
		releaseProjects()
		releaseUsers()
	}, nil
}

// Join adds the user to the project, bidirectionally and capacity-checked.
// The working snapshot is loaded after the locks are held, so the capacity
// count reflects every previously committed join.
func (e *Engine) Join(ctx context.Context, userKey string, category models.Category, projectID string) error {
	err := e.join(ctx, userKey, category, projectID)
	metrics.MembershipOps.WithLabelValues("join", outcomeLabel(err)).Inc()
	return err
}

func (e *Engine) join(ctx context.Context, userKey string, category models.Category, projectID string) error {
	release, err := e.lockBoth(ctx)
	if err != nil {
		return err
	}
	defer release()

	users, projects, err := e.loadForUpdate()
	if err != nil {
		return err
	}

	user, ok := users[userKey]
	if !ok {
		return ErrNotFound
	}
	project, ok := projects[category][projectID]
	if !ok {
		return ErrNotFound
	}

	ref := models.NewProjectRef(category, projectID)
	if project.IsMember(userKey) {
		// Already joined; re-running an approval is a no-op, not an error.
		return nil
	}
	if !project.HasCapacity() {
		return ErrNoFreeCapacity
	}

	addMembership(user, project, userKey, ref)

	if err := e.store.SaveBoth(users, projects); err != nil {
		return err
	}
	e.logger.Info().Str("user", userKey).Str("project", ref.String()).Msg("user joined project")
	return nil
}

// Leave removes the user from the project, refusing when the project's
// unleaveable flag is set.
func (e *Engine) Leave(ctx context.Context, userKey string, category models.Category, projectID string) error {
	err := e.leave(ctx, userKey, category, projectID)
	metrics.MembershipOps.WithLabelValues("leave", outcomeLabel(err)).Inc()
	return err
}

func (e *Engine) leave(ctx context.Context, userKey string, category models.Category, projectID string) error {
	release, err := e.lockBoth(ctx)
	if err != nil {
		return err
	}
	defer release()

	users, projects, err := e.loadForUpdate()
	if err != nil {
		return err
	}

	user, ok := users[userKey]
	if !ok {
		return ErrNotFound
	}
	project, ok := projects[category][projectID]
	if !ok {
		return ErrNotFound
	}
	if !project.IsMember(userKey) {
		return ErrNotFound
	}
	if bool(project.Unleaveable) {
		return ErrUnleaveable
	}

	ref := models.NewProjectRef(category, projectID)
	removeMembership(user, project, userKey, ref)

	if err := e.store.SaveBoth(users, projects); err != nil {
		return err
	}
	e.logger.Info().Str("user", userKey).Str("project", ref.String()).Msg("user left project")
	return nil
}

// RequestApproval emits a join request to moderators. It mutates nothing;
// a granted approval invokes Join with the same arguments.
func (e *Engine) RequestApproval(userKey string, category models.Category, projectID string) error {
	users, err := e.store.Users()
	if err != nil {
		return err
	}
	projects, err := e.store.Projects()
	if err != nil {
		return err
	}

	user, ok := users[userKey]
	if !ok {
		return ErrNotFound
	}
	project, ok := projects[category][projectID]
	if !ok {
		return ErrNotFound
	}

	e.notifier.JoinRequested(notify.JoinRequest{
		ID:          notify.NewEventID(),
		UserKey:     userKey,
		UserName:    user.DisplayName(),
		Category:    category,
		ProjectID:   projectID,
		ProjectName: project.DisplayName(e.cfg.HiddenPrefix),
		MemberCount: project.MemberCount(),
		MaxMembers:  project.MaxMembers,
		RequestedAt: time.Now().UTC(),
	})
	return nil
}

// AwardPoints adds points to the user's score. Fractional awards round to
// the nearest integer; negative awards are rejected outright.
func (e *Engine) AwardPoints(ctx context.Context, userKey string, points float64) error {
	err := e.awardPoints(ctx, userKey, points)
	metrics.MembershipOps.WithLabelValues("award", outcomeLabel(err)).Inc()
	return err
}

func (e *Engine) awardPoints(ctx context.Context, userKey string, points float64) error {
	if points < 0 {
		return ErrNegativePoints
	}

	release, err := e.locks.Acquire(ctx, string(store.CollectionUsers), e.cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer release()

	users, err := e.store.UsersForUpdate()
	if err != nil {
		return err
	}
	user, ok := users[userKey]
	if !ok {
		return ErrUnknownUser
	}

	awarded := int(math.Round(points))
	user.Score += awarded

	if err := e.store.SaveUsers(users); err != nil {
		return err
	}
	e.logger.Info().Str("user", userKey).Int("points", awarded).Int("score", user.Score).
		Msg("points awarded")
	return nil
}

// loadForUpdate reads private working snapshots of both collections with
// the locks already held.
func (e *Engine) loadForUpdate() (models.Users, models.Projects, error) {
	users, err := e.store.UsersForUpdate()
	if err != nil {
		return nil, nil, err
	}
	projects, err := e.store.ProjectsForUpdate()
	if err != nil {
		return nil, nil, err
	}
	return users, projects, nil
}

// addMembership is the single code path that creates a membership. Both
// sides of the bidirectional invariant change here and nowhere else.
func addMembership(user *models.User, project *models.Project, userKey string, ref models.ProjectRef) {
	if project.Members == nil {
		project.Members = map[string]models.IntBool{}
	}
	project.Members[userKey] = true
	user.AddProject(ref)
}

// removeMembership is the single code path that removes a membership.
func removeMembership(user *models.User, project *models.Project, userKey string, ref models.ProjectRef) {
	delete(project.Members, userKey)
	user.RemoveProject(ref)
}

// outcomeLabel maps an operation result to a metric label.
func outcomeLabel(err error) string {
	switch err {
	case nil:
		return "ok"
	case ErrNotFound:
		return "not_found"
	case ErrNoFreeCapacity:
		return "no_capacity"
	case ErrUnleaveable:
		return "unleaveable"
	case ErrUnknownUser:
		return "unknown_user"
	case ErrNegativePoints:
		return "negative_points"
	case store.ErrLockTimeout:
		return "lock_timeout"
	default:
		return "error"
	}
}
