// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package engine

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/dobrohub/dobrohub/internal/metrics"
	"github.com/dobrohub/dobrohub/internal/models"
	"github.com/dobrohub/dobrohub/internal/notify"
)

// Candidate is one user eligible for bulk enrollment.
type Candidate struct {
	UserKey  string
	Name     string
	Username string
	Score    int
}

// BulkResult summarizes a bulk enrollment. Partial success is the normal
// outcome: one candidate's failure never aborts the rest.
type BulkResult struct {
	Added    int
	Failed   int
	AddedKey []string
}

// SelectRandomCandidates computes the eligible set for the project (users
// who are not members, not banned, have a complete profile and a
// non-negative score) and returns at most count of them. When the eligible
// set is larger than count, a uniformly shuffled prefix is returned; each
// invocation is independent and may legitimately produce a different sample.
func (e *Engine) SelectRandomCandidates(category models.Category, projectID string, count int) ([]Candidate, error) {
	if count <= 0 {
		return nil, nil
	}

	users, err := e.store.Users()
	if err != nil {
		return nil, err
	}
	projects, err := e.store.Projects()
	if err != nil {
		return nil, err
	}
	project, ok := projects[category][projectID]
	if !ok {
		return nil, ErrNotFound
	}

	eligible := make([]Candidate, 0, len(users))
	for key, user := range users {
		if project.IsMember(key) || user.Banned() || !user.ProfileComplete() || user.Score < 0 {
			continue
		}
		eligible = append(eligible, Candidate{
			UserKey:  key,
			Name:     user.DisplayName(),
			Username: user.Username,
			Score:    user.Score,
		})
	}

	if len(eligible) <= count {
		return eligible, nil
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	return eligible[:count], nil
}

// BulkEnroll joins each candidate in sequence, counting successes and
// failures independently, then notifies moderators of the outcome. A
// capacity exhaustion partway through stops nobody else from being tried;
// it just lands in the failed count.
func (e *Engine) BulkEnroll(ctx context.Context, category models.Category, projectID string, candidateKeys []string) (BulkResult, error) {
	projects, err := e.store.Projects()
	if err != nil {
		return BulkResult{}, err
	}
	project, ok := projects[category][projectID]
	if !ok {
		return BulkResult{}, ErrNotFound
	}
	projectName := project.DisplayName(e.cfg.HiddenPrefix)

	var result BulkResult
	for _, key := range candidateKeys {
		if err := e.Join(ctx, key, category, projectID); err != nil {
			if !errors.Is(err, ErrNoFreeCapacity) && !errors.Is(err, ErrNotFound) {
				e.logger.Warn().Err(err).Str("user", key).Msg("bulk enroll candidate failed")
			}
			result.Failed++
			continue
		}
		result.Added++
		result.AddedKey = append(result.AddedKey, key)
	}

	metrics.MembershipOps.WithLabelValues("bulk_enroll", "ok").Inc()
	e.notifier.EnrollmentCompleted(notify.EnrollmentResult{
		ID:          notify.NewEventID(),
		Category:    category,
		ProjectID:   projectID,
		ProjectName: projectName,
		Added:       result.Added,
		Failed:      result.Failed,
		Users:       result.AddedKey,
	})
	return result, nil
}
