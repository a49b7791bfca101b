// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package engine

import (
	"context"
	"sort"

	"github.com/dobrohub/dobrohub/internal/models"
)

// ProjectSummary is one row of a category listing.
type ProjectSummary struct {
	ID          string
	Name        string
	MemberCount int
	MaxMembers  *int
	State       models.Lifecycle
}

// VisibleProjects lists a category's projects for a user. Projects whose
// name carries the hidden prefix appear only to their own members. Results
// are sorted by project ID for a stable menu order.
func (e *Engine) VisibleProjects(category models.Category, userKey string) ([]ProjectSummary, error) {
	if !category.Valid() {
		return nil, ErrNotFound
	}
	projects, err := e.store.Projects()
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(projects[category]))
	for id, p := range projects[category] {
		if p.Hidden(e.cfg.HiddenPrefix) && !p.IsMember(userKey) {
			continue
		}
		summaries = append(summaries, ProjectSummary{
			ID:          id,
			Name:        p.DisplayName(e.cfg.HiddenPrefix),
			MemberCount: p.MemberCount(),
			MaxMembers:  p.MaxMembers,
			State:       p.State(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// CompleteResult reports a project archive decision.
type CompleteResult struct {
	Members      int
	PrizeAwarded int
}

// CompleteProject executes a moderator's archive-or-reward decision, the
// terminal lifecycle transition: optionally award the project's prize to
// every member, detach the membership from each member's active list, and
// remove the project.
func (e *Engine) CompleteProject(ctx context.Context, category models.Category, projectID string, award bool) (CompleteResult, error) {
	release, err := e.lockBoth(ctx)
	if err != nil {
		return CompleteResult{}, err
	}
	defer release()

	users, projects, err := e.loadForUpdate()
	if err != nil {
		return CompleteResult{}, err
	}
	project, ok := projects[category][projectID]
	if !ok {
		return CompleteResult{}, ErrNotFound
	}

	ref := models.NewProjectRef(category, projectID)
	prize := project.PrizePoints()

	result := CompleteResult{Members: project.MemberCount()}
	for key := range project.Members {
		user, ok := users[key]
		if !ok {
			continue
		}
		user.RemoveProject(ref)
		if award {
			user.Score += prize
			result.PrizeAwarded += prize
		}
	}
	delete(projects[category], projectID)

	if err := e.store.SaveBoth(users, projects); err != nil {
		return CompleteResult{}, err
	}

	e.logger.Info().Str("project", ref.String()).Bool("award", award).
		Int("members", result.Members).Msg("project completed")
	return result, nil
}
