// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package notify

import (
	"time"

	"github.com/dobrohub/dobrohub/internal/models"
)

// JoinRequest asks moderators to approve a user's membership in a project
// with approval_required set. Approving it invokes the same join operation
// as a direct join; the request itself is never persisted.
type JoinRequest struct {
	ID       string `json:"id"`
	UserKey  string `json:"user_key"`
	UserName string `json:"user_name"`

	Category    models.Category `json:"category"`
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`

	// Occupancy at the time of the request, for the moderator's decision.
	MemberCount int  `json:"member_count"`
	MaxMembers  *int `json:"max_members"`

	RequestedAt time.Time `json:"requested_at"`
}

// ProjectReview surfaces a completing project for a manual archive-or-reward
// decision. Emitted by the scheduler's review tick, which mutates nothing.
type ProjectReview struct {
	ID string `json:"id"`

	Category    models.Category `json:"category"`
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Date        string          `json:"date"`
	Prize       string          `json:"prize"`
	MemberCount int             `json:"member_count"`
}

// EnrollmentResult reports the per-candidate outcome of a bulk enrollment.
// Partial success is the normal outcome, not an error.
type EnrollmentResult struct {
	ID string `json:"id"`

	Category    models.Category `json:"category"`
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`

	Added  int      `json:"added"`
	Failed int      `json:"failed"`
	Users  []string `json:"users"`
}
