// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package models

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for project due dates (DD.MM.YYYY), kept
// compatible with data files written by the legacy bot.
const DateLayout = "02.01.2006"

// Projects is the persisted projects collection: category -> project ID -> project.
type Projects map[Category]map[string]*Project

// Lifecycle is a project's position in the active -> completing -> completed
// progression. Only the first two states are ever persisted: the scheduler
// moves due projects to completing, and a moderator's archive decision removes
// the project, which is the completed terminal state.
type Lifecycle string

const (
	StateActive     Lifecycle = "active"
	StateCompleting Lifecycle = "completing"
	StateCompleted  Lifecycle = "completed"
)

// Project is a single volunteer project.
//
// MaxMembers is nil for unbounded capacity. Members maps user key to a join
// marker; the marker value carries no information beyond presence. Prize is
// string-encoded on the wire (legacy format).
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Prize       string `json:"prize"`

	MaxMembers *int               `json:"max_members"`
	Members    map[string]IntBool `json:"members"`

	ApprovalRequired IntBool `json:"approval_required"`
	Unleaveable      IntBool `json:"unleaveable"`
	Completed        IntBool `json:"completed"`

	URL          string `json:"url,omitempty"`
	PreviewPhoto string `json:"preview_photo,omitempty"`
}

// MemberCount returns the current number of members.
func (p *Project) MemberCount() int {
	return len(p.Members)
}

// HasCapacity reports whether at least one more member fits.
// Unbounded projects (nil MaxMembers) always have capacity.
func (p *Project) HasCapacity() bool {
	return p.MaxMembers == nil || len(p.Members) < *p.MaxMembers
}

// FreeSlots returns the remaining capacity, or -1 for unbounded projects.
func (p *Project) FreeSlots() int {
	if p.MaxMembers == nil {
		return -1
	}
	if n := *p.MaxMembers - len(p.Members); n > 0 {
		return n
	}
	return 0
}

// IsMember reports whether userKey is in the member map.
func (p *Project) IsMember(userKey string) bool {
	_, ok := p.Members[userKey]
	return ok
}

// PrizePoints parses the string-encoded prize value. Malformed values count
// as zero rather than failing a read path.
func (p *Project) PrizePoints() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Prize))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// DueDate parses the project due date. The zero time is returned for an
// unset or malformed date, which never matches a real scan date.
func (p *Project) DueDate() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DueOn reports whether the project's due date falls on the given day.
func (p *Project) DueOn(day time.Time) bool {
	return p.Date != "" && p.Date == day.Format(DateLayout)
}

// State derives the lifecycle state from the persisted completed flag.
// A completed project that still exists on disk is awaiting a moderator's
// archive decision, i.e. completing.
func (p *Project) State() Lifecycle {
	if bool(p.Completed) {
		return StateCompleting
	}
	return StateActive
}

// Hidden reports whether the project name carries the non-display prefix
// that keeps it out of normal listings.
func (p *Project) Hidden(prefix string) bool {
	return prefix != "" && strings.HasPrefix(p.Name, prefix)
}

// DisplayName returns the project name with the non-display prefix stripped.
func (p *Project) DisplayName(prefix string) string {
	if p.Hidden(prefix) {
		return p.Name[len(prefix):]
	}
	return p.Name
}
