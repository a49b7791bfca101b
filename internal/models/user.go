// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package models

import "strings"

// legacyUnset is the placeholder the legacy bot wrote into profile fields that
// were never filled in. Data files produced by the legacy bot are still loaded
// verbatim, so the placeholder has to keep counting as "empty".
const legacyUnset = "Не указано"

// Users is the persisted users collection: user key -> profile.
// The user key is opaque to this package (the chat layer derives it from the
// transport's account identifier).
type Users map[string]*User

// User is a registered member profile.
//
// Score is a non-negative running total of awarded points. Ban is a soft flag;
// banned users are never physically deleted. ActiveProjects mirrors project
// member maps and must stay bidirectionally consistent with them; only the
// membership engine mutates either side.
type User struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	FirstID  string `json:"IDfirst"`

	Score     int     `json:"score"`
	Ban       IntBool `json:"ban"`
	Moderator bool    `json:"moderator"`

	ActiveProjects []ProjectRef `json:"active_projects"`
}

// fieldSet reports whether a profile field holds a real value.
func fieldSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != legacyUnset
}

// ProfileComplete reports whether the user filled in every field required for
// project participation and bulk-enrollment eligibility.
func (u *User) ProfileComplete() bool {
	return fieldSet(u.Name) && fieldSet(u.Surname) && fieldSet(u.FirstID) && fieldSet(u.Phone)
}

// DisplayName returns "Name Surname", falling back to the username when both
// name parts are unset.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(joinSet(u.Name) + " " + joinSet(u.Surname))
	if name != "" {
		return name
	}
	if fieldSet(u.Username) {
		return u.Username
	}
	return "Unknown user"
}

func joinSet(v string) string {
	if fieldSet(v) {
		return strings.TrimSpace(v)
	}
	return ""
}

// Banned reports whether the user is soft-banned.
func (u *User) Banned() bool {
	return bool(u.Ban)
}

// HasProject reports whether ref appears in the user's active project list.
func (u *User) HasProject(ref ProjectRef) bool {
	for _, r := range u.ActiveProjects {
		if r == ref {
			return true
		}
	}
	return false
}

// AddProject appends ref to the active list if not already present.
func (u *User) AddProject(ref ProjectRef) {
	if !u.HasProject(ref) {
		u.ActiveProjects = append(u.ActiveProjects, ref)
	}
}

// RemoveProject removes ref from the active list, preserving order.
func (u *User) RemoveProject(ref ProjectRef) {
	kept := u.ActiveProjects[:0]
	for _, r := range u.ActiveProjects {
		if r != ref {
			kept = append(kept, r)
		}
	}
	u.ActiveProjects = kept
}
