// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package engine

import "errors"

// Business outcome errors. These are expected results of membership
// operations and carry no stack context; the chat layer maps them to
// specific, actionable user messages.
var (
	// ErrNotFound means the referenced category, project or user does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoFreeCapacity means the project's member map is at max_members.
	ErrNoFreeCapacity = errors.New("no free capacity")

	// ErrUnleaveable means the project's unleaveable flag is set.
	ErrUnleaveable = errors.New("project cannot be left")

	// ErrUnknownUser means a point award referenced a missing user.
	ErrUnknownUser = errors.New("unknown user")

	// ErrNegativePoints means a point award carried a negative value;
	// points are non-negative by design and the award is rejected rather
	// than silently applied.
	ErrNegativePoints = errors.New("points must be non-negative")
)
