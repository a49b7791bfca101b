// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package scheduler advances project lifecycle state on a wall-clock cadence.
//
// Two independently timed scans run inside one supervised service. The
// completion scan moves projects whose due date is today from active to
// completing: it prepends the completion markers to the project's name and
// description, sets the unleaveable and completed flags, and persists the
// change through the same store and collection locks the membership engine
// uses. The marker prepend is guarded so a second scan on the same day
// changes nothing. The review scan notifies moderators of every completing
// project awaiting an archive-or-reward decision; it mutates no state.
package scheduler
