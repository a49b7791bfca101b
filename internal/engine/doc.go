// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

/*
Package engine implements the project membership state machine on top of
the durable store: capacity-checked join and leave, approval-gated join
requests, point awards, fairness-constrained bulk enrollment and the
moderator archive decision.

Every mutation is a locked read-modify-write cycle: acquire the collection
locks (users before projects, always in that order), load private working
snapshots that bypass the read cache, apply the change through the single
addMembership/removeMembership code paths, and persist both sides together.
Capacity, not-found and lifecycle rejections are expected business outcomes
returned as sentinel errors, not failures; only lock timeouts and persist
errors are genuinely exceptional, and both leave state unchanged from the
caller's point of view.
*/
package engine
