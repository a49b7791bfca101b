// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

/*
Package notify carries moderator-facing notifications over a Watermill
in-process Pub/Sub channel.

The membership engine and the lifecycle scheduler publish typed events
(join requests awaiting approval, projects awaiting an archive decision,
bulk-enrollment results); the chat layer subscribes and renders them.
Delivery is fire-and-forget: a publish failure is logged and counted but
never blocks or fails the operation that produced it. Publishes run behind
a circuit breaker so a wedged consumer cannot stall mutation paths.
*/
package notify
