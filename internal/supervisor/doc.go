// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package supervisor builds the suture supervision tree for the backend.
//
// The tree has two layers under the root. The core layer holds the lifecycle
// scheduler; the ops layer holds the operational HTTP server. A crash in one
// layer restarts only that layer's services, so a scheduler panic never takes
// the probe endpoints down with it.
package supervisor
