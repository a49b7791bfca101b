// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package ops serves the operational HTTP surface: liveness and readiness
// probes and the Prometheus metrics endpoint. The chat transport does not go
// through this server; it exists for operators and the process supervisor.
package ops
