// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package metrics registers Prometheus instrumentation for the store, the
// membership engine, the lifecycle scheduler and the notification bus.
// All collectors are promauto-registered on the default registry and served
// by the ops HTTP endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	StoreLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_store_loads_total",
			Help: "Total collection loads from the backing files",
		},
		[]string{"collection", "result"}, // result: "ok", "healed"
	)

	StoreSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_store_saves_total",
			Help: "Total collection saves to the backing files",
		},
		[]string{"collection", "result"}, // result: "ok", "error"
	)

	StoreSaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dobrohub_store_save_duration_seconds",
			Help:    "Duration of atomic collection saves",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	// Cached reader metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_cache_hits_total",
			Help: "Collection reads served from the cached snapshot",
		},
		[]string{"collection"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_cache_misses_total",
			Help: "Collection reads that reloaded from the backing file",
		},
		[]string{"collection"},
	)

	// Membership engine metrics
	MembershipOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_membership_operations_total",
			Help: "Membership engine operations by outcome",
		},
		[]string{"operation", "outcome"}, // operation: join/leave/award/bulk_enroll; outcome: ok/not_found/no_capacity/unleaveable/unknown_user/error
	)

	LockTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dobrohub_lock_timeouts_total",
			Help: "Mutations that gave up waiting for a collection lock",
		},
	)

	// Scheduler metrics
	LifecycleTransitions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dobrohub_lifecycle_transitions_total",
			Help: "Projects moved from active to completing by the scheduler",
		},
	)

	SchedulerTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_scheduler_ticks_total",
			Help: "Scheduler ticks by kind",
		},
		[]string{"kind"}, // "completion", "review"
	)

	// Notification metrics
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dobrohub_notifications_published_total",
			Help: "Moderator notifications published by topic and result",
		},
		[]string{"topic", "result"}, // result: "ok", "error", "open_circuit"
	)
)
