// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package main is the entry point for the Dobrohub backend server.
//
// Dobrohub coordinates volunteer projects for a community chat bot: it owns
// the durable users and projects collections, the capacity-checked membership
// engine, the score leaderboard and the project lifecycle scheduler. The chat
// transport itself is an external collaborator that calls the engine's API
// and consumes moderator notifications from the in-process bus.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, YAML file, env)
//  2. Logging: zerolog global sink, JSON or console format
//  3. Store: both backing JSON documents self-healed on boot
//  4. Notifier: watermill gochannel Pub/Sub for moderator notifications
//  5. Engine: membership state machine over the store and collection locks
//  6. Scheduler: lifecycle completion and review scans
//  7. Supervisor tree: scheduler (core layer) and ops HTTP server (ops layer)
//
// # Configuration
//
// All settings carry the DOBROHUB_ environment prefix; see internal/config
// for the full key list. The data directory defaults to ./data with
// users.json and projects.json inside.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful stop: the supervisor tree shuts its
// services down within the configured timeout and pending saves complete
// before exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dobrohub/dobrohub/internal/config"
	"github.com/dobrohub/dobrohub/internal/engine"
	"github.com/dobrohub/dobrohub/internal/logging"
	"github.com/dobrohub/dobrohub/internal/notify"
	"github.com/dobrohub/dobrohub/internal/ops"
	"github.com/dobrohub/dobrohub/internal/scheduler"
	"github.com/dobrohub/dobrohub/internal/store"
	"github.com/dobrohub/dobrohub/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dobrohub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger := logging.Logger()
	logger.Info().Str("data_dir", cfg.Data.Dir).Msg("dobrohub starting")

	st := store.New(store.Config{
		UsersPath:    cfg.UsersPath(),
		ProjectsPath: cfg.ProjectsPath(),
		CacheTTL:     cfg.Data.CacheTTL,
	}, logger)
	if err := st.EnsureFiles(); err != nil {
		return fmt.Errorf("prepare backing files: %w", err)
	}

	notifier := notify.New(notify.Topics{
		JoinRequests:  cfg.Notify.JoinRequestTopic,
		ProjectReview: cfg.Notify.ReviewTopic,
		Enrollment:    cfg.Notify.EnrollmentTopic,
	}, logger)
	defer notifier.Close()

	locks := store.NewKeyedLock()

	// The engine is handed to the chat transport by the embedding process;
	// constructing it here also validates the wiring at boot.
	_ = engine.New(engine.Config{
		LockTimeout:  cfg.Engine.LockTimeout,
		HiddenPrefix: cfg.Engine.HiddenPrefix,
	}, st, locks, notifier, logger)

	sched := scheduler.New(scheduler.Config{
		CompletionInterval: cfg.Scheduler.CompletionInterval,
		ReviewInterval:     cfg.Scheduler.ReviewInterval,
		LockTimeout:        cfg.Engine.LockTimeout,
	}, st, locks, notifier, logger)

	opsServer := ops.NewServer(ops.Config{
		Addr:        cfg.Ops.Addr,
		RequestRate: cfg.Ops.RequestsPerMinute,
	}, st, logger)

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig())
	tree.AddCoreService(sched)
	tree.AddOpsService(opsServer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("ops_addr", cfg.Ops.Addr).Msg("dobrohub running")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logger.Info().Msg("dobrohub stopped")
	return nil
}
