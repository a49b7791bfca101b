// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package notify

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dobrohub/dobrohub/internal/metrics"
)

// Topics names the notification topics. Values come from configuration so
// deployments can reroute streams without code changes.
type Topics struct {
	JoinRequests  string
	ProjectReview string
	Enrollment    string
}

// Notifier publishes moderator notifications over an in-process Pub/Sub
// channel. Publishes run behind a circuit breaker; when the breaker is open
// events are dropped and counted, keeping mutation paths responsive.
type Notifier struct {
	pubsub  *gochannel.GoChannel
	breaker *gobreaker.CircuitBreaker[any]
	topics  Topics
	logger  zerolog.Logger
}

// New creates a Notifier with its own gochannel Pub/Sub.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(topics Topics, logger zerolog.Logger) *Notifier {
	componentLogger := logger.With().Str("component", "notify").Logger()

	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		newWatermillLogger(componentLogger),
	)

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "moderator-notifications",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Notifier{
		pubsub:  pubsub,
		breaker: breaker,
		topics:  topics,
		logger:  componentLogger,
	}
}

// JoinRequested publishes a join-approval request.
func (n *Notifier) JoinRequested(req JoinRequest) {
	n.publish(n.topics.JoinRequests, req)
}

// ProjectNeedsReview publishes a completing project for moderator review.
func (n *Notifier) ProjectNeedsReview(review ProjectReview) {
	n.publish(n.topics.ProjectReview, review)
}

// EnrollmentCompleted publishes a bulk-enrollment result summary.
func (n *Notifier) EnrollmentCompleted(result EnrollmentResult) {
	n.publish(n.topics.Enrollment, result)
}

// Subscribe returns the message stream for a topic. The chat layer consumes
// from here; messages published while no subscriber exists are dropped,
// which is the fire-and-forget contract.
func (n *Notifier) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return n.pubsub.Subscribe(ctx, topic)
}

// Topics returns the configured topic names.
func (n *Notifier) Topics() Topics {
	return n.topics
}

// Close shuts the underlying Pub/Sub down, terminating subscriber channels.
func (n *Notifier) Close() error {
	return n.pubsub.Close()
}

// publish encodes and sends one event. Failures are logged and counted,
// never propagated: notification delivery must not fail the operation that
// produced the event.
func (n *Notifier) publish(topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error().Err(err).Str("topic", topic).Msg("encode notification")
		metrics.NotificationsPublished.WithLabelValues(topic, "error").Inc()
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	_, err = n.breaker.Execute(func() (any, error) {
		return nil, n.pubsub.Publish(topic, msg)
	})
	switch {
	case err == nil:
		metrics.NotificationsPublished.WithLabelValues(topic, "ok").Inc()
	case isOpenCircuit(err):
		n.logger.Warn().Str("topic", topic).Msg("notification dropped, circuit open")
		metrics.NotificationsPublished.WithLabelValues(topic, "open_circuit").Inc()
	default:
		n.logger.Error().Err(err).Str("topic", topic).Msg("publish notification")
		metrics.NotificationsPublished.WithLabelValues(topic, "error").Inc()
	}
}

func isOpenCircuit(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}

// watermillLogger adapts zerolog to watermill.LoggerAdapter so the Pub/Sub
// internals log through the application sink.
type watermillLogger struct {
	logger zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return &watermillLogger{logger: logger}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.event(l.logger.Error().Err(err), fields).Msg(msg)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.event(l.logger.Info(), fields).Msg(msg)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.event(l.logger.Debug(), fields).Msg(msg)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.event(l.logger.Trace(), fields).Msg(msg)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &watermillLogger{logger: ctx.Logger()}
}

func (l *watermillLogger) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}

// NewEventID returns a fresh identifier for a notification payload.
func NewEventID() string {
	return "evt_" + uuid.NewString()
}
