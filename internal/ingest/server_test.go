// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/models"
)

func startEmbeddedServer(t *testing.T) *EmbeddedServer {
	t.Helper()

	srv, err := NewEmbeddedServer(ServerConfig{
		Host:              "127.0.0.1",
		Port:              -1,
		StoreDir:          t.TempDir(),
		JetStreamMaxMem:   64 << 20,
		JetStreamMaxStore: 64 << 20,
	})
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func TestEmbeddedServer_Lifecycle(t *testing.T) {
	t.Parallel()

	srv := startEmbeddedServer(t)
	if !srv.IsRunning() {
		t.Error("IsRunning() = false")
	}
	if !srv.JetStreamEnabled() {
		t.Error("JetStreamEnabled() = false")
	}
	if srv.ClientURL() == "" {
		t.Error("ClientURL() is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after Shutdown")
	}
}

func TestNATSTransport_PublishToStore(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	t.Parallel()

	srv := startEmbeddedServer(t)
	tr, err := NewTransport(TransportConfig{
		NATS:       true,
		URL:        srv.ClientURL(),
		QueueGroup: "streamrank-test",
		AckWait:    5 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTransport() error = %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	if tr.Kind != "nats" {
		t.Errorf("Kind = %q, want nats", tr.Kind)
	}

	app := &mockAppender{}
	inv := &mockInvalidator{}
	startRouter(t, tr, DefaultRouterConfig(), NewConsumer(app, inv, zerolog.Nop()))

	_, err = NewPublisher(tr.Publisher, DefaultTopic).Publish(context.Background(), &InteractionMessage{
		UserID: "u7", ItemID: "ev3", Domain: models.DomainEvents, Kind: models.InteractionLiked, At: at,
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	waitFor(t, func() bool { return len(app.stored()) == 1 })
	if got := app.stored()[0]; got.UserID != "u7" || got.ItemID != "ev3" {
		t.Errorf("stored %+v", got)
	}
	waitFor(t, func() bool { return len(inv.invalidated()) == 1 })
}
