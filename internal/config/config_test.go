package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("port = %s, want 8080", cfg.App.Port)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr = %s", cfg.App.Addr())
	}
	if cfg.Ticket.DeadlineOffset() != 24*time.Hour {
		t.Fatalf("deadline offset = %v, want 24h", cfg.Ticket.DeadlineOffset())
	}
	if !cfg.Postgres.RunMigrations {
		t.Fatal("migrations should default to enabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TICKET_DEADLINE_OFFSET_HOURS", "48")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("port = %s, want 9090", cfg.App.Port)
	}
	if cfg.Ticket.DeadlineOffset() != 48*time.Hour {
		t.Fatalf("deadline offset = %v, want 48h", cfg.Ticket.DeadlineOffset())
	}
	if cfg.Postgres.RunMigrations {
		t.Fatal("migrations override not applied")
	}
	if cfg.App.RequestTimeout() != 5*time.Second {
		t.Fatalf("request timeout = %v, want 5s", cfg.App.RequestTimeout())
	}
}

func TestDeadlineOffsetGuardsNonPositive(t *testing.T) {
	if got := (TicketConfig{DeadlineOffsetHours: 0}).DeadlineOffset(); got != 24*time.Hour {
		t.Fatalf("offset = %v, want 24h fallback", got)
	}
}
