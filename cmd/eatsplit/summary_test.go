package main

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/henri123lemoine/eatsplit/internal/ledger"
)

func TestSummaryRows(t *testing.T) {
	l := ledger.New(ledger.WithFriends(
		ledger.Friend{ID: "a", Name: "Clark", Balance: decimal.NewFromInt(-7)},
		ledger.Friend{ID: "b", Name: "Sarah", Balance: decimal.NewFromInt(20)},
	))

	rows := summaryRows(l, "$")
	// header + 2 friends + spacer + 3 totals
	if len(rows) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(rows))
	}
	if rows[1][2] != "Clark owes you $7" {
		t.Errorf("Unexpected description %q", rows[1][2])
	}
	if rows[6][1] != "$-13" {
		t.Errorf("Expected net $-13, got %q", rows[6][1])
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/test")

	got, err := expandPath("~/cfg.toml")
	if err != nil {
		t.Fatalf("expandPath failed: %v", err)
	}
	if got != "/home/test/cfg.toml" {
		t.Errorf("expandPath() = %q", got)
	}

	if got, _ := expandPath("/etc/x.toml"); got != "/etc/x.toml" {
		t.Errorf("Absolute path changed to %q", got)
	}
}

func TestRootFlagsFromEnv(t *testing.T) {
	t.Setenv(envConfig, "/tmp/eatsplit.toml")

	cmd := newRootCmd()
	path, err := cmd.PersistentFlags().GetString("config")
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if path != "/tmp/eatsplit.toml" {
		t.Errorf("Expected config default from env, got %q", path)
	}
}
