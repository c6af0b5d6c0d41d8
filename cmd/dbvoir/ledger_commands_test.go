package main

import (
	"testing"
)

func TestLedgerListEmpty(t *testing.T) {
	env := writeCLIConfig(t, "")

	out, _, err := runCLI(t, []string{"ledger", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	requireContains(t, out, "Ledger is empty")
}

func TestLedgerClearReportsCount(t *testing.T) {
	env := writeCLIConfig(t, "")

	out, _, err := runCLI(t, []string{"ledger", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("ledger clear: %v", err)
	}
	requireContains(t, out, "Removed 0 item(s)")
}

func TestLedgerRetryRejectsBadID(t *testing.T) {
	env := writeCLIConfig(t, "")

	_, _, err := runCLI(t, []string{"ledger", "retry", "not-a-number"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestNotifyTestWithoutTopic(t *testing.T) {
	env := writeCLIConfig(t, "")

	out, _, err := runCLI(t, []string{"notify", "test"}, env.configPath)
	if err != nil {
		t.Fatalf("notify test: %v", err)
	}
	requireContains(t, out, "not configured")
}
