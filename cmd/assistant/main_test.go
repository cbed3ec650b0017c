package main

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dvloznov/expense-assistant/internal/kv"
	"github.com/dvloznov/expense-assistant/internal/ledger"
	"github.com/dvloznov/expense-assistant/internal/notify"
	"github.com/dvloznov/expense-assistant/internal/speech"
)

func TestCaptureTranscriptFromStream(t *testing.T) {
	rec := speech.NewStream(strings.NewReader("I spent 50\non food\n"))
	var notices notify.Recorder

	transcript := captureTranscript(context.Background(), rec, &notices)

	if transcript != "I spent 50 on food" {
		t.Errorf("transcript = %q", transcript)
	}
	if len(notices.Errors) != 0 || len(notices.Warnings) != 0 {
		t.Errorf("clean session produced notices: %+v", notices)
	}
}

func TestCaptureTranscriptUnsupported(t *testing.T) {
	var notices notify.Recorder

	transcript := captureTranscript(context.Background(), speech.Unsupported{}, &notices)

	if transcript != "" {
		t.Errorf("transcript = %q, want empty", transcript)
	}
	if len(notices.Warnings) != 1 {
		t.Fatalf("warnings = %v, want the text-input fallback notice", notices.Warnings)
	}
	if !strings.Contains(notices.Warnings[0], "not supported") {
		t.Errorf("warning = %q", notices.Warnings[0])
	}
}

// failingReader yields some transcript lines and then a read error.
type failingReader struct {
	lines io.Reader
	done  bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	n, err := r.lines.Read(p)
	if err == io.EOF && !r.done {
		r.done = true
		return n, errors.New("microphone disconnected")
	}
	return n, err
}

func TestCaptureTranscriptListeningError(t *testing.T) {
	rec := speech.NewStream(&failingReader{lines: strings.NewReader("partial phrase\n")})
	var notices notify.Recorder

	transcript := captureTranscript(context.Background(), rec, &notices)

	if transcript != "partial phrase" {
		t.Errorf("transcript = %q, want the partial result kept", transcript)
	}
	if len(notices.Errors) != 1 || !strings.Contains(notices.Errors[0], "microphone disconnected") {
		t.Errorf("errors = %v, want a listening-error notice", notices.Errors)
	}
}

func TestAddExpenseWarnsOnBalanceGuard(t *testing.T) {
	led, err := ledger.Open(kv.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	var notices notify.Recorder

	_, err = addExpense(led, &notices, "Holiday", 6000, "Travel", "2026-09-01")
	if !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if len(notices.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one balance notice", notices.Warnings)
	}

	balance, err := led.Balance()
	if err != nil {
		t.Fatal(err)
	}
	if balance != 5000 {
		t.Errorf("balance = %v, rejection must not mutate state", balance)
	}
}

func TestAddExpenseNormalizesCategory(t *testing.T) {
	led, err := ledger.Open(kv.NewMemory())
	if err != nil {
		t.Fatal(err)
	}

	txn, err := addExpense(led, notify.Discard{}, "Gift", 25, "other", "2026-09-01")
	if err != nil {
		t.Fatalf("addExpense failed: %v", err)
	}
	if txn.Category != ledger.CategoryFood {
		t.Errorf("category = %q, want Food", txn.Category)
	}
}
