// Package assistant implements the conversational transaction-extraction
// and insight pipeline: prompt construction, the remote model call with
// rate-limit fallback, tolerant response interpretation, extraction
// validation, and the confirm/edit/cancel workflow over a pending batch.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/expense-assistant/internal/ledger"
	"github.com/dvloznov/expense-assistant/internal/logger"
)

// Static bot messages for per-turn failure paths.
const (
	msgMissingCredential = "Configuration error: no Gemini API key found. Set GEMINI_API_KEY or api_key in the config file."
	msgRateLimited       = "You've reached your API rate limit. Please wait a moment before trying again, or check your quota."
	msgUnparsable        = "Could not parse the assistant's response. Please try rephrasing."
	msgPriorDiscarded    = "Discarded the previous unconfirmed batch."
	msgCancelled         = "Cancelled. Feel free to try again with a different request!"
)

// Assistant processes conversation turns over a shared ledger. One turn is
// active at a time; callers must not submit a new message while a turn is in
// flight.
type Assistant struct {
	gateway  *Gateway // nil when no credential is configured
	ledger   *ledger.Ledger
	conv     *Conversation
	pending  *PendingStore
	notifier Notifier
	now      func() time.Time
}

// New wires an assistant. gateway may be nil when no API credential is
// available; every turn then fails fast with a static configuration message.
func New(gateway *Gateway, led *ledger.Ledger, notifier Notifier) *Assistant {
	return &Assistant{
		gateway:  gateway,
		ledger:   led,
		conv:     NewConversation(),
		pending:  NewPendingStore(),
		notifier: notifier,
		now:      time.Now,
	}
}

// Messages returns the full conversation log.
func (a *Assistant) Messages() []Message { return a.conv.Messages() }

// Pending returns a copy of the live pending batch.
func (a *Assistant) Pending() (Batch, bool) { return a.pending.Get() }

// EditPending applies a field edit to the pending item at idx.
func (a *Assistant) EditPending(idx int, edit ItemEdit) error {
	return a.pending.Edit(idx, edit)
}

// ProcessMessage runs one conversation turn and returns the bot messages it
// appended. Model and interpretation failures are turned into bot messages;
// only ledger access failures return an error.
func (a *Assistant) ProcessMessage(ctx context.Context, text string) ([]Message, error) {
	log := logger.FromContext(ctx)

	// 1. Capture model context before this turn's user message, then log it.
	history := a.conv.ModelContext()
	a.conv.AppendText(RoleUser, text)

	// 2. Without a credential the pipeline halts for this turn.
	if a.gateway == nil {
		a.notifier.Warnf("no Gemini API key configured")
		return []Message{a.conv.AppendText(RoleBot, msgMissingCredential)}, nil
	}

	// 3. Assemble the system instruction from current ledger state.
	balance, err := a.ledger.Balance()
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	txns, err := a.ledger.Transactions()
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	req := Request{
		System:  BuildPrompt(balance, txns),
		History: history,
		Message: text,
	}

	// 4. Invoke the model through the fallback policy.
	raw, err := a.gateway.Converse(ctx, req)
	if err != nil {
		var modelErr *ModelError
		if errors.As(err, &modelErr) && modelErr.RateLimited {
			a.notifier.Warnf("model rate limit exhausted")
			return []Message{a.conv.AppendText(RoleBot, msgRateLimited)}, nil
		}
		log.Error().Err(err).Msg("model call failed")
		msg := fmt.Sprintf("Error: %v. Please try again later.", err)
		return []Message{a.conv.AppendText(RoleBot, msg)}, nil
	}
	log.Debug().Str("raw", raw).Msg("model response")

	// 5. Interpret the raw text into one of the three outcomes.
	resp, err := Interpret(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("unparsable model response")
		return []Message{a.conv.AppendText(RoleBot, msgUnparsable)}, nil
	}

	// 6. Dispatch.
	switch r := resp.(type) {
	case Clarification:
		return []Message{a.conv.AppendText(RoleBot, r.Question)}, nil

	case Insight:
		return []Message{a.conv.AppendInsight(r.Report)}, nil

	case Extraction:
		return a.acceptExtraction(r.Items), nil

	default:
		return nil, fmt.Errorf("assistant: unexpected response %T", resp)
	}
}

// acceptExtraction validates extracted items and, when clean, installs them
// as the new pending batch behind an editable preview.
func (a *Assistant) acceptExtraction(items []RawItem) []Message {
	if issues := ValidateItems(items); len(issues) > 0 {
		content := "I need some clarification:"
		for _, issue := range issues {
			content += "\n- " + issue
		}
		return []Message{a.conv.AppendText(RoleBot, content)}
	}

	normalized := NormalizeItems(items, a.now())
	prior := a.pending.Replace(normalized)

	var replies []Message
	if prior != nil {
		replies = []Message{a.conv.AppendText(RoleBot, msgPriorDiscarded)}
	}
	return append(replies, a.conv.AppendPreview(normalized))
}

// Confirm commits the live batch to the ledger: expenses become new
// transactions, incomes increment the balance. The batch is cleared on
// success and a summary message is appended.
func (a *Assistant) Confirm() (Message, error) {
	batch, ok := a.pending.Get()
	if !ok {
		return Message{}, fmt.Errorf("assistant: no pending batch to confirm")
	}

	entries := make([]ledger.BatchEntry, 0, len(batch.Items))
	for _, item := range batch.Items {
		if item.ActionType == ActionIncome {
			entries = append(entries, ledger.BatchEntry{
				Kind:   ledger.EntryIncome,
				Amount: item.Amount,
			})
			continue
		}
		entries = append(entries, ledger.BatchEntry{
			Kind:     ledger.EntryExpense,
			Name:     item.Name,
			Amount:   item.Amount,
			Category: item.Category,
			Date:     item.Date,
		})
	}

	if _, err := a.ledger.CommitBatch(entries); err != nil {
		return Message{}, fmt.Errorf("assistant: commit batch: %w", err)
	}

	a.pending.Clear()
	a.notifier.Successf("successfully processed %d items", len(batch.Items))
	return a.conv.AppendText(RoleBot, fmt.Sprintf("Processed %d items successfully!", len(batch.Items))), nil
}

// Cancel discards the live batch without touching the ledger.
func (a *Assistant) Cancel() Message {
	a.pending.Clear()
	return a.conv.AppendText(RoleBot, msgCancelled)
}

