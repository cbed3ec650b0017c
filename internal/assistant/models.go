package assistant

import (
	"strings"
	"time"

	"github.com/dvloznov/expense-assistant/internal/ledger"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// MessageKind tags how a message is rendered and consumed. Rendering code
// switches on this tag, never on sentinel content strings.
type MessageKind int

const (
	// KindText is a plain conversational message.
	KindText MessageKind = iota
	// KindInsightReport carries an InsightReport payload.
	KindInsightReport
	// KindPendingPreview marks the editable preview of a pending batch.
	KindPendingPreview
)

// Message is one entry of the append-only conversation log.
type Message struct {
	Role      Role
	Kind      MessageKind
	Content   string
	Report    *InsightReport
	Items     []PendingItem
	Timestamp time.Time
}

// InsightReport is an ephemeral spending summary attached to a single bot
// message; it is never persisted.
type InsightReport struct {
	Summary         string
	Breakdown       []BreakdownEntry
	Recommendations []string
}

// BreakdownEntry is one category line of an insight report.
type BreakdownEntry struct {
	Category   string
	Amount     float64
	Percentage string
}

// ActionType discriminates extracted items.
type ActionType string

const (
	ActionExpense ActionType = "expense"
	ActionIncome  ActionType = "income"
)

// RawItem holds the unvalidated fields of one extracted item, exactly as the
// model produced them.
type RawItem struct {
	ActionType string
	Title      string
	Amount     float64
	Category   string
	Date       string
}

// PendingItem is one normalized, user-editable item of a pending batch.
// Income items carry only an amount.
type PendingItem struct {
	ActionType ActionType
	Name       string
	Amount     float64
	Category   string
	Date       string // YYYY-MM-DD
}

// NormalizeCategory maps model output onto the closed category set. The
// model's "other" bucket maps to Food so no item enters a batch unmapped;
// canonical names are fixed up case-insensitively and anything else passes
// through for the user to edit in the preview.
func NormalizeCategory(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "other":
		return ledger.CategoryFood
	case strings.ToLower(ledger.CategoryFood):
		return ledger.CategoryFood
	case strings.ToLower(ledger.CategoryEntertainment):
		return ledger.CategoryEntertainment
	case strings.ToLower(ledger.CategoryTravel):
		return ledger.CategoryTravel
	default:
		return strings.TrimSpace(raw)
	}
}
