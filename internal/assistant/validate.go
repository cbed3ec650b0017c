package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/expense-assistant/internal/dates"
)

// vagueTitleMarkers are substrings that mark a title as a non-answer from
// the model rather than a real description.
var vagueTitleMarkers = []string{"unspecified", "expense"}

// ValidateItems checks extracted items for missing or vague fields. Issues
// accumulate across the whole batch with 1-based item positions; any issue
// aborts the batch, so callers must not commit when the result is non-empty.
func ValidateItems(items []RawItem) []string {
	var issues []string
	for i, item := range items {
		if isVagueTitle(item.Title) {
			issues = append(issues, fmt.Sprintf("Item %d: Please specify what the expense was for.", i+1))
		}
		if isVagueDate(item.Date) {
			issues = append(issues, fmt.Sprintf("Item %d: Please mention when this transaction occurred (e.g. today, yesterday, or a specific date).", i+1))
		}
	}
	return issues
}

func isVagueTitle(title string) bool {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return true
	}
	for _, marker := range vagueTitleMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

func isVagueDate(date string) bool {
	date = strings.ToLower(strings.TrimSpace(date))
	return date == "" || strings.Contains(date, "unspecified")
}

// NormalizeItems converts validated raw items into pending items. Expense
// items get a name, amount, mapped category, and canonical date; income
// items carry only the amount.
func NormalizeItems(items []RawItem, now time.Time) []PendingItem {
	normalized := make([]PendingItem, 0, len(items))
	for _, item := range items {
		if ActionType(item.ActionType) == ActionIncome {
			normalized = append(normalized, PendingItem{
				ActionType: ActionIncome,
				Amount:     item.Amount,
			})
			continue
		}
		name := strings.TrimSpace(item.Title)
		if name == "" {
			name = "Expense"
		}
		normalized = append(normalized, PendingItem{
			ActionType: ActionExpense,
			Name:       name,
			Amount:     item.Amount,
			Category:   NormalizeCategory(item.Category),
			Date:       dates.NormalizeAt(item.Date, now),
		})
	}
	return normalized
}
