// Package ledger owns the persisted balance and transaction list. All
// persistence goes through a kv.Store; callers never touch storage directly.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dvloznov/expense-assistant/internal/kv"
)

// Expense categories form a closed set.
const (
	CategoryFood          = "Food"
	CategoryEntertainment = "Entertainment"
	CategoryTravel        = "Travel"
)

const (
	balanceKey      = "balance"
	transactionsKey = "transactions"

	// initialBalance seeds a freshly created store.
	initialBalance = 5000
)

// ErrInsufficientBalance is returned by AddExpense when the expense amount
// exceeds the current balance. CommitBatch does not apply this guard.
var ErrInsufficientBalance = errors.New("expense amount is greater than current balance")

// ErrNotFound is returned when no transaction matches the given id.
var ErrNotFound = errors.New("transaction not found")

// Transaction is one committed expense. The id is assigned on commit and
// edits replace every field keyed by id.
type Transaction struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"` // YYYY-MM-DD
}

// EntryKind discriminates batch entries.
type EntryKind string

const (
	EntryExpense EntryKind = "expense"
	EntryIncome  EntryKind = "income"
)

// BatchEntry is one item of a confirmed chat batch.
type BatchEntry struct {
	Kind     EntryKind
	Name     string
	Amount   float64
	Category string
	Date     string
}

// Ledger provides balance and transaction operations over a kv.Store.
// Balance is stored as decimal text, transactions as a JSON array.
type Ledger struct {
	store kv.Store
}

// Open wraps the store, seeding the initial balance on first use.
func Open(store kv.Store) (*Ledger, error) {
	l := &Ledger{store: store}

	_, found, err := store.Get(balanceKey)
	if err != nil {
		return nil, fmt.Errorf("ledger: read balance: %w", err)
	}
	if !found {
		if err := l.SetBalance(initialBalance); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() (float64, error) {
	raw, found, err := l.store.Get(balanceKey)
	if err != nil {
		return 0, fmt.Errorf("ledger: read balance: %w", err)
	}
	if !found {
		return 0, nil
	}
	balance, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("ledger: parse balance %q: %w", raw, err)
	}
	return balance, nil
}

// SetBalance overwrites the current balance.
func (l *Ledger) SetBalance(balance float64) error {
	text := strconv.FormatFloat(balance, 'f', -1, 64)
	if err := l.store.Set(balanceKey, []byte(text)); err != nil {
		return fmt.Errorf("ledger: write balance: %w", err)
	}
	return nil
}

// Transactions returns the ordered transaction list.
func (l *Ledger) Transactions() ([]Transaction, error) {
	raw, found, err := l.store.Get(transactionsKey)
	if err != nil {
		return nil, fmt.Errorf("ledger: read transactions: %w", err)
	}
	if !found {
		return []Transaction{}, nil
	}
	var txns []Transaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		return nil, fmt.Errorf("ledger: parse transactions: %w", err)
	}
	return txns, nil
}

// SetTransactions overwrites the transaction list.
func (l *Ledger) SetTransactions(txns []Transaction) error {
	data, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("ledger: encode transactions: %w", err)
	}
	if err := l.store.Set(transactionsKey, data); err != nil {
		return fmt.Errorf("ledger: write transactions: %w", err)
	}
	return nil
}

// AddExpense records a new expense on the direct path. The expense is
// rejected with ErrInsufficientBalance when the amount exceeds the current
// balance; nothing is mutated in that case.
func (l *Ledger) AddExpense(name string, amount float64, category, date string) (Transaction, error) {
	balance, err := l.Balance()
	if err != nil {
		return Transaction{}, err
	}
	if amount > balance {
		return Transaction{}, ErrInsufficientBalance
	}
	return l.appendExpense(name, amount, category, date, balance)
}

func (l *Ledger) appendExpense(name string, amount float64, category, date string, balance float64) (Transaction, error) {
	txns, err := l.Transactions()
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:       uuid.NewString(),
		Name:     name,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	if err := l.SetTransactions(append(txns, tx)); err != nil {
		return Transaction{}, err
	}
	if err := l.SetBalance(balance - amount); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// AddIncome increments the balance and returns the new value.
func (l *Ledger) AddIncome(amount float64) (float64, error) {
	balance, err := l.Balance()
	if err != nil {
		return 0, err
	}
	newBalance := balance + amount
	if err := l.SetBalance(newBalance); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// UpdateTransaction replaces all fields of the transaction keyed by tx.ID.
func (l *Ledger) UpdateTransaction(tx Transaction) error {
	txns, err := l.Transactions()
	if err != nil {
		return err
	}
	for i := range txns {
		if txns[i].ID == tx.ID {
			txns[i] = tx
			return l.SetTransactions(txns)
		}
	}
	return fmt.Errorf("ledger: update %s: %w", tx.ID, ErrNotFound)
}

// DeleteTransaction removes the transaction with the given id.
func (l *Ledger) DeleteTransaction(id string) error {
	txns, err := l.Transactions()
	if err != nil {
		return err
	}
	for i := range txns {
		if txns[i].ID == id {
			return l.SetTransactions(append(txns[:i], txns[i+1:]...))
		}
	}
	return fmt.Errorf("ledger: delete %s: %w", id, ErrNotFound)
}

// CommitBatch applies every entry of a confirmed batch: expenses become new
// transactions and decrement the balance, incomes increment it. State is
// staged in memory and written once, so a failed read leaves the ledger
// untouched. Unlike AddExpense the balance is not re-checked: the batch was
// validated against the balance at extraction time, and committing later can
// drive the balance negative.
func (l *Ledger) CommitBatch(entries []BatchEntry) ([]Transaction, error) {
	balance, err := l.Balance()
	if err != nil {
		return nil, err
	}
	txns, err := l.Transactions()
	if err != nil {
		return nil, err
	}

	added := make([]Transaction, 0, len(entries))
	for _, entry := range entries {
		switch entry.Kind {
		case EntryExpense:
			tx := Transaction{
				ID:       uuid.NewString(),
				Name:     entry.Name,
				Amount:   entry.Amount,
				Category: entry.Category,
				Date:     entry.Date,
			}
			txns = append(txns, tx)
			added = append(added, tx)
			balance -= entry.Amount
		case EntryIncome:
			balance += entry.Amount
		default:
			return nil, fmt.Errorf("ledger: unknown batch entry kind %q", entry.Kind)
		}
	}

	if err := l.SetTransactions(txns); err != nil {
		return nil, err
	}
	if err := l.SetBalance(balance); err != nil {
		return nil, err
	}
	return added, nil
}

// CategoryTotals sums expense amounts per category.
func (l *Ledger) CategoryTotals() (map[string]float64, error) {
	txns, err := l.Transactions()
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64)
	for _, tx := range txns {
		totals[tx.Category] += tx.Amount
	}
	return totals, nil
}
