package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-assistant/internal/assistant"
	"github.com/dvloznov/expense-assistant/internal/config"
	"github.com/dvloznov/expense-assistant/internal/kv"
	"github.com/dvloznov/expense-assistant/internal/ledger"
	"github.com/dvloznov/expense-assistant/internal/logger"
	"github.com/dvloznov/expense-assistant/internal/notify"
	"github.com/dvloznov/expense-assistant/internal/speech"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "chat":
		runChat(log)
	case "add":
		runAdd(log)
	case "income":
		runIncome(log)
	case "list":
		runList(log)
	case "edit":
		runEdit(log)
	case "delete":
		runDelete(log)
	case "balance":
		runBalance(log)
	case "totals":
		runTotals(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Expense Assistant")
	fmt.Println("\nUsage:")
	fmt.Println("  assistant <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  chat      Talk to the assistant (extraction and insights)")
	fmt.Println("  add       Record an expense directly")
	fmt.Println("  income    Record income directly")
	fmt.Println("  list      List all transactions")
	fmt.Println("  edit      Replace a transaction's fields by ID")
	fmt.Println("  delete    Delete a transaction by ID")
	fmt.Println("  balance   Show the current balance")
	fmt.Println("  totals    Show spending totals per category")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'assistant <command> -h' for more information on a command.")
}

// openLedger loads the config and opens the key-value backed ledger.
func openLedger(log zerolog.Logger, configPath string) (config.Config, *ledger.Ledger, *kv.BoltStore) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	store, err := kv.OpenBolt(cfg.DataPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("Failed to open data file")
	}

	led, err := ledger.Open(store)
	if err != nil {
		store.Close()
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}
	return cfg, led, store
}

func runChat(log zerolog.Logger) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	voice := fs.Bool("voice", false, "Capture one voice transcript before the text loop")
	voiceInput := fs.String("voice-input", "", "Transcript source for voice input (a named pipe or file)")
	fs.Parse(os.Args[2:])

	cfg, led, store := openLedger(log, *configPath)
	defer store.Close()

	notifier := notify.NewConsole()
	ctx := logger.WithContext(context.Background(), log)

	var gateway *assistant.Gateway
	if cfg.APIKey != "" {
		client, err := assistant.NewGeminiClient(ctx, cfg.APIKey, cfg.Temperature)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		gateway = assistant.NewGateway(client, cfg.PrimaryModel, cfg.LiteModel)
	}

	a := assistant.New(gateway, led, notifier)
	for _, msg := range a.Messages() {
		renderMessage(msg)
	}

	if *voice {
		var rec speech.Recognizer = speech.Unsupported{}
		if *voiceInput != "" {
			f, err := os.Open(*voiceInput)
			if err != nil {
				log.Fatal().Err(err).Str("path", *voiceInput).Msg("Failed to open voice input")
			}
			defer f.Close()
			rec = speech.NewStream(f)
		}
		if transcript := captureTranscript(ctx, rec, notifier); transcript != "" {
			fmt.Printf("> %s\n", transcript)
			turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			replies, err := a.ProcessMessage(turnCtx, transcript)
			cancel()
			if err != nil {
				log.Error().Err(err).Msg("Turn failed")
			}
			for _, msg := range replies {
				renderMessage(msg)
			}
		}
	}

	fmt.Println("Type a message, or /confirm, /cancel, /edit <n> <field> <value>, /quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		if strings.HasPrefix(line, "/") {
			handleCommand(a, notifier, line)
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		replies, err := a.ProcessMessage(turnCtx, line)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("Turn failed")
			continue
		}
		for _, msg := range replies {
			renderMessage(msg)
		}
	}
}

// captureTranscript runs one listening session to completion and returns the
// final transcript. Listening errors surface as notices; an unsupported host
// degrades to text input.
func captureTranscript(ctx context.Context, rec speech.Recognizer, notifier assistant.Notifier) string {
	events, err := rec.Listen(ctx)
	if err != nil {
		if errors.Is(err, speech.ErrUnsupported) {
			notifier.Warnf("voice input is not supported on this platform, using text input")
		} else {
			notifier.Errorf("voice capture failed: %v", err)
		}
		return ""
	}
	defer rec.Stop()

	var transcript string
	for ev := range events {
		switch ev.Kind {
		case speech.EventResult:
			transcript = ev.Transcript
		case speech.EventError:
			notifier.Errorf("listening error: %v", ev.Err)
		}
	}
	return transcript
}

// handleCommand dispatches the pending-batch slash commands.
func handleCommand(a *assistant.Assistant, notifier *notify.Console, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/confirm":
		msg, err := a.Confirm()
		if err != nil {
			notifier.Errorf("%v", err)
			return
		}
		renderMessage(msg)

	case "/cancel":
		renderMessage(a.Cancel())

	case "/edit":
		if len(fields) < 4 {
			notifier.Errorf("usage: /edit <n> <name|amount|category|date> <value>")
			return
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 1 {
			notifier.Errorf("item number must be a positive integer")
			return
		}
		value := strings.Join(fields[3:], " ")
		edit, err := buildEdit(fields[2], value)
		if err != nil {
			notifier.Errorf("%v", err)
			return
		}
		if err := a.EditPending(idx-1, edit); err != nil {
			notifier.Errorf("%v", err)
			return
		}
		if batch, ok := a.Pending(); ok {
			renderPending(batch.Items)
		}

	default:
		notifier.Errorf("unknown command %s", fields[0])
	}
}

func buildEdit(field, value string) (assistant.ItemEdit, error) {
	var edit assistant.ItemEdit
	switch field {
	case "name":
		edit.Name = &value
	case "amount":
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return edit, fmt.Errorf("amount must be a number")
		}
		edit.Amount = &amount
	case "category":
		category := assistant.NormalizeCategory(value)
		edit.Category = &category
	case "date":
		edit.Date = &value
	default:
		return edit, fmt.Errorf("unknown field %q", field)
	}
	return edit, nil
}

func renderMessage(msg assistant.Message) {
	switch msg.Kind {
	case assistant.KindInsightReport:
		fmt.Printf("\n%s\n", msg.Report.Summary)
		for _, entry := range msg.Report.Breakdown {
			if entry.Percentage != "" {
				fmt.Printf("  %-15s %10.2f  (%s)\n", entry.Category, entry.Amount, entry.Percentage)
			} else {
				fmt.Printf("  %-15s %10.2f\n", entry.Category, entry.Amount)
			}
		}
		for _, rec := range msg.Report.Recommendations {
			fmt.Printf("  * %s\n", rec)
		}
		fmt.Println()

	case assistant.KindPendingPreview:
		renderPending(msg.Items)
		fmt.Println("Type /confirm to apply, /cancel to discard, or /edit to change an item.")

	default:
		fmt.Println(msg.Content)
	}
}

func renderPending(items []assistant.PendingItem) {
	fmt.Printf("\nPending batch (%d items):\n", len(items))
	for i, item := range items {
		if item.ActionType == assistant.ActionIncome {
			fmt.Printf("  %d. income %.2f\n", i+1, item.Amount)
			continue
		}
		fmt.Printf("  %d. %s  %.2f  %s  %s\n", i+1, item.Name, item.Amount, item.Category, item.Date)
	}
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	name := fs.String("name", "", "What the expense was for")
	amount := fs.Float64("amount", 0, "Expense amount")
	category := fs.String("category", ledger.CategoryFood, "Category (Food, Entertainment, Travel)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Transaction date (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	if *name == "" || *amount <= 0 {
		log.Fatal().Msg("Usage: assistant add -name NAME -amount AMOUNT")
	}

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	txn, err := addExpense(led, notify.NewConsole(), *name, *amount, *category, *date)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to add expense")
	}

	fmt.Printf("Added %s (%s) for %.2f on %s\n", txn.Name, txn.Category, txn.Amount, txn.Date)
}

// addExpense records a direct-path expense. A balance rejection surfaces as
// a warning notice; state is left unchanged.
func addExpense(led *ledger.Ledger, notifier assistant.Notifier, name string, amount float64, category, date string) (ledger.Transaction, error) {
	txn, err := led.AddExpense(name, amount, assistant.NormalizeCategory(category), date)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			notifier.Warnf("expense of %.2f is greater than the current balance", amount)
		}
		return ledger.Transaction{}, err
	}
	return txn, nil
}

func runIncome(log zerolog.Logger) {
	fs := flag.NewFlagSet("income", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	amount := fs.Float64("amount", 0, "Income amount")
	fs.Parse(os.Args[2:])

	if *amount <= 0 {
		log.Fatal().Msg("Usage: assistant income -amount AMOUNT")
	}

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	balance, err := led.AddIncome(*amount)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to add income")
	}

	fmt.Printf("Recorded income of %.2f. New balance: %.2f\n", *amount, balance)
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	fs.Parse(os.Args[2:])

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	txns, err := led.Transactions()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	if len(txns) == 0 {
		fmt.Println("No transactions recorded yet.")
		return
	}

	fmt.Printf("%-36s  %-12s  %-15s  %10s  %s\n", "ID", "Date", "Category", "Amount", "Name")
	for _, txn := range txns {
		fmt.Printf("%-36s  %-12s  %-15s  %10.2f  %s\n", txn.ID, txn.Date, txn.Category, txn.Amount, txn.Name)
	}
}

func runEdit(log zerolog.Logger) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	id := fs.String("id", "", "Transaction ID to edit")
	name := fs.String("name", "", "New name")
	amount := fs.Float64("amount", 0, "New amount")
	category := fs.String("category", "", "New category")
	date := fs.String("date", "", "New date (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	txns, err := led.Transactions()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read transactions")
	}

	var txn *ledger.Transaction
	for i := range txns {
		if txns[i].ID == *id {
			txn = &txns[i]
			break
		}
	}
	if txn == nil {
		log.Fatal().Str("id", *id).Msg("Transaction not found")
	}

	if *name != "" {
		txn.Name = *name
	}
	if *amount > 0 {
		txn.Amount = *amount
	}
	if *category != "" {
		txn.Category = assistant.NormalizeCategory(*category)
	}
	if *date != "" {
		txn.Date = *date
	}

	if err := led.UpdateTransaction(*txn); err != nil {
		log.Fatal().Err(err).Msg("Failed to update transaction")
	}

	fmt.Printf("Updated %s: %s %.2f %s %s\n", txn.ID, txn.Name, txn.Amount, txn.Category, txn.Date)
}

func runDelete(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	id := fs.String("id", "", "Transaction ID to delete")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	if err := led.DeleteTransaction(*id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			log.Fatal().Str("id", *id).Msg("Transaction not found")
		}
		log.Fatal().Err(err).Msg("Failed to delete transaction")
	}

	fmt.Println("Transaction deleted.")
}

func runBalance(log zerolog.Logger) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	fs.Parse(os.Args[2:])

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	balance, err := led.Balance()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read balance")
	}

	fmt.Printf("Current balance: %.2f\n", balance)
}

func runTotals(log zerolog.Logger) {
	fs := flag.NewFlagSet("totals", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	fs.Parse(os.Args[2:])

	_, led, store := openLedger(log, *configPath)
	defer store.Close()

	totals, err := led.CategoryTotals()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compute totals")
	}

	for _, category := range []string{ledger.CategoryFood, ledger.CategoryEntertainment, ledger.CategoryTravel} {
		fmt.Printf("%-15s %10.2f\n", category, totals[category])
	}
}
