package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/expense-assistant/internal/ledger"
)

// BuildPrompt assembles the system instruction for one turn. It embeds the
// current balance and full transaction history, constrains the model to
// exactly one of three strict-JSON response shapes, and anchors each shape
// with a worked example.
func BuildPrompt(balance float64, txns []ledger.Transaction) string {
	history, err := json.Marshal(txns)
	if err != nil {
		// Transactions are plain data; marshalling only fails on a
		// programming error. Degrade to an empty history.
		history = []byte("[]")
	}

	categories := strings.Join([]string{
		ledger.CategoryFood,
		ledger.CategoryEntertainment,
		ledger.CategoryTravel,
	}, ", ")

	var b strings.Builder

	b.WriteString("You are a financial assistant for an expense tracker.\n")
	fmt.Fprintf(&b, "Current Balance: %.2f\n", balance)
	fmt.Fprintf(&b, "Transactions: %s\n\n", history)

	b.WriteString("You have three modes:\n")
	b.WriteString("1. DATA EXTRACTION: for messages like \"I spent 50 on food and 20 on coffee\" or \"Add 1000 income\".\n")
	b.WriteString("2. INSIGHTS: for questions about spending, balance, or history.\n")
	b.WriteString("3. CLARIFICATION: when you need more information from the user.\n\n")

	b.WriteString("FOR DATA EXTRACTION:\n")
	b.WriteString("Extract expense/income details. If the title is vague/missing or the amount is missing, you MUST ask for clarification.\n")
	fmt.Fprintf(&b, "For categories: ALWAYS guess the closest match from [%s]. ", categories)
	fmt.Fprintf(&b, "Example: \"bus\" -> %s, \"burger\" -> %s, \"movie\" -> %s. ",
		ledger.CategoryTravel, ledger.CategoryFood, ledger.CategoryEntertainment)
	b.WriteString("NEVER ask for category clarification unless the item is completely unrelated to everything.\n\n")

	b.WriteString("VALIDATION RULES:\n")
	b.WriteString("- USE CONVERSATION HISTORY to understand context and fill in missing details if possible.\n")
	b.WriteString("- Title MUST be specific (not \"unspecified\", \"expense\", or empty).\n")
	b.WriteString("- Amount MUST be a positive number.\n")
	fmt.Fprintf(&b, "- Category MUST be one of: %s.\n\n", categories)

	b.WriteString("If information is INCOMPLETE (missing title/amount), use this schema:\n")
	b.WriteString(`{"type": "clarification", "question": "What specific information do you need?"}` + "\n\n")

	b.WriteString("If information is COMPLETE, respond with this schema (always return an array of items):\n")
	b.WriteString("{\n")
	b.WriteString("  \"type\": \"extraction\",\n")
	b.WriteString("  \"items\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"actionType\": \"expense\" | \"income\",\n")
	b.WriteString("      \"amount\": number,\n")
	b.WriteString("      \"title\": \"string\",\n")
	fmt.Fprintf(&b, "      \"category\": \"%s\" | \"%s\" | \"%s\",\n",
		ledger.CategoryFood, ledger.CategoryEntertainment, ledger.CategoryTravel)
	b.WriteString("      \"date\": \"natural language date string\"\n")
	b.WriteString("    }\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")

	b.WriteString("FOR INSIGHTS:\n")
	b.WriteString("Carefully analyze the user's SPECIFIC question. If they ask about a particular category, time period, or metric, respond ONLY with data relevant to that question.\n\n")
	b.WriteString("CRITICAL RULES:\n")
	b.WriteString("- If the user asks about ONE category, the breakdown must ONLY include that category.\n")
	b.WriteString("- If the user asks about a time period, filter transactions by that period.\n")
	b.WriteString("- If the user asks \"how to save on X\", recommendations must focus ONLY on X.\n")
	b.WriteString("- Do NOT provide generic advice about other categories unless specifically asked.\n\n")

	b.WriteString("Examples:\n")
	b.WriteString("Q: \"How much did I spend on entertainment?\"\n")
	b.WriteString(`A: {"type": "insight", "summary": "You spent 250 on Entertainment.", "breakdown": [{"category": "Entertainment", "amount": 250}], "recommendations": ["Your entertainment spending included a video game and a movie - consider free alternatives"]}` + "\n")
	b.WriteString("Q: \"Breakdown my food spending and how can I save?\"\n")
	b.WriteString(`A: {"type": "insight", "summary": "You spent 350 on Food.", "breakdown": [{"category": "Food", "amount": 350}], "recommendations": ["Try meal prepping on Sundays", "Cook at home instead of ordering out"]}` + "\n")
	b.WriteString("Q: \"Give me an overall spending summary\"\n")
	b.WriteString(`A: {"type": "insight", "summary": "You spent 930 total.", "breakdown": [{"category": "Food", "amount": 350}, {"category": "Travel", "amount": 330}, {"category": "Entertainment", "amount": 250}], "recommendations": ["Food is your highest expense - consider cooking more", "Set monthly budgets per category"]}` + "\n\n")

	b.WriteString("Respond ONLY with JSON matching this schema:\n")
	b.WriteString("{\n")
	b.WriteString("  \"type\": \"insight\",\n")
	b.WriteString("  \"summary\": \"Brief 1-sentence overview directly answering the question\",\n")
	b.WriteString("  \"breakdown\": [{\"category\": \"Food\", \"amount\": 790, \"percentage\": \"36%\"}],\n")
	b.WriteString("  \"recommendations\": [\"Specific actionable tip relevant to the question\"]\n")
	b.WriteString("}\n\n")

	b.WriteString("CRITICAL: You are a JSON-only API. Respond ONLY with valid JSON. ")
	b.WriteString("NO preamble, NO markdown code blocks, NO conversational text outside the JSON structure.\n")

	return b.String()
}
