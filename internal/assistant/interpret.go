package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparsable signals model output that could not be interpreted and was
// too short for clarification recovery.
var ErrUnparsable = errors.New("could not parse model response")

// Response is one of the three structured outcomes of a model turn.
type Response interface{ isResponse() }

// Clarification asks the user for missing information; the pipeline halts
// until the next user turn.
type Clarification struct {
	Question string
}

// Insight answers a spending question with a report.
type Insight struct {
	Report InsightReport
}

// Extraction carries raw extracted items for validation.
type Extraction struct {
	Items []RawItem
}

func (Clarification) isResponse() {}
func (Insight) isResponse()       {}
func (Extraction) isResponse()    {}

// Interpret parses raw model text into a structured response. Malformed but
// non-trivial text degrades to a Clarification built from the cleaned text;
// only near-empty garbage fails with ErrUnparsable.
func Interpret(raw string) (Response, error) {
	candidate := extractJSONSpan(raw)

	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &envelope); err != nil {
		// Recovery for models that ignored the JSON-only instruction,
		// which is common on the lite tier.
		if len(strings.TrimSpace(raw)) > 5 {
			return Clarification{Question: stripJSONPunctuation(raw)}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	kind, _ := envelope["type"].(string)
	switch kind {
	case "clarification":
		question, err := getString(envelope, "question", true)
		if err != nil {
			return nil, fmt.Errorf("interpret clarification: %w", err)
		}
		return Clarification{Question: question}, nil

	case "insight":
		return interpretInsight(envelope)

	case "extraction":
		return interpretExtraction(envelope)

	default:
		if len(strings.TrimSpace(raw)) > 5 {
			return Clarification{Question: stripJSONPunctuation(raw)}, nil
		}
		return nil, fmt.Errorf("%w: unknown response type %q", ErrUnparsable, kind)
	}
}

// extractJSONSpan keeps the first-brace-to-last-brace span of the text, or
// the whole text if no braces are present.
func extractJSONSpan(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}

// stripJSONPunctuation cleans partial JSON punctuation out of free text so
// it reads as a plain question.
func stripJSONPunctuation(raw string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '[', ']', '"':
			return -1
		}
		return r
	}, raw))
}

func interpretInsight(envelope map[string]interface{}) (Response, error) {
	summary, err := getString(envelope, "summary", true)
	if err != nil {
		return nil, fmt.Errorf("interpret insight: %w", err)
	}

	report := InsightReport{
		Summary:         summary,
		Breakdown:       []BreakdownEntry{},
		Recommendations: []string{},
	}

	if rows, ok := envelope["breakdown"].([]interface{}); ok {
		for i, row := range rows {
			obj, ok := row.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("interpret insight: breakdown entry %d is %T, want object", i, row)
			}
			category, err := getString(obj, "category", true)
			if err != nil {
				return nil, fmt.Errorf("interpret insight: breakdown entry %d: %w", i, err)
			}
			amount, err := getFloat(obj, "amount", true)
			if err != nil {
				return nil, fmt.Errorf("interpret insight: breakdown entry %d: %w", i, err)
			}
			percentage, _ := getString(obj, "percentage", false)
			report.Breakdown = append(report.Breakdown, BreakdownEntry{
				Category:   category,
				Amount:     amount,
				Percentage: percentage,
			})
		}
	}

	if recs, ok := envelope["recommendations"].([]interface{}); ok {
		for _, rec := range recs {
			if s, ok := rec.(string); ok && s != "" {
				report.Recommendations = append(report.Recommendations, s)
			}
		}
	}

	return Insight{Report: report}, nil
}

func interpretExtraction(envelope map[string]interface{}) (Response, error) {
	rows, ok := envelope["items"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("interpret extraction: 'items' is %T, want array", envelope["items"])
	}

	items := make([]RawItem, 0, len(rows))
	for i, row := range rows {
		obj, ok := row.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("interpret extraction: item %d is %T, want object", i, row)
		}

		actionType, _ := getString(obj, "actionType", false)
		if actionType == "" {
			actionType = string(ActionExpense)
		}
		title, _ := getString(obj, "title", false)
		amount, _ := getFloat(obj, "amount", false)
		category, _ := getString(obj, "category", false)
		date, _ := getString(obj, "date", false)

		items = append(items, RawItem{
			ActionType: actionType,
			Title:      title,
			Amount:     amount,
			Category:   category,
			Date:       date,
		})
	}

	return Extraction{Items: items}, nil
}

func getString(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		// Models occasionally quote numbers; coerce rather than reject.
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%g", &f); err == nil {
			return f, nil
		}
		return 0, fmt.Errorf("field %q has non-numeric value %q", key, val)
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
