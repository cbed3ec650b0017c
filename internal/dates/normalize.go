// Package dates converts natural-language date phrases into canonical
// YYYY-MM-DD strings. Normalization never fails; anything unparseable or
// implausible resolves to today.
package dates

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/rs/zerolog/log"
)

// Layout is the canonical calendar-date form.
const Layout = "2006-01-02"

// directLayouts are tried when natural-language parsing yields nothing.
var directLayouts = []string{
	Layout,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January 2006",
}

var parser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Normalize resolves input against the current local date.
func Normalize(input string) string {
	return NormalizeAt(input, time.Now())
}

// NormalizeAt resolves input against the given reference date. Empty input
// yields the reference date. A natural-language candidate is accepted only
// within [ref - 1 year, ref + 1 month]; out-of-range candidates are assumed
// to be mis-parses and resolve to the reference date. Failing that, direct
// calendar-date layouts are tried, then the reference date is returned.
func NormalizeAt(input string, ref time.Time) string {
	today := ref.Format(Layout)

	input = strings.TrimSpace(input)
	if input == "" {
		return today
	}

	if r, err := parser.Parse(input, ref); err == nil && r != nil {
		candidate := r.Time
		lower := ref.AddDate(-1, 0, 0)
		upper := ref.AddDate(0, 1, 0)
		if candidate.Before(lower) || candidate.After(upper) {
			log.Warn().
				Str("input", input).
				Str("candidate", candidate.Format(Layout)).
				Msg("parsed date out of range, defaulting to today")
			return today
		}
		return candidate.Format(Layout)
	}

	for _, layout := range directLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(Layout)
		}
	}

	log.Warn().Str("input", input).Msg("could not parse date, defaulting to today")
	return today
}
