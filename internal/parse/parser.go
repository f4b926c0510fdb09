package parse

import (
	"strings"
	"time"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// Parser extracts normalized transactions from one brokerage's
// notification emails. Each supported brokerage carries its own
// subject patterns, field templates, and currency conventions.
type Parser interface {
	// Parse classifies a message by subject and extracts a
	// normalized transaction from its plain-text body. A subject
	// matching no known pattern is not an error: ok is false and the
	// message is simply not relevant to the import.
	Parse(subject string, date time.Time, body string) (rec *model.ParsedTransaction, ok bool, err error)
}

// template is the expected field set for one transaction kind.
// Templates are fixed per kind; the classifier picks one before any
// line is scanned.
type template struct {
	kind model.TransactionKind

	// fields is the set of canonical keys this kind populates.
	fields []string
}

// scanFields walks body lines looking for "Key: Value" pairs, strips
// bolding markup, maps synonym keys to canonical ones, and fills the
// template's fields. The first occurrence of a field wins.
func scanFields(body string, tpl template, synonyms map[string]string) map[string]string {
	wanted := make(map[string]bool, len(tpl.fields))
	for _, f := range tpl.fields {
		wanted[f] = true
	}

	fields := make(map[string]string)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		key = trimMarkup(key)
		value = trimMarkup(value)
		if key == "" || value == "" {
			continue
		}

		if canonical, ok := synonyms[key]; ok {
			key = canonical
		}

		if wanted[key] && fields[key] == "" {
			fields[key] = value
		}
	}

	return fields
}

// trimMarkup removes surrounding whitespace and asterisk bolding left
// over from HTML-to-text conversion.
func trimMarkup(s string) string {
	return strings.Trim(strings.TrimSpace(s), "* \t")
}

// normalizeAccountLabel lowers an account label and replaces spaces
// with underscores, producing the natural key used for account
// get-or-insert.
func normalizeAccountLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}
