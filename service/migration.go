package service

import (
	"time"
)

// NormalizeTransactions upgrades a list of transaction-like records from
// older schemas (a single legacy "date" field, missing booleans) to the
// current shape. Records arrive as decoded JSON so that fields unknown to
// the current schema pass through untouched. Non-array input yields an
// empty list rather than an error, and normalizing twice yields the same
// result as normalizing once.
func NormalizeTransactions(v any) []map[string]any {
	return NormalizeTransactionsAt(v, time.Now())
}

// NormalizeTransactionsAt is NormalizeTransactions with an injected clock.
func NormalizeTransactionsAt(v any, now time.Time) []map[string]any {
	var records []map[string]any
	switch list := v.(type) {
	case []map[string]any:
		records = list
	case []any:
		for _, item := range list {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			}
		}
	default:
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, normalizeTransaction(rec, now))
	}
	return out
}

func normalizeTransaction(rec map[string]any, now time.Time) map[string]any {
	// Already on the current schema: a competence month plus an explicitly
	// defined paymentDate key (even null) means nothing to migrate.
	_, hasPaymentDate := rec["paymentDate"]
	if stringField(rec, "competenceMonth") != "" && hasPaymentDate {
		return rec
	}

	migrated := make(map[string]any, len(rec)+4)
	for k, v := range rec {
		migrated[k] = v
	}

	legacyDate := stringField(rec, "date")

	if stringField(rec, "competenceMonth") == "" {
		migrated["competenceMonth"] = competenceFromDate(legacyDate, now)
	}
	if stringField(rec, "createdDate") == "" {
		if legacyDate != "" {
			migrated["createdDate"] = legacyDate
		} else {
			migrated["createdDate"] = now.Format(time.RFC3339)
		}
	}

	if boolField(rec, "isPaid") {
		if legacyDate != "" {
			migrated["paymentDate"] = legacyDate
		} else {
			migrated["paymentDate"] = now.Format(time.RFC3339)
		}
	} else {
		migrated["paymentDate"] = nil
	}

	if _, ok := rec["notes"]; !ok {
		migrated["notes"] = ""
	}
	for _, flag := range []string{"isPaid", "isRecurring", "isTemplate"} {
		if _, ok := rec[flag]; !ok {
			migrated[flag] = false
		}
	}

	return migrated
}

// competenceFromDate derives a YYYY-MM key from a legacy date string,
// falling back to the current month when the date is absent or unparsable.
func competenceFromDate(dateStr string, now time.Time) string {
	if dateStr != "" {
		if t, ok := parseFlexibleDate(dateStr); ok {
			return MonthKey(t)
		}
	}
	return MonthKey(now)
}

func stringField(rec map[string]any, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

func boolField(rec map[string]any, key string) bool {
	if b, ok := rec[key].(bool); ok {
		return b
	}
	return false
}
