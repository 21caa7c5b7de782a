package service

import (
	"sort"
	"strings"

	"saldoplus/models"
)

// Filters are the optional free-text and category filters of the monthly
// view. Zero values mean "no filtering".
type Filters struct {
	Search     string
	CategoryID string
}

// ProjectMonth derives the single-month view of a transaction list.
// Templates are always excluded. A record matches when its competence month
// equals monthKey; legacy records without a competence month fall back to
// the calendar month of their creation date.
func ProjectMonth(transactions []models.Transaction, monthKey string, filters Filters) []models.Transaction {
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.IsTemplate {
			continue
		}
		if !matchesMonth(t, monthKey) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if filters.CategoryID != "" && t.CategoryID != filters.CategoryID {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesMonth(t models.Transaction, monthKey string) bool {
	if t.CompetenceMonth != "" {
		return t.CompetenceMonth == monthKey
	}
	if t.CreatedDate != "" {
		if created, ok := parseFlexibleDate(t.CreatedDate); ok {
			return MonthKey(created) == monthKey
		}
	}
	return false
}

// PendingTransactions filters to records still awaiting user action (not
// paid, not skipped, not a template), sorted by due date ascending with the
// competence month as fallback key; records with neither sort last.
// An empty monthKey keeps pending items from every month.
func PendingTransactions(transactions []models.Transaction, monthKey string) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.IsPending() {
			continue
		}
		if monthKey != "" && t.CompetenceMonth != monthKey {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return pendingSortKey(out[i]) < pendingSortKey(out[j])
	})
	return out
}

// pendingSortKey orders YYYY-MM-DD before YYYY-MM lexicographically, which
// matches calendar order within the window; "9999" pushes undated rows last.
func pendingSortKey(t models.Transaction) string {
	if t.DueDate != nil && *t.DueDate != "" {
		return *t.DueDate
	}
	if t.CompetenceMonth != "" {
		return t.CompetenceMonth
	}
	return "9999"
}

// HistoryTransactions filters to settled records: paid or skipped, never
// templates. Skipped entries stay visible here even though they are
// excluded from the financial totals.
func HistoryTransactions(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.IsTemplate {
			continue
		}
		if t.IsPaid || t.IsSkipped {
			out = append(out, t)
		}
	}
	return out
}
