package service

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"saldoplus/models"
)

// recurringWindowMonths is how far ahead pending instances are
// materialized: the current competence month plus the next two.
const recurringWindowMonths = 3

// GenerateRecurringInstances materializes pending instances for every
// recurring template across the generation window. Templates themselves are
// excluded from the output; the result is the non-template input plus any
// newly generated instances. At most one instance exists per
// (templateId, competenceMonth) pair, so re-running with the same clock is
// a no-op. The function is pure with respect to persistence: callers diff
// the result against the input and save only the new rows.
func GenerateRecurringInstances(transactions []models.Transaction, now time.Time) []models.Transaction {
	var templates []models.Transaction
	nonTemplates := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.IsRecurring && t.IsTemplate {
			templates = append(templates, t)
		}
		if !t.IsTemplate {
			nonTemplates = append(nonTemplates, t)
		}
	}

	var generated []models.Transaction
	for offset := 0; offset < recurringWindowMonths; offset++ {
		targetMonth := monthStart(now, offset)
		targetKey := MonthKey(targetMonth)

		for _, template := range templates {
			if hasInstance(nonTemplates, template.ID, targetKey) || hasInstance(generated, template.ID, targetKey) {
				continue
			}
			generated = append(generated, newInstance(template, targetMonth, targetKey, now))
		}
	}

	return append(nonTemplates, generated...)
}

func hasInstance(ts []models.Transaction, templateID, monthKey string) bool {
	for _, t := range ts {
		if t.TemplateID == templateID && t.CompetenceMonth == monthKey {
			return true
		}
	}
	return false
}

// newInstance builds a pending instance for one (template, month) pair.
// Fields are copied explicitly rather than cloning the template, so
// template-only state can never leak into an instance.
func newInstance(template models.Transaction, targetMonth time.Time, targetKey string, now time.Time) models.Transaction {
	return models.Transaction{
		ID:              uuid.NewString(),
		UserID:          template.UserID,
		Description:     template.Description,
		Amount:          template.Amount,
		Type:            template.Type,
		CategoryID:      template.CategoryID,
		CompetenceMonth: targetKey,
		DueDate:         projectDueDate(template.DueDate, targetMonth),
		CreatedDate:     now.Format(time.RFC3339),
		PaymentDate:     nil,
		IsPaid:          false,
		IsRecurring:     true,
		IsTemplate:      false,
		TemplateID:      template.ID,
		Notes:           template.Notes,
	}
}

// projectDueDate carries the template's day-of-month onto the target month,
// clamped to the last valid day (day 31 projected onto April becomes 30).
func projectDueDate(dueDate *string, targetMonth time.Time) *string {
	if dueDate == nil || *dueDate == "" {
		return nil
	}
	day := dueDay(*dueDate)
	if day == 0 {
		return nil
	}
	if last := daysInMonth(targetMonth); day > last {
		day = last
	}
	projected := formatDay(targetMonth, day)
	return &projected
}

// dueDay extracts the day component from a YYYY-MM-DD due date.
func dueDay(dueDate string) int {
	if len(dueDate) < 10 {
		return 0
	}
	day, err := strconv.Atoi(dueDate[8:10])
	if err != nil || day < 1 || day > 31 {
		return 0
	}
	return day
}
