package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldoplus/models"
)

func TestProjectMonth_CompetenceMatch(t *testing.T) {
	ts := []models.Transaction{
		{ID: "a", Description: "Luz", CompetenceMonth: "2024-03"},
		{ID: "b", Description: "Água", CompetenceMonth: "2024-04"},
		{ID: "c", Description: "Template", CompetenceMonth: "2024-03", IsTemplate: true},
	}

	out := ProjectMonth(ts, "2024-03", Filters{})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestProjectMonth_LegacyCreatedDateFallback(t *testing.T) {
	ts := []models.Transaction{
		{ID: "legacy", Description: "Antiga", CreatedDate: "2024-03-05T08:30:00Z"},
		{ID: "other", Description: "Outra", CreatedDate: "2024-02-28T08:30:00Z"},
		{ID: "blank", Description: "Sem data"},
	}

	out := ProjectMonth(ts, "2024-03", Filters{})
	require.Len(t, out, 1)
	assert.Equal(t, "legacy", out[0].ID)
}

func TestProjectMonth_SearchFilter(t *testing.T) {
	ts := []models.Transaction{
		{ID: "a", Description: "Conta de Luz", CompetenceMonth: "2024-03"},
		{ID: "b", Description: "Mercado", CompetenceMonth: "2024-03"},
	}

	out := ProjectMonth(ts, "2024-03", Filters{Search: "luz"})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)

	assert.Len(t, ProjectMonth(ts, "2024-03", Filters{Search: "LUZ"}), 1)
	assert.Empty(t, ProjectMonth(ts, "2024-03", Filters{Search: "internet"}))
}

func TestProjectMonth_CategoryFilter(t *testing.T) {
	ts := []models.Transaction{
		{ID: "a", Description: "Luz", CompetenceMonth: "2024-03", CategoryID: "bills"},
		{ID: "b", Description: "Pizza", CompetenceMonth: "2024-03", CategoryID: "food"},
	}

	out := ProjectMonth(ts, "2024-03", Filters{CategoryID: "food"})
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestPendingTransactions_ExcludesSettled(t *testing.T) {
	ts := []models.Transaction{
		{ID: "pending", CompetenceMonth: "2024-03"},
		{ID: "paid", CompetenceMonth: "2024-03", IsPaid: true},
		{ID: "skipped", CompetenceMonth: "2024-03", IsSkipped: true},
		{ID: "template", CompetenceMonth: "2024-03", IsTemplate: true},
	}

	out := PendingTransactions(ts, "")
	require.Len(t, out, 1)
	assert.Equal(t, "pending", out[0].ID)
}

func TestPendingTransactions_SortOrder(t *testing.T) {
	ts := []models.Transaction{
		{ID: "no-dates"},
		{ID: "late-due", CompetenceMonth: "2024-03", DueDate: strPtr("2024-03-25")},
		{ID: "competence-only", CompetenceMonth: "2024-03"},
		{ID: "early-due", CompetenceMonth: "2024-03", DueDate: strPtr("2024-03-05")},
	}

	out := PendingTransactions(ts, "")
	require.Len(t, out, 4)
	// due dates ascending, competence-only between, undated last
	assert.Equal(t, "competence-only", out[0].ID)
	assert.Equal(t, "early-due", out[1].ID)
	assert.Equal(t, "late-due", out[2].ID)
	assert.Equal(t, "no-dates", out[3].ID)
}

func TestPendingTransactions_MonthScoped(t *testing.T) {
	ts := []models.Transaction{
		{ID: "mar", CompetenceMonth: "2024-03"},
		{ID: "apr", CompetenceMonth: "2024-04"},
	}

	out := PendingTransactions(ts, "2024-04")
	require.Len(t, out, 1)
	assert.Equal(t, "apr", out[0].ID)
}

func TestHistoryTransactions(t *testing.T) {
	ts := []models.Transaction{
		{ID: "pending"},
		{ID: "paid", IsPaid: true},
		{ID: "skipped", IsSkipped: true},
		{ID: "template", IsPaid: true, IsTemplate: true},
	}

	out := HistoryTransactions(ts)
	require.Len(t, out, 2)
	assert.Equal(t, "paid", out[0].ID)
	assert.Equal(t, "skipped", out[1].ID)
}
