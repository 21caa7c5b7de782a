package service

import (
	"saldoplus/models"
)

// FinancialSummary is the income/expense/balance reduction of a transaction
// list, plus the partitioned lists the dashboard renders. PaidTransactions
// includes skipped entries for history visibility, while the numeric totals
// exclude them: a skipped bill is not money that moved.
type FinancialSummary struct {
	Income           float64              `json:"income"`
	Expense          float64              `json:"expense"`
	Balance          float64              `json:"balance"`
	Incomes          []models.Transaction `json:"incomes"`
	Expenses         []models.Transaction `json:"expenses"`
	PaidTransactions []models.Transaction `json:"paidTransactions"`
}

// Summarize reduces an already-scoped transaction list (e.g. one month) to
// its financial summary.
func Summarize(transactions []models.Transaction) FinancialSummary {
	paid := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if (t.IsPaid || t.IsSkipped) && !t.IsTemplate {
			paid = append(paid, t)
		}
	}

	incomes := make([]models.Transaction, 0, len(paid))
	expenses := make([]models.Transaction, 0, len(paid))
	var income, expense float64
	for _, t := range paid {
		switch t.Type {
		case models.TypeIncome:
			incomes = append(incomes, t)
			if !t.IsSkipped {
				income += t.Amount
			}
		case models.TypeExpense:
			expenses = append(expenses, t)
			if !t.IsSkipped {
				expense += t.Amount
			}
		}
	}

	return FinancialSummary{
		Income:           income,
		Expense:          expense,
		Balance:          income - expense,
		Incomes:          incomes,
		Expenses:         expenses,
		PaidTransactions: paid,
	}
}
