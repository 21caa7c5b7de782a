package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"saldoplus/middleware"
	"saldoplus/models"
	"saldoplus/service"
)

// SummaryHandler exposes the month financial summary and breakdowns
type SummaryHandler struct{}

// NewSummaryHandler creates a summary handler
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

// CategoryTotal one category's settled total within the month
type CategoryTotal struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color"`
	Type       string  `json:"type"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// Get returns the financial summary of one month
// @Summary Month financial summary
// @Description Totals paid income and expenses of the selected month. Skipped transactions appear in the settled list but contribute nothing to the numbers.
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param month query string false "competence month (YYYY-MM), defaults to the current month"
// @Param search query string false "case-insensitive description filter"
// @Param category_id query string false "exact category filter"
// @Success 200 {object} Response{data=service.FinancialSummary} "summary"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	monthKey := c.DefaultQuery("month", service.MonthKey(time.Now()))
	if !monthKeyPattern.MatchString(monthKey) {
		BadRequest(c, "invalid month, expected YYYY-MM")
		return
	}

	transactions, err := loadUserTransactions(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	scoped := service.ProjectMonth(transactions, monthKey, service.Filters{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
	})
	Success(c, service.Summarize(scoped))
}

// Categories returns per-category settled totals for one month
// @Summary Month totals by category
// @Description Groups the month's paid transactions by category. Skipped transactions are excluded, matching the summary totals.
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param month query string false "competence month (YYYY-MM), defaults to the current month"
// @Success 200 {object} Response{data=[]CategoryTotal} "per-category totals"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/summary/categories [get]
func (h *SummaryHandler) Categories(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	monthKey := c.DefaultQuery("month", service.MonthKey(time.Now()))
	if !monthKeyPattern.MatchString(monthKey) {
		BadRequest(c, "invalid month, expected YYYY-MM")
		return
	}

	transactions, err := loadUserTransactions(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	categories, err := loadUserCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load categories"))
		return
	}
	byID := make(map[string]models.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	scoped := service.ProjectMonth(transactions, monthKey, service.Filters{})

	totals := make(map[string]*CategoryTotal)
	order := make([]string, 0)
	for _, t := range scoped {
		if !t.IsPaid || t.IsSkipped {
			continue
		}
		entry, ok := totals[t.CategoryID]
		if !ok {
			entry = &CategoryTotal{CategoryID: t.CategoryID, Type: t.Type}
			if cat, found := byID[t.CategoryID]; found {
				entry.Name = cat.Name
				entry.Icon = cat.Icon
				entry.Color = cat.Color
			} else {
				entry.Name = "Sem categoria"
			}
			totals[t.CategoryID] = entry
			order = append(order, t.CategoryID)
		}
		entry.Total += t.Amount
		entry.Count++
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		result = append(result, *totals[id])
	}
	Success(c, result)
}
