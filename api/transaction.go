package api

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saldoplus/database"
	"saldoplus/middleware"
	"saldoplus/models"
	"saldoplus/service"
)

// TransactionHandler handles transaction records and their lifecycle
type TransactionHandler struct{}

// NewTransactionHandler creates a transaction handler
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

const maxAmount = 999999999.99

// CreateTransactionRequest creation payload
type CreateTransactionRequest struct {
	Description     string  `json:"description" binding:"required" example:"Aluguel"`
	Amount          float64 `json:"amount" binding:"required,gt=0" example:"1200.00"`
	Type            string  `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryID      string  `json:"categoryId" example:"a81bc81b-dead-4e5d-abff-90865d1e13b1"`
	CompetenceMonth string  `json:"competenceMonth" binding:"required" example:"2024-03"`
	DueDate         string  `json:"dueDate" example:"2024-03-10"`
	IsPaid          bool    `json:"isPaid"`
	IsRecurring     bool    `json:"isRecurring"`
	IsTemplate      bool    `json:"isTemplate"`
	Notes           string  `json:"notes" example:"apartamento 42"`
}

// UpdateTransactionRequest edit payload; only the editable fields, never
// the lifecycle flags (those change through pay/skip/undo).
type UpdateTransactionRequest struct {
	Description     string  `json:"description" example:"Aluguel"`
	Amount          float64 `json:"amount" binding:"omitempty,gt=0" example:"1250.00"`
	CategoryID      *string `json:"categoryId"`
	CompetenceMonth string  `json:"competenceMonth" example:"2024-04"`
	DueDate         *string `json:"dueDate"`
	Notes           *string `json:"notes"`
}

// SkipTransactionRequest skip payload
type SkipTransactionRequest struct {
	Justification string `json:"justification" binding:"required" example:"viajando este mês"`
}

// Create creates a transaction (or a recurring template)
// @Summary Create transaction
// @Description Creates a transaction. When the record is a recurring template, pending instances for the generation window are materialized immediately and returned alongside it.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction payload"
// @Success 200 {object} Response{data=models.Transaction} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if msg := validateTransactionFields(req.Description, req.Amount, req.CompetenceMonth, req.DueDate); msg != "" {
		BadRequest(c, msg)
		return
	}

	now := time.Now()
	tx := models.Transaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		Description:     req.Description,
		Amount:          req.Amount,
		Type:            req.Type,
		CategoryID:      req.CategoryID,
		CompetenceMonth: req.CompetenceMonth,
		CreatedDate:     now.Format(time.RFC3339),
		IsRecurring:     req.IsRecurring || req.IsTemplate,
		IsTemplate:      req.IsTemplate,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if req.DueDate != "" {
		dueDate := req.DueDate
		tx.DueDate = &dueDate
	}
	if req.IsPaid && !req.IsTemplate {
		tx.Pay(now)
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create transaction"))
		return
	}

	h.audit(userID, service.ActionTransactionCreate, map[string]any{
		"description": tx.Description,
		"amount":      tx.Amount,
		"type":        tx.Type,
	})

	// a fresh template gets its pending instances right away
	if tx.IsRecurring && tx.IsTemplate {
		if _, err := generateForUser(userID, now); err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to generate recurring instances"))
			return
		}
	}

	SuccessWithMessage(c, "transaction created", tx)
}

// List returns the month view
// @Summary List transactions for a month
// @Description Returns the transactions of one competence month, with optional free-text and category filters. Templates are never listed.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param month query string false "competence month (YYYY-MM), defaults to the current month"
// @Param search query string false "case-insensitive description filter"
// @Param category_id query string false "exact category filter"
// @Success 200 {object} Response{data=[]models.Transaction} "transactions"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
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

	Success(c, service.ProjectMonth(transactions, monthKey, service.Filters{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
	}))
}

// Pending returns the pending view
// @Summary List pending transactions
// @Description Returns transactions awaiting action (not paid, not skipped), sorted by due date. Optionally restricted to one competence month.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param month query string false "restrict to one competence month (YYYY-MM)"
// @Success 200 {object} Response{data=[]models.Transaction} "pending transactions"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions/pending [get]
func (h *TransactionHandler) Pending(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	monthKey := c.Query("month")
	if monthKey != "" && !monthKeyPattern.MatchString(monthKey) {
		BadRequest(c, "invalid month, expected YYYY-MM")
		return
	}

	transactions, err := loadUserTransactions(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	Success(c, service.PendingTransactions(transactions, monthKey))
}

// History returns settled transactions
// @Summary List settled transactions
// @Description Returns paid and skipped transactions of one competence month. Skipped entries appear here even though they are excluded from the financial totals.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param month query string false "competence month (YYYY-MM), defaults to the current month"
// @Success 200 {object} Response{data=[]models.Transaction} "history"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions/history [get]
func (h *TransactionHandler) History(c *gin.Context) {
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

	scoped := service.ProjectMonth(transactions, monthKey, service.Filters{})
	Success(c, service.HistoryTransactions(scoped))
}

// Generate materializes recurring instances
// @Summary Generate recurring instances
// @Description Runs the recurring generator for the authenticated user and persists newly materialized pending instances. Safe to call repeatedly: existing instances are never duplicated.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Transaction} "newly generated instances"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions/generate [post]
func (h *TransactionHandler) Generate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	created, err := generateForUser(userID, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to generate recurring instances"))
		return
	}

	SuccessWithMessage(c, "recurring instances generated", created)
}

// Get returns one transaction
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction ID"
// @Success 200 {object} Response{data=models.Transaction} "transaction"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	Success(c, tx)
}

// Update edits a transaction
// @Summary Update transaction
// @Description Edits the editable fields of a transaction. Lifecycle flags change only through the pay/skip/undo endpoints.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction ID"
// @Param request body UpdateTransactionRequest true "fields to update"
// @Success 200 {object} Response{data=models.Transaction} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Description != "" {
		desc := strings.TrimSpace(req.Description)
		if desc == "" || len(desc) > 200 {
			BadRequest(c, "invalid description")
			return
		}
		updates["description"] = desc
	}
	if req.Amount > 0 {
		if req.Amount > maxAmount {
			BadRequest(c, "amount too large")
			return
		}
		updates["amount"] = req.Amount
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.CompetenceMonth != "" {
		if !monthKeyPattern.MatchString(req.CompetenceMonth) {
			BadRequest(c, "invalid competence month, expected YYYY-MM")
			return
		}
		updates["competence_month"] = req.CompetenceMonth
	}
	if req.DueDate != nil {
		if *req.DueDate != "" {
			if _, err := time.Parse("2006-01-02", *req.DueDate); err != nil {
				BadRequest(c, "invalid due date, expected YYYY-MM-DD")
				return
			}
			updates["due_date"] = *req.DueDate
		} else {
			updates["due_date"] = nil
		}
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update transaction"))
			return
		}
	}

	database.DB.First(&tx, "id = ?", tx.ID)
	h.audit(userID, service.ActionTransactionUpdate, map[string]any{"description": tx.Description})
	SuccessWithMessage(c, "transaction updated", tx)
}

// Delete removes a transaction permanently
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction ID"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete transaction"))
		return
	}

	h.audit(userID, service.ActionTransactionDelete, map[string]any{"description": tx.Description})
	SuccessWithMessage(c, "transaction deleted", nil)
}

// Pay confirms a transaction
// @Summary Confirm payment
// @Description Marks the transaction as paid and stamps the payment date.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction ID"
// @Success 200 {object} Response{data=models.Transaction} "paid"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id}/pay [post]
func (h *TransactionHandler) Pay(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}
	if tx.IsTemplate {
		BadRequest(c, "templates cannot be paid")
		return
	}

	tx.Pay(time.Now())
	if err := database.DB.Model(&tx).Select("is_paid", "payment_date").Updates(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update transaction"))
		return
	}

	SuccessWithMessage(c, "payment confirmed", tx)
}

// Skip dismisses a pending transaction with a justification
// @Summary Skip transaction
// @Description Dismisses a pending transaction without paying it. The justification is kept in the notes behind a marker tag. Skipped entries remain visible in the history but add nothing to the totals.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction ID"
// @Param request body SkipTransactionRequest true "justification"
// @Success 200 {object} Response{data=models.Transaction} "skipped"
// @Failure 400 {object} Response "missing justification"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id}/skip [post]
func (h *TransactionHandler) Skip(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SkipTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "justification is required")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}
	if tx.IsTemplate {
		BadRequest(c, "templates cannot be skipped")
		return
	}

	tx.Skip(strings.TrimSpace(req.Justification))
	if err := database.DB.Model(&tx).Select("is_skipped", "notes").Updates(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update transaction"))
		return
	}

	SuccessWithMessage(c, "transaction skipped", tx)
}

// Undo reverts a paid or skipped transaction back to pending
// @Summary Return transaction to pending
// @Description Reverts a paid or skipped transaction: clears the payment date and, when the record was skipped, the justification notes.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "transaction ID"
// @Success 200 {object} Response{data=models.Transaction} "pending again"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id}/undo [post]
func (h *TransactionHandler) Undo(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&tx).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	tx.ReturnToPending()
	if err := database.DB.Model(&tx).
		Select("is_paid", "is_skipped", "payment_date", "notes").
		Updates(map[string]interface{}{
			"is_paid":      tx.IsPaid,
			"is_skipped":   tx.IsSkipped,
			"payment_date": tx.PaymentDate,
			"notes":        tx.Notes,
		}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update transaction"))
		return
	}

	SuccessWithMessage(c, "transaction returned to pending", tx)
}

func (h *TransactionHandler) audit(userID uint, action string, details map[string]any) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		service.RecordAudit(nil, models.LogCategoryFinance, action, details, models.LogLevelInfo)
		return
	}
	service.RecordAudit(&user, models.LogCategoryFinance, action, details, models.LogLevelInfo)
}

// validateTransactionFields rejects bad input before any persistence call.
func validateTransactionFields(description string, amount float64, competenceMonth, dueDate string) string {
	if description == "" {
		return "description must not be empty"
	}
	if len(description) > 200 {
		return "description too long (max 200 characters)"
	}
	if amount <= 0 {
		return "amount must be greater than zero"
	}
	if amount > maxAmount {
		return "amount too large"
	}
	if !monthKeyPattern.MatchString(competenceMonth) {
		return "invalid competence month, expected YYYY-MM"
	}
	if dueDate != "" {
		if _, err := time.Parse("2006-01-02", dueDate); err != nil {
			return "invalid due date, expected YYYY-MM-DD"
		}
	}
	return ""
}

// loadUserTransactions loads the full transaction list of one user.
func loadUserTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := database.DB.Where("user_id = ?", userID).Find(&transactions).Error
	return transactions, err
}

// generateForUser runs the recurring generator over the user's list and
// persists only the newly materialized instances.
func generateForUser(userID uint, now time.Time) ([]models.Transaction, error) {
	transactions, err := loadUserTransactions(userID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		existing[t.ID] = true
	}

	processed := service.GenerateRecurringInstances(transactions, now)

	created := make([]models.Transaction, 0)
	for _, t := range processed {
		if !existing[t.ID] {
			created = append(created, t)
		}
	}
	if len(created) > 0 {
		if err := database.DB.Create(&created).Error; err != nil {
			return nil, err
		}
	}
	return created, nil
}
