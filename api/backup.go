package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"saldoplus/database"
	"saldoplus/middleware"
	"saldoplus/models"
	"saldoplus/service"
)

// BackupHandler handles full-account export and restore
type BackupHandler struct{}

// NewBackupHandler creates a backup handler
func NewBackupHandler() *BackupHandler {
	return &BackupHandler{}
}

const backupVersion = "1.0"

// BackupFile is the portable account snapshot
type BackupFile struct {
	Transactions []models.Transaction `json:"transactions"`
	Categories   []models.Category    `json:"categories"`
	ExportDate   string               `json:"exportDate"`
	Version      string               `json:"version"`
}

// ImportResult reports what a restore brought in
type ImportResult struct {
	Transactions int `json:"transactions"`
	Categories   int `json:"categories"`
}

// Export downloads the account snapshot
// @Summary Export backup
// @Description Downloads every transaction and category of the account as a versioned JSON snapshot.
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BackupFile "snapshot"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

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

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	if categories == nil {
		categories = []models.Category{}
	}

	filename := fmt.Sprintf("saldoplus-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, BackupFile{
		Transactions: transactions,
		Categories:   categories,
		ExportDate:   time.Now().Format(time.RFC3339),
		Version:      backupVersion,
	})
}

// Import restores an account snapshot
// @Summary Import backup
// @Description Restores a snapshot, replacing the account's transactions and categories. The file is validated as a whole first: a single malformed section rejects the entire import, and legacy transaction records are upgraded to the current schema on the way in.
// @Tags backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ImportResult} "restored"
// @Failure 400 {object} Response "malformed backup"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		BadRequest(c, "invalid backup file")
		return
	}

	// validate the whole file before touching anything
	var rawTransactions []map[string]any
	if section, ok := raw["transactions"]; ok {
		if err := json.Unmarshal(section, &rawTransactions); err != nil {
			BadRequest(c, "invalid backup: transactions must be a list")
			return
		}
	}
	var categories []models.Category
	if section, ok := raw["categories"]; ok {
		if err := json.Unmarshal(section, &categories); err != nil {
			BadRequest(c, "invalid backup: categories must be a list")
			return
		}
	}

	normalized := service.NormalizeTransactions(rawTransactions)
	transactions, err := transactionsFromMaps(normalized, userID)
	if err != nil {
		BadRequest(c, "invalid backup: malformed transaction record")
		return
	}
	for i := range categories {
		if categories[i].ID == "" {
			categories[i].ID = uuid.NewString()
		}
		categories[i].UserID = userID
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if len(transactions) > 0 {
			if err := tx.Create(&transactions).Error; err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to restore backup"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil {
		service.RecordAudit(&user, models.LogCategoryData, service.ActionDataImport,
			map[string]any{"transactions": len(transactions), "categories": len(categories)},
			models.LogLevelInfo)
	}

	SuccessWithMessage(c, "backup restored", ImportResult{
		Transactions: len(transactions),
		Categories:   len(categories),
	})
}

// ExportCSV downloads one month as a spreadsheet-friendly CSV
// @Summary Export month as CSV
// @Description Downloads the selected month's transactions as a semicolon-separated CSV with Portuguese headers.
// @Tags backup
// @Produce text/csv
// @Security BearerAuth
// @Param month query string false "competence month (YYYY-MM), defaults to the current month"
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/backup/export/csv [get]
func (h *BackupHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	monthKey := c.DefaultQuery("month", service.MonthKey(time.Now()))
	if !monthKeyPattern.MatchString(monthKey) {
		BadRequest(c, "invalid month, expected YYYY-MM")
		return
	}

	rows, err := h.monthRows(userID, monthKey)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = ';'
	writer.Write(exportHeaders())
	for _, row := range rows {
		writer.Write(row)
	}
	writer.Flush()

	filename := fmt.Sprintf("saldoplus-%s.csv", monthKey)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel downloads one month as an XLSX workbook
// @Summary Export month as Excel
// @Description Downloads the selected month's transactions as an XLSX workbook.
// @Tags backup
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query string false "competence month (YYYY-MM), defaults to the current month"
// @Success 200 {string} string "XLSX file"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/backup/export/excel [get]
func (h *BackupHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	monthKey := c.DefaultQuery("month", service.MonthKey(time.Now()))
	if !monthKeyPattern.MatchString(monthKey) {
		BadRequest(c, "invalid month, expected YYYY-MM")
		return
	}

	rows, err := h.monthRows(userID, monthKey)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load transactions"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transações"
	f.SetSheetName("Sheet1", sheet)
	for col, header := range exportHeaders() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to build workbook"))
		return
	}

	filename := fmt.Sprintf("saldoplus-%s.xlsx", monthKey)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func exportHeaders() []string {
	return []string{"Data", "Descrição", "Valor", "Tipo", "Categoria", "Status", "Competência", "Observações"}
}

// monthRows flattens one month's transactions into export rows.
func (h *BackupHandler) monthRows(userID uint, monthKey string) ([][]string, error) {
	transactions, err := loadUserTransactions(userID)
	if err != nil {
		return nil, err
	}
	categories, err := loadUserCategories(userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	scoped := service.ProjectMonth(transactions, monthKey, service.Filters{})

	rows := make([][]string, 0, len(scoped))
	for _, t := range scoped {
		date := ""
		if t.DueDate != nil {
			date = *t.DueDate
		}
		typeName := "Despesa"
		if t.Type == models.TypeIncome {
			typeName = "Receita"
		}
		status := "Pendente"
		switch {
		case t.IsSkipped:
			status = "Dispensada"
		case t.IsPaid:
			status = "Paga"
		}
		category := names[t.CategoryID]
		if category == "" {
			category = "Sem categoria"
		}
		rows = append(rows, []string{
			date,
			t.Description,
			fmt.Sprintf("%.2f", t.Amount),
			typeName,
			category,
			status,
			t.CompetenceMonth,
			t.Notes,
		})
	}
	return rows, nil
}

// transactionsFromMaps converts normalized backup records into model rows.
func transactionsFromMaps(items []map[string]any, userID uint) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0, len(items))
	for _, item := range items {
		encoded, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var t models.Transaction
		if err := json.Unmarshal(encoded, &t); err != nil {
			return nil, err
		}
		if strings.TrimSpace(t.ID) == "" {
			t.ID = uuid.NewString()
		}
		t.UserID = userID
		transactions = append(transactions, t)
	}
	return transactions, nil
}
