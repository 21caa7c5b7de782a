package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldoplus/config"
)

func categoryColumns() []string {
	return []string{"id", "user_id", "name", "icon", "color", "type", "is_active", "created_at", "updated_at", "deleted_at"}
}

func backupTestRouter(userID uint) (*gin.Engine, *BackupHandler) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(setUserIDMiddleware(userID))
	return r, NewBackupHandler()
}

func TestBackupHandler_Export(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("a1", 7, "Mercado", 320.0, "expense", "c1", "2024-03", nil, "2024-03-02T10:00:00Z", nil,
				false, false, false, false, "", "", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows(categoryColumns()).
			AddRow("c1", 7, "Alimentação", "🍔", "#ff6b6b", "expense", true, time.Now(), time.Now(), nil))

	r, h := backupTestRouter(7)
	r.GET("/backup/export", h.Export)

	req := httptest.NewRequest("GET", "/backup/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	var backup BackupFile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &backup))
	assert.Equal(t, "1.0", backup.Version)
	assert.NotEmpty(t, backup.ExportDate)
	require.Len(t, backup.Transactions, 1)
	assert.Equal(t, "a1", backup.Transactions[0].ID)
	require.Len(t, backup.Categories, 1)
	assert.Equal(t, "Alimentação", backup.Categories[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupHandler_Import_RejectsMalformedSections(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	r, h := backupTestRouter(7)
	r.POST("/backup/import", h.Import)

	// one bad section rejects the entire file, nothing is persisted
	cases := []string{
		`{"transactions":"not-an-array","categories":[]}`,
		`{"transactions":[],"categories":42}`,
		`not json at all`,
	}
	for _, body := range cases {
		req := httptest.NewRequest("POST", "/backup/import", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, 400, w.Code, "body: %s", body)
	}
}

func TestBackupHandler_Import_LegacyRecordsUpgraded(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// audit lookup + entry
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	r, h := backupTestRouter(7)
	r.POST("/backup/import", h.Import)

	// legacy record: flat date, no competence month
	body := `{
		"transactions":[{"id":"old1","description":"Luz","amount":150,"type":"expense","date":"2023-08-10"}],
		"categories":[{"id":"c9","name":"Contas","type":"expense","isActive":true}],
		"exportDate":"2023-09-01T00:00:00Z",
		"version":"1.0"
	}`
	req := httptest.NewRequest("POST", "/backup/import", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["transactions"])
	assert.Equal(t, float64(1), data["categories"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupHandler_ExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("a1", 7, "Mercado", 320.5, "expense", "c1", "2024-03", "2024-03-05", "2024-03-02T10:00:00Z", nil,
				true, false, false, false, "", "", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows(categoryColumns()).
			AddRow("c1", 7, "Alimentação", "🍔", "#ff6b6b", "expense", true, time.Now(), time.Now(), nil))

	r, h := backupTestRouter(7)
	r.GET("/backup/export/csv", h.ExportCSV)

	req := httptest.NewRequest("GET", "/backup/export/csv?month=2024-03", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Data;Descrição;Valor;Tipo;Categoria;Status;Competência;Observações", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Mercado")
	assert.Contains(t, lines[1], "320.50")
	assert.Contains(t, lines[1], "Paga")
	require.NoError(t, mock.ExpectationsWereMet())
}
