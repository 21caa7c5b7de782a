package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldoplus/config"
	"saldoplus/models"
)

func TestSummaryHandler_SkippedListedButNotCounted(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("p1", 7, "Salário", 5000.0, "income", "c9", "2024-03", nil, "2024-03-01T08:00:00Z", "2024-03-05T08:00:00Z",
				true, false, false, false, "", "", time.Now(), time.Now(), nil).
			AddRow("p2", 7, "Mercado", 320.0, "expense", "c1", "2024-03", nil, "2024-03-02T10:00:00Z", "2024-03-06T10:00:00Z",
				true, false, false, false, "", "", time.Now(), time.Now(), nil).
			// settled without payment: visible, worth zero
			AddRow("s1", 7, "Academia", 90.0, "expense", "c2", "2024-03", nil, "2024-03-02T10:00:00Z", nil,
				false, true, false, false, "", models.SkipNoteTag+" viajando", time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(setUserIDMiddleware(7))
	h := NewSummaryHandler()
	r.GET("/summary", h.Get)

	req := httptest.NewRequest("GET", "/summary?month=2024-03", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})

	assert.Equal(t, 5000.0, data["income"])
	assert.Equal(t, 320.0, data["expense"])
	assert.Equal(t, 4680.0, data["balance"])

	// the skipped record still shows up among the settled ones
	paid := data["paidTransactions"].([]interface{})
	assert.Len(t, paid, 3)
	require.NoError(t, mock.ExpectationsWereMet())
}
