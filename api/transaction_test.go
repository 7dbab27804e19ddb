package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionColumns() []string {
	return []string{"id", "type", "amount", "description", "category_id", "client_id", "transaction_date", "created_at", "updated_at"}
}

func TestTransactionHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	// 350.005 arredonda para 350.01 (duas casas)
	body := `{"type":"income","amount":350.005,"description":"Ensaio Individual - Ana","transaction_date":"2025-01-10"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 350.01, data["amount"])
	assert.Equal(t, "income", data["type"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_InvalidDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"type":"income","amount":100,"description":"x","transaction_date":"10/01/2025"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_Create_ZeroAmount(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"type":"expense","amount":0,"description":"x","transaction_date":"2025-01-10"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_List_DateRange(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	start, _ := time.ParseInLocation("2006-01-02", "2025-01-01", time.Local)
	end, _ := time.ParseInLocation("2006-01-02", "2025-01-31", time.Local)
	// o último dia entra por inteiro
	endInclusive := end.Add(24*time.Hour - time.Second)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions"`).
		WithArgs("income", start, endInclusive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WithArgs("income", start, endInclusive, 10).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(uuid.New().String(), "income", 350.00, "Ensaio Individual - Ana", nil, nil, time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local), time.Now(), time.Now()).
			AddRow(uuid.New().String(), "income", 1200.00, "Cobertura de Evento", nil, nil, time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local), time.Now(), time.Now()))

	router := gin.New()
	router.GET("/transactions", NewTransactionHandler().List)

	req := httptest.NewRequest("GET", "/transactions?type=income&start_date=2025-01-01&end_date=2025-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"])
	list, ok := data["list"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(transactionColumns()))

	router := gin.New()
	router.DELETE("/transactions/:id", NewTransactionHandler().Delete)

	req := httptest.NewRequest("DELETE", "/transactions/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
