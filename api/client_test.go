package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientColumns() []string {
	return []string{"id", "name", "email", "phone", "address", "notes", "created_at", "updated_at"}
}

func TestClientHandler_List_Search(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	term := "%ana%"
	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WithArgs(term, term, term).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "clients"`).
		WithArgs(term, term, term, 10).
		WillReturnRows(sqlmock.NewRows(clientColumns()).
			AddRow(uuid.New().String(), "Ana Silva", "ana@example.com", "(11) 99999-0000", "", "", time.Now(), time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/clients", NewClientHandler().List)

	req := httptest.NewRequest("GET", "/clients?search=ana", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
	list, ok := data["list"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana Silva", list[0].(map[string]interface{})["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientHandler_List_CountFailure(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// a contagem da paginação falhando aborta a listagem
	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WillReturnError(fmt.Errorf("connection reset"))

	router := gin.New()
	router.GET("/clients", NewClientHandler().List)

	req := httptest.NewRequest("GET", "/clients", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 500, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "clients"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/clients", NewClientHandler().Create)

	body := `{"name":"Ana Silva","email":"ana@example.com"}`
	req := httptest.NewRequest("POST", "/clients", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ana Silva", data["name"])
	// o ID é gerado na aplicação antes do INSERT
	assert.NotEmpty(t, data["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientHandler_Create_InvalidEmail(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/clients", NewClientHandler().Create)

	body := `{"name":"Ana","email":"nao-eh-email"}`
	req := httptest.NewRequest("POST", "/clients", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestClientHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "clients"`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(clientColumns()))

	router := gin.New()
	router.GET("/clients/:id", NewClientHandler().Get)

	req := httptest.NewRequest("GET", "/clients/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientHandler_Delete_Referenced(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "clients"`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows(clientColumns()).
			AddRow(id.String(), "Ana Silva", "", "", "", "", time.Now(), time.Now()))

	// cliente referenciado por lançamentos: o banco rejeita via FK RESTRICT
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "clients"`).
		WillReturnError(fmt.Errorf("ERROR: update or delete on table \"clients\" violates foreign key constraint"))
	mock.ExpectRollback()

	router := gin.New()
	router.DELETE("/clients/:id", NewClientHandler().Delete)

	req := httptest.NewRequest("DELETE", "/clients/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
