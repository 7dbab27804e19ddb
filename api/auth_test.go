package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"estudio/config"
	"estudio/database"
	"estudio/middleware"
	"estudio/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// setUserIDMiddleware injeta o usuário autenticado, como faria o JWTAuth
func setUserIDMiddleware(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", "admin")
		c.Next()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

func userColumns() []string {
	return []string{"id", "username", "password", "created_at", "updated_at"}
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs("admin", 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(userID.String(), "admin", string(hashed), time.Now(), time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg, service.NewCredentialVerifier())
	router.POST("/login", h.Login)

	body := `{"username":"admin","password":"admin123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(200), resp["code"])
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])

	// a senha nunca aparece na resposta
	userInfo, ok := data["user_info"].(map[string]interface{})
	require.True(t, ok)
	_, hasPassword := userInfo["password"]
	assert.False(t, hasPassword)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("outra-senha"), bcrypt.DefaultCost)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs("admin", 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(uuid.New().String(), "admin", string(hashed), time.Now(), time.Now()))

	router := gin.New()
	h := NewAuthHandler(cfg, service.NewCredentialVerifier())
	router.POST("/login", h.Login)

	body := `{"username":"admin","password":"errada"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "usuário ou senha incorretos", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs("ninguem", 1).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	router := gin.New()
	h := NewAuthHandler(cfg, service.NewCredentialVerifier())
	router.POST("/login", h.Login)

	body := `{"username":"ninguem","password":"qualquer"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("senha-atual"), bcrypt.DefaultCost)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(userID.String(), "admin", string(hashed), time.Now(), time.Now()))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	h := NewAuthHandler(cfg, service.NewCredentialVerifier())
	router.PUT("/password", h.ChangePassword)

	body := `{"old_password":"senha-atual","new_password":"senha-nova"}`
	req := httptest.NewRequest("PUT", "/password", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "senha alterada", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("senha-atual"), bcrypt.DefaultCost)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(userID.String(), "admin", string(hashed), time.Now(), time.Now()))

	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	h := NewAuthHandler(cfg, service.NewCredentialVerifier())
	router.PUT("/password", h.ChangePassword)

	body := `{"old_password":"errada","new_password":"senha-nova"}`
	req := httptest.NewRequest("PUT", "/password", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "senha atual incorreta", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
