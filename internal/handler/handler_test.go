package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/budget-buddy/api/internal/config"
	"github.com/budget-buddy/api/internal/handler"
	"github.com/budget-buddy/api/internal/middleware"
	"github.com/budget-buddy/api/internal/models"
	"github.com/budget-buddy/api/internal/repository"
	"github.com/budget-buddy/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestEnv wires the full API onto an in-memory database and redis,
// mirroring the wiring in cmd/server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Budget{}, &models.Expense{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := repository.NewUserRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	tokenStore := service.NewTokenStore(rdb)
	authService := service.NewAuthService(userRepo, tokenStore, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})
	profileService := service.NewProfileService(db, userRepo, budgetRepo, expenseRepo)
	budgetService := service.NewBudgetService(db, budgetRepo, expenseRepo)
	expenseService := service.NewExpenseService(db, budgetRepo, expenseRepo)
	reportService := service.NewReportService(budgetRepo, expenseRepo)

	router := gin.New()
	authMiddleware := middleware.AuthMiddleware(authService)
	v1 := router.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(v1, authMiddleware)
	handler.NewProfileHandler(profileService, authService).RegisterRoutes(v1, authMiddleware)
	handler.NewBudgetHandler(budgetService, reportService).RegisterRoutes(v1, authMiddleware)
	handler.NewExpenseHandler(expenseService).RegisterRoutes(v1, authMiddleware)

	return &testEnv{router: router, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns their bearer token
func (e *testEnv) register(t *testing.T, username, email string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"first_name": "Test",
		"last_name":  "User",
		"username":   username,
		"email":      email,
		"password":   "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token.AccessToken)
	return resp.Data.Token.AccessToken
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
