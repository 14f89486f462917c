package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aidar/nexus-api/internal/app"
	"github.com/aidar/nexus-api/internal/config"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	PostgresContainer *postgres.PostgresContainer
	Redis             *miniredis.Miniredis
	App               *app.App
	Server            *httptest.Server
	BaseURL           string
	DB                *pgxpool.Pool
	ctx               context.Context
}

// SetupTestEnvironment создает и инициализирует полное тестовое окружение
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	// Запускаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("nexus_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	// Redis для realtime уведомлений поднимаем в памяти
	mr := miniredis.RunT(t)

	// Схему применяет само приложение (DB_AUTO_MIGRATE)
	cfg := &config.Config{
		App: config.AppConfig{
			Env:      "test",
			LogLevel: "warn",
		},
		Server: config.ServerConfig{
			Port: "0",
			Host: "127.0.0.1",
		},
		Database: config.DatabaseConfig{
			Host:        host,
			Port:        port.Port(),
			User:        "test_user",
			Password:    "test_password",
			Name:        "nexus_test",
			SSLMode:     "disable",
			MaxConns:    10,
			MinConns:    2,
			AutoMigrate: true,
		},
		JWT: config.JWTConfig{
			Secret:          "test-jwt-secret-key-for-integration-tests",
			ExpirationHours: 24,
		},
		Redis: config.RedisConfig{
			Addr: mr.Addr(),
		},
		Notify: config.NotifyConfig{
			PollInterval: 100 * time.Millisecond,
			BatchSize:    50,
			MaxAttempts:  5,
		},
	}

	application, err := app.New(cfg)
	require.NoError(t, err, "Failed to create application")

	err = application.Initialize(ctx)
	require.NoError(t, err, "Failed to initialize application")

	// Доставка уведомлений работает в фоне, HTTP обслуживает httptest
	application.StartWorkers()
	server := httptest.NewServer(application.Handler())

	// Подключение к БД для прямых проверок в тестах
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	return &TestEnvironment{
		PostgresContainer: pgContainer,
		Redis:             mr,
		App:               application,
		Server:            server,
		BaseURL:           server.URL,
		DB:                pool,
		ctx:               ctx,
	}
}

// Cleanup очищает все тестовые ресурсы
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	if te.Server != nil {
		te.Server.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if te.App != nil {
		_ = te.App.Shutdown(shutdownCtx)
	}

	if te.DB != nil {
		te.DB.Close()
	}

	if te.PostgresContainer != nil {
		_ = te.PostgresContainer.Terminate(te.ctx)
	}
}

// MakeRequest вспомогательная функция для HTTP запросов в тестах
func (te *TestEnvironment) MakeRequest(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, te.BaseURL+path, reader)
	require.NoError(t, err, "Failed to create request")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")

	return resp
}

// Do выполняет запрос, проверяет статус и разбирает JSON ответ в out (если out не nil)
func (te *TestEnvironment) Do(t *testing.T, method, path string, body any, token string, wantStatus int, out any) {
	t.Helper()

	resp := te.MakeRequest(t, method, path, body, token)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)

	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
}

// WaitForHealthCheck ждет пока приложение станет доступным
func (te *TestEnvironment) WaitForHealthCheck(t *testing.T) {
	t.Helper()

	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(te.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Application did not become healthy in time")
}
