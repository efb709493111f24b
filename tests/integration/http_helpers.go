package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/foliohq/folio-api/internal/auth"
	"github.com/foliohq/folio-api/internal/config"
	"github.com/foliohq/folio-api/internal/database"
	"github.com/foliohq/folio-api/internal/handlers"
	"github.com/foliohq/folio-api/internal/repositories"
	"github.com/foliohq/folio-api/internal/routes"
	"github.com/foliohq/folio-api/internal/services"
	pkghttp "github.com/foliohq/folio-api/pkg/http"
	pkglogger "github.com/foliohq/folio-api/pkg/logger"
)

// TestServer wraps httptest.Server with a real database behind it
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	Config       *config.Config
	TokenManager *auth.TokenManager
	AdminRepo    *repositories.AdminRepository
}

// NewTestServer wires the full router against the given database
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			AccessTokenSecret:  "integration-access-secret-32-chars!",
			RefreshTokenSecret: "integration-refresh-secret-32-char!",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
			Issuer:             "folio-api",
			Audience:           "folio-admin",
			JanitorInterval:    1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
			TrustedProxies: []string{},
		},
	}

	adminRepo := repositories.NewAdminRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	technologyRepo := repositories.NewTechnologyRepository(db)
	experienceRepo := repositories.NewExperienceRepository(db)
	educationRepo := repositories.NewEducationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth)
	auditLogger := pkglogger.NewAuditLogger(logger)

	authService := services.NewAuthService(adminRepo, tokenManager, logger, auditLogger)
	contentService := services.NewContentService(projectRepo, technologyRepo, experienceRepo, educationRepo, messageRepo, logger)

	ipConfig := &pkghttp.IPConfig{}
	authHandler := handlers.NewAuthHandler(authService, ipConfig)
	contentHandler := handlers.NewContentHandler(contentService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	routes.RegisterRoutes(router, authHandler, contentHandler, tokenManager, adminRepo)

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           db,
		Config:       cfg,
		TokenManager: tokenManager,
		AdminRepo:    adminRepo,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// PostJSON issues a POST with a JSON body and optional bearer token
func (ts *TestServer) PostJSON(path, token string, body interface{}) (*http.Response, error) {
	return ts.doJSON(http.MethodPost, path, token, body)
}

// PutJSON issues a PUT with a JSON body and optional bearer token
func (ts *TestServer) PutJSON(path, token string, body interface{}) (*http.Response, error) {
	return ts.doJSON(http.MethodPut, path, token, body)
}

// Get issues a GET with an optional bearer token
func (ts *TestServer) Get(path, token string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.Server.Client().Do(req)
}

func (ts *TestServer) doJSON(method, path, token string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.Server.Client().Do(req)
}

// DecodeEnvelope reads and decodes the response envelope, returning data as
// raw JSON for further decoding.
func DecodeEnvelope(resp *http.Response) (success bool, message string, data json.RawMessage, err error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, "", nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return false, "", nil, fmt.Errorf("failed to decode envelope %q: %w", raw, err)
	}
	return envelope.Success, envelope.Message, envelope.Data, nil
}
