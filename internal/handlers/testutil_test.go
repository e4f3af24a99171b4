package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/questly/backend/internal/config"
	"github.com/questly/backend/internal/database"
	"github.com/questly/backend/internal/middleware"
	"github.com/questly/backend/internal/models"
	"github.com/questly/backend/internal/services"
	"github.com/questly/backend/pkg/logger"
	"github.com/questly/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	uploadDir string
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 60)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	uploadDir := t.TempDir()

	accessService := services.NewAccessService(db)
	authService := services.NewAuthService(db)
	fileService := services.NewFileService(db, config.UploadConfig{Dir: uploadDir})

	authHandler := NewAuthHandler(authService)
	filesHandler := NewFilesHandler(fileService)
	protectedHandler := NewProtectedHandler()

	authMiddleware := middleware.NewAuthMiddleware(accessService, []string{"/auth", "/health"})

	app := fiber.New(fiber.Config{
		BodyLimit:    100 * 1024 * 1024,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())
	app.Use(authMiddleware.RequireAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	fileRoutes := app.Group("/files")
	fileRoutes.Get("/", filesHandler.List)
	fileRoutes.Post("/bulk-upload", filesHandler.BulkUpload)
	fileRoutes.Delete("/bulk-delete", filesHandler.BulkDelete)
	fileRoutes.Get("/:moduleName/:fileName", filesHandler.Get)

	protectedRoutes := app.Group("/protected")
	protectedRoutes.Get("/quester", middleware.RequireRole(models.RoleQuester), protectedHandler.QuesterOnly)
	protectedRoutes.Get("/requester", middleware.RequireRole(models.RoleRequester), protectedHandler.RequesterOnly)

	return &testEnv{app: app, db: db, uploadDir: uploadDir}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, isQuester, isRequester bool) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		FullName:     "Test User",
		IsQuester:    isQuester,
		IsRequester:  isRequester,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user.Email)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

type formFile struct {
	name    string
	content []byte
}

func performMultipartUpload(t *testing.T, app *fiber.App, path, moduleName string, files []formFile, headers map[string]string) *http.Response {
	t.Helper()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	if moduleName != "" {
		if err := writer.WriteField("moduleName", moduleName); err != nil {
			t.Fatalf("failed writing moduleName field: %v", err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.name)
		if err != nil {
			t.Fatalf("failed creating form file: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("failed writing form file content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{"Content-Type": writer.FormDataContentType()}
	for key, value := range headers {
		requestHeaders[key] = value
	}

	return performRequest(t, app, http.MethodPost, path, &buffer, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelope(t *testing.T, body map[string]any, status int, message string) {
	t.Helper()
	if got, ok := body["status"].(float64); !ok || int(got) != status {
		t.Fatalf("expected envelope status %d, got %v", status, body["status"])
	}
	if got, ok := body["message"].(string); !ok || got != message {
		t.Fatalf("expected envelope message %q, got %v", message, body["message"])
	}
}
