package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/pkg/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Church Inventory Backend"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-that-is-long-enough-0123",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	}
}

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}

	router.GET("/any", AuthMiddleware(cfg), ok)
	router.GET("/staff", AuthMiddleware(cfg), StaffMiddleware(), ok)
	router.GET("/admin", AuthMiddleware(cfg), AdminMiddleware(), ok)

	return router
}

func request(t *testing.T, router *gin.Engine, path, token string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	if code := request(t, router, "/any", ""); code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", code)
	}
	if code := request(t, router, "/any", "not-a-token"); code != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage token, got %d", code)
	}

	// A refresh token must not open authenticated routes.
	refresh, _ := auth.NewJWTManager(cfg).GenerateRefreshToken(1, "a@example.com")
	if code := request(t, router, "/any", refresh); code != http.StatusUnauthorized {
		t.Errorf("expected 401 for refresh token, got %d", code)
	}
}

func TestRoleHierarchy(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)
	manager := auth.NewJWTManager(cfg)

	adminToken, _ := manager.GenerateAccessToken(1, "admin@example.com", "admin")
	staffToken, _ := manager.GenerateAccessToken(2, "staff@example.com", "staff")
	volunteerToken, _ := manager.GenerateAccessToken(3, "volunteer@example.com", "volunteer")

	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"volunteer on open route", "/any", volunteerToken, http.StatusOK},
		{"volunteer on staff route", "/staff", volunteerToken, http.StatusForbidden},
		{"volunteer on admin route", "/admin", volunteerToken, http.StatusForbidden},
		{"staff on staff route", "/staff", staffToken, http.StatusOK},
		{"staff on admin route", "/admin", staffToken, http.StatusForbidden},
		{"admin on staff route", "/staff", adminToken, http.StatusOK},
		{"admin on admin route", "/admin", adminToken, http.StatusOK},
	}

	for _, tc := range cases {
		if code := request(t, router, tc.path, tc.token); code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, code)
		}
	}
}
