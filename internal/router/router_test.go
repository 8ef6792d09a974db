package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mohammeder55/CS50-finance/internal/config"
	"github.com/mohammeder55/CS50-finance/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestAPIFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// fake quote provider always prices at $50.00
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"symbol":"SYM","companyName":"Symbolic Corp","latestPrice":50.00}`)
	}))
	defer provider.Close()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: 4},
		Quote: config.QuoteConfig{
			BaseURL:        provider.URL,
			APIKey:         "k",
			TimeoutSeconds: 2,
			FreshnessHours: 24,
		},
		App: config.AppSubConfig{StartingCashCents: 100_000}, // $1,000
	}
	r := SetupRouter(cfg, newTestDB(t))

	// register
	status, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "alice",
		"password":         "correct-horse1",
		"confirm_password": "correct-horse1",
	})
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("register: status %d, envelope %+v", status, env)
	}

	// login
	status, env = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "correct-horse1",
	})
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("login: status %d, envelope %+v", status, env)
	}
	token, _ := env.Data["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	// unauthenticated requests are rejected
	status, _ = doJSON(t, r, http.MethodGet, "/api/portfolio", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated portfolio: status %d, want 401", status)
	}

	// buy 10 shares at $50
	status, env = doJSON(t, r, http.MethodPost, "/api/buy", token, map[string]interface{}{
		"symbol": "SYM",
		"shares": 10,
	})
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("buy: status %d, envelope %+v", status, env)
	}
	if total, _ := env.Data["total"].(string); total != "$500.00" {
		t.Errorf("buy total = %q, want $500.00", total)
	}

	// overspending is rejected with no mutation
	status, _ = doJSON(t, r, http.MethodPost, "/api/buy", token, map[string]interface{}{
		"symbol": "SYM",
		"shares": 1000,
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("overspend buy: status %d, want 422", status)
	}

	// portfolio reflects the single fill
	status, env = doJSON(t, r, http.MethodGet, "/api/portfolio", token, nil)
	if status != http.StatusOK {
		t.Fatalf("portfolio: status %d", status)
	}
	if cash, _ := env.Data["cash"].(string); cash != "$500.00" {
		t.Errorf("cash = %q, want $500.00", cash)
	}
	if worth, _ := env.Data["net_worth"].(string); worth != "$1,000.00" {
		t.Errorf("net worth = %q, want $1,000.00", worth)
	}

	// sell 4 shares
	status, _ = doJSON(t, r, http.MethodPost, "/api/sell", token, map[string]interface{}{
		"symbol": "SYM",
		"shares": 4,
	})
	if status != http.StatusOK {
		t.Fatalf("sell: status %d", status)
	}

	// history has both trades in order
	status, env = doJSON(t, r, http.MethodGet, "/api/history", token, nil)
	if status != http.StatusOK {
		t.Fatalf("history: status %d", status)
	}
	rows, _ := env.Data["history"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("history rows = %d, want 2", len(rows))
	}

	// logout revokes the session
	status, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	if status != http.StatusOK {
		t.Fatalf("logout: status %d", status)
	}
	status, _ = doJSON(t, r, http.MethodGet, "/api/portfolio", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("portfolio after logout: status %d, want 401", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: 4},
		App:      config.AppSubConfig{StartingCashCents: 100_000},
	}
	r := SetupRouter(cfg, newTestDB(t))

	tests := []struct {
		name string
		body map[string]string
	}{
		{"mismatched passwords", map[string]string{
			"username": "alice", "password": "correct-horse1", "confirm_password": "other-horse22",
		}},
		{"short password", map[string]string{
			"username": "alice", "password": "short", "confirm_password": "short",
		}},
		{"bad username", map[string]string{
			"username": "a!", "password": "correct-horse1", "confirm_password": "correct-horse1",
		}},
		{"missing fields", map[string]string{"username": "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
		})
	}
}
