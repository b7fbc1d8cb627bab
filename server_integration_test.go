package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewBuffer(b)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

// registerAndLogin creates a fresh user and returns its token and id.
func registerAndLogin(t *testing.T, r *gin.Engine, username string) (string, float64) {
	t.Helper()
	email := username + "@example.com"
	resp := performRequest(r, http.MethodPost, "/auth/register",
		jsonBody(t, map[string]string{"username": username, "email": email, "password": "pass123"}), "")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodPost, "/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": "pass123"}), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", body)
	}
	id, _ := body["userId"].(float64)
	return token, id
}

func TestFullLedgerFlow(t *testing.T) {
	r := setupTestServer(t)
	user := fmt.Sprintf("user%d", time.Now().UnixNano())
	token, _ := registerAndLogin(t, r, user)

	// create a budget
	resp := performRequest(r, http.MethodPost, "/budget",
		jsonBody(t, map[string]any{"name": "Travel", "amount": 500}), token)
	if resp.Code != 200 {
		t.Fatalf("create budget failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	budget := decodeBody(t, resp)
	budgetID := budget["id"].(float64)

	// an expense above the budget target is still accepted at the ledger layer
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/budget/%.0f/expense", budgetID),
		jsonBody(t, map[string]any{"description": "Flight", "amount": 600, "date": "2024-01-15", "category": "Travel"}), token)
	if resp.Code != 200 {
		t.Fatalf("add expense failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// income
	resp = performRequest(r, http.MethodPost, "/income",
		jsonBody(t, map[string]any{"source": "Salary", "category": "Job", "amount": 100, "date": "2024-01-15"}), token)
	if resp.Code != 200 {
		t.Fatalf("create income failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// summary reflects the over-budget expense
	resp = performRequest(r, http.MethodGet, "/chart/summary", nil, token)
	if resp.Code != 200 {
		t.Fatalf("summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	summary := decodeBody(t, resp)
	if summary["totalExpenses"].(float64) != 600 {
		t.Fatalf("totalExpenses = %v, want 600", summary["totalExpenses"])
	}
	if summary["balance"].(float64) != -500 {
		t.Fatalf("balance = %v, want -500", summary["balance"])
	}

	// chart data groups by month
	resp = performRequest(r, http.MethodGet, "/chart/chart-data", nil, token)
	if resp.Code != 200 {
		t.Fatalf("chart data failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// budgets list eagerly attaches expenses
	resp = performRequest(r, http.MethodGet, "/budget", nil, token)
	if resp.Code != 200 {
		t.Fatalf("list budgets failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var budgets []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &budgets); err != nil {
		t.Fatalf("decode budgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
	if exps, _ := budgets[0]["expenses"].([]any); len(exps) != 1 {
		t.Fatalf("expected 1 expense attached to budget, got %v", budgets[0]["expenses"])
	}

	// deleting the budget removes its expenses too
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/budget/%.0f", budgetID), nil, token)
	if resp.Code != 200 {
		t.Fatalf("delete budget failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/expense", nil, token)
	if resp.Code != 200 {
		t.Fatalf("list expenses failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var expenses []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &expenses); err != nil {
		t.Fatalf("decode expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected no expenses after budget delete, got %d", len(expenses))
	}

	// unauthenticated access is rejected
	unauth := performRequest(r, http.MethodGet, "/budget", nil, "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list budgets got %d", unauth.Code)
	}
}

func TestCrossUserAccessForbidden(t *testing.T) {
	r := setupTestServer(t)
	suffix := time.Now().UnixNano()
	tokenA, _ := registerAndLogin(t, r, fmt.Sprintf("alice%d", suffix))
	tokenB, _ := registerAndLogin(t, r, fmt.Sprintf("bob%d", suffix))

	resp := performRequest(r, http.MethodPost, "/budget",
		jsonBody(t, map[string]any{"name": "Groceries", "amount": 200}), tokenA)
	if resp.Code != 200 {
		t.Fatalf("create budget failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	budgetID := decodeBody(t, resp)["id"].(float64)

	// B may neither read, edit, nor delete A's budget
	for _, tc := range []struct {
		method, path string
		body         io.Reader
	}{
		{http.MethodGet, fmt.Sprintf("/budget/%.0f", budgetID), nil},
		{http.MethodPut, fmt.Sprintf("/budget/%.0f/edit", budgetID), jsonBody(t, map[string]any{"name": "hijack"})},
		{http.MethodDelete, fmt.Sprintf("/budget/%.0f", budgetID), nil},
	} {
		resp := performRequest(r, tc.method, tc.path, tc.body, tokenB)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d body=%s", tc.method, tc.path, resp.Code, resp.Body.String())
		}
	}

	// still intact for A
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/budget/%.0f", budgetID), nil, tokenA)
	if resp.Code != 200 {
		t.Fatalf("owner read failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestGuestSessionPurge(t *testing.T) {
	r := setupTestServer(t)

	resp := performRequest(r, http.MethodPost, "/guest/guest-login", nil, "")
	if resp.Code != 200 {
		t.Fatalf("guest login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	token := decodeBody(t, resp)["token"].(string)

	resp = performRequest(r, http.MethodPost, "/expense",
		jsonBody(t, map[string]any{"description": "Snack", "amount": 20, "date": "2024-03-01", "category": "Food"}), token)
	if resp.Code != 200 {
		t.Fatalf("guest expense failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodDelete, "/guest/logout", nil, token)
	if resp.Code != 200 {
		t.Fatalf("guest logout failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// the account is gone; the still-valid token no longer resolves
	resp = performRequest(r, http.MethodGet, "/expense", nil, token)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after guest purge, got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestEmptySummaryAllZeros(t *testing.T) {
	r := setupTestServer(t)
	token, _ := registerAndLogin(t, r, fmt.Sprintf("empty%d", time.Now().UnixNano()))

	resp := performRequest(r, http.MethodGet, "/chart/summary", nil, token)
	if resp.Code != 200 {
		t.Fatalf("summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	summary := decodeBody(t, resp)
	for _, k := range []string{"totalIncome", "totalExpenses", "balance"} {
		if summary[k].(float64) != 0 {
			t.Fatalf("%s = %v, want 0", k, summary[k])
		}
	}
	util := summary["budgetUtilization"].(map[string]any)
	if util["used"].(float64) != 0 || util["total"].(float64) != 0 {
		t.Fatalf("budgetUtilization = %v, want zeros", util)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
