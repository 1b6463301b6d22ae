package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"meal-planner/internal/shopping"
)

var testSecret = []byte("test-secret")

// mockService records the last call and returns canned results.
type mockService struct {
	list       *shopping.ShoppingList
	err        error
	removed    bool
	lastStart  time.Time
	lastID     string
	lastCheck  bool
	lastCustom shopping.CustomItemInput
}

func (m *mockService) Generate(ctx context.Context, start time.Time) (*shopping.ShoppingList, error) {
	m.lastStart = start
	return m.list, m.err
}

func (m *mockService) Toggle(ctx context.Context, start time.Time, itemID string, checked bool) error {
	m.lastStart, m.lastID, m.lastCheck = start, itemID, checked
	return m.err
}

func (m *mockService) AddCustomItem(ctx context.Context, start time.Time, in shopping.CustomItemInput) (shopping.ShoppingItem, error) {
	m.lastStart, m.lastCustom = start, in
	if m.err != nil {
		return shopping.ShoppingItem{}, m.err
	}
	return shopping.ShoppingItem{ID: "custom-1", Name: in.Name, Quantity: in.Quantity, IsCustom: true, Category: in.Category}, nil
}

func (m *mockService) RemoveItem(ctx context.Context, start time.Time, itemID string) (bool, error) {
	m.lastStart, m.lastID = start, itemID
	return m.removed, m.err
}

func (m *mockService) Prune(ctx context.Context, start time.Time) (int, error) {
	m.lastStart = start
	return 2, m.err
}

func signToken(t *testing.T, secret []byte, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	})
	s, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return s
}

func doRequest(t *testing.T, svc ShoppingService, method, path, body, token string) (int, Response) {
	t.Helper()
	app := NewServer(svc, Config{JWTSecret: testSecret, DataPath: t.TempDir()})

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var out Response
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", string(data), err)
		}
	}
	return resp.StatusCode, out
}

func TestAuth(t *testing.T) {
	svc := &mockService{list: &shopping.ShoppingList{}}

	t.Run("MissingToken", func(t *testing.T) {
		status, _ := doRequest(t, svc, http.MethodGet, "/api/v1/shopping-lists/2026-10-12", "", "")
		if status != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", status)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := signToken(t, []byte("other"), time.Now().Add(time.Hour))
		status, _ := doRequest(t, svc, http.MethodGet, "/api/v1/shopping-lists/2026-10-12", "", token)
		if status != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", status)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token := signToken(t, testSecret, time.Now().Add(-time.Hour))
		status, _ := doRequest(t, svc, http.MethodGet, "/api/v1/shopping-lists/2026-10-12", "", token)
		if status != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", status)
		}
	})

	t.Run("HealthIsPublic", func(t *testing.T) {
		app := NewServer(svc, Config{JWTSecret: testSecret, DataPath: t.TempDir()})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})
}

func TestGetList(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	svc := &mockService{list: &shopping.ShoppingList{
		Categories: []shopping.CategoryItems{
			{Category: shopping.CategoryDairy, Items: []shopping.ShoppingItem{{ID: "item-1", Name: "Milk", Quantity: "2", Unit: "cup"}}},
		},
	}}

	status, resp := doRequest(t, svc, http.MethodGet, "/api/v1/shopping-lists/2026-10-12", "", token)
	if status != http.StatusOK || !resp.Status {
		t.Fatalf("Expected 200 success, got %d %+v", status, resp)
	}
	if got := svc.lastStart.Format("2006-01-02"); got != "2026-10-12" {
		t.Errorf("Expected start 2026-10-12, got %s", got)
	}

	status, _ = doRequest(t, svc, http.MethodGet, "/api/v1/shopping-lists/not-a-date", "", token)
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad date, got %d", status)
	}
}

func TestAddItem(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))

	t.Run("Success", func(t *testing.T) {
		svc := &mockService{}
		status, resp := doRequest(t, svc, http.MethodPost, "/api/v1/shopping-lists/2026-10-12/items",
			`{"name":"Eggs","quantity":"12","category":"dairy"}`, token)
		if status != http.StatusCreated {
			t.Fatalf("Expected 201, got %d %+v", status, resp)
		}
		if svc.lastCustom.Category != shopping.CategoryDairy || svc.lastCustom.Name != "Eggs" {
			t.Errorf("Unexpected input passed to service: %+v", svc.lastCustom)
		}
	})

	t.Run("InvalidCategory", func(t *testing.T) {
		svc := &mockService{}
		status, _ := doRequest(t, svc, http.MethodPost, "/api/v1/shopping-lists/2026-10-12/items",
			`{"name":"Ice","category":"Frozen"}`, token)
		if status != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", status)
		}
		if svc.lastCustom.Name != "" {
			t.Error("Invalid input must not reach the service")
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		status, _ := doRequest(t, &mockService{}, http.MethodPost, "/api/v1/shopping-lists/2026-10-12/items",
			`{"quantity":"1"}`, token)
		if status != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", status)
		}
	})
}

func TestToggleItem(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))

	svc := &mockService{}
	status, _ := doRequest(t, svc, http.MethodPut, "/api/v1/shopping-lists/2026-10-12/items/item-abc/check",
		`{"checked":true}`, token)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if svc.lastID != "item-abc" || !svc.lastCheck {
		t.Errorf("Expected toggle of item-abc to true, got %s %v", svc.lastID, svc.lastCheck)
	}

	status, _ = doRequest(t, &mockService{}, http.MethodPut, "/api/v1/shopping-lists/2026-10-12/items/item-abc/check",
		`{}`, token)
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 without checked, got %d", status)
	}

	conflict := &mockService{err: shopping.ErrConflict}
	status, _ = doRequest(t, conflict, http.MethodPut, "/api/v1/shopping-lists/2026-10-12/items/item-abc/check",
		`{"checked":false}`, token)
	if status != http.StatusConflict {
		t.Errorf("Expected 409 on conflict, got %d", status)
	}
}

func TestRemoveItem(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))

	status, _ := doRequest(t, &mockService{removed: true}, http.MethodDelete, "/api/v1/shopping-lists/2026-10-12/items/custom-1", "", token)
	if status != http.StatusOK {
		t.Errorf("Expected 200, got %d", status)
	}

	status, _ = doRequest(t, &mockService{removed: false}, http.MethodDelete, "/api/v1/shopping-lists/2026-10-12/items/custom-1", "", token)
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown custom item, got %d", status)
	}
}

func TestCurrentWeek(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	svc := &mockService{}

	status, _ := doRequest(t, svc, http.MethodPost, "/api/v1/shopping-lists/current/prune", "", token)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if svc.lastStart.Weekday() != time.Monday {
		t.Errorf("Expected 'current' to resolve to a Monday, got %v", svc.lastStart.Weekday())
	}
}
