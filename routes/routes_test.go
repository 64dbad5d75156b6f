package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-api/models"
	"shop-api/testutil"
	"shop-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.SetupConfig(t)
	db := testutil.NewDB(t)
	return &testServer{t: t, db: db, router: NewRouter(db, zap.NewNop())}
}

func (s *testServer) tokenFor(user *models.User) string {
	s.t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		s.t.Fatalf("generate token: %v", err)
	}
	return token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(http.MethodGet, "/health", "", nil), http.StatusOK)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/register", "", gin.H{"name": "acme", "password": "secret1", "role": "company"})
	expectStatus(t, w, http.StatusCreated)

	expectStatus(t, s.do(http.MethodPost, "/auth/register", "", gin.H{"name": "acme", "password": "secret1"}), http.StatusConflict)
	expectStatus(t, s.do(http.MethodPost, "/auth/register", "", gin.H{"name": "root", "password": "secret1", "role": "admin"}), http.StatusBadRequest)

	expectStatus(t, s.do(http.MethodPost, "/auth/login", "", gin.H{"name": "acme", "password": "wrong"}), http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/auth/login", "", gin.H{"name": "acme", "password": "secret1"})
	expectStatus(t, w, http.StatusOK)
	var login models.LoginResponse
	decodeData(t, w, &login)
	if login.Token == "" || login.User.Role != models.RoleCompany {
		t.Fatalf("unexpected login response %+v", login)
	}
}

func TestProductRoutes(t *testing.T) {
	s := newTestServer(t)
	acme := testutil.CreateUser(t, s.db, "acme", models.RoleCompany)
	globex := testutil.CreateUser(t, s.db, "globex", models.RoleCompany)
	shopper := testutil.CreateUser(t, s.db, "alice", models.RoleUser)
	testutil.CreateProduct(t, s.db, globex.ID, "Mouse", "5", 9)

	body := gin.H{"name": "Keyboard", "price": "19.99", "stock": 4}

	t.Run("create requires company role", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodPost, "/products", "", body), http.StatusUnauthorized)
		expectStatus(t, s.do(http.MethodPost, "/products", s.tokenFor(shopper), body), http.StatusForbidden)
	})

	t.Run("create rejects bad prices", func(t *testing.T) {
		token := s.tokenFor(acme)
		expectStatus(t, s.do(http.MethodPost, "/products", token, gin.H{"name": "Pad", "stock": 1}), http.StatusBadRequest)
		expectStatus(t, s.do(http.MethodPost, "/products", token, gin.H{"name": "Pad", "price": "10.555"}), http.StatusBadRequest)
		expectStatus(t, s.do(http.MethodPost, "/products", token, gin.H{"name": "Pad", "price": "10000000000"}), http.StatusBadRequest)
	})

	var created models.ProductResponse
	t.Run("create", func(t *testing.T) {
		w := s.do(http.MethodPost, "/products", s.tokenFor(acme), body)
		expectStatus(t, w, http.StatusCreated)
		decodeData(t, w, &created)
		if created.CompanyID != acme.ID || !created.Price.Equal(decimal.RequireFromString("19.99")) {
			t.Fatalf("unexpected product %+v", created)
		}
		if loc := w.Header().Get("Location"); loc != fmt.Sprintf("/products/%d", created.ID) {
			t.Fatalf("Location = %q", loc)
		}
	})

	t.Run("list and filter", func(t *testing.T) {
		var all []models.ProductResponse
		w := s.do(http.MethodGet, "/products", "", nil)
		expectStatus(t, w, http.StatusOK)
		decodeData(t, w, &all)
		if len(all) != 2 {
			t.Fatalf("expected 2 products, got %d", len(all))
		}

		for _, query := range []string{"company_id", "companyId"} {
			var filtered []models.ProductResponse
			w := s.do(http.MethodGet, fmt.Sprintf("/products?%s=%d", query, acme.ID), "", nil)
			expectStatus(t, w, http.StatusOK)
			decodeData(t, w, &filtered)
			if len(filtered) != 1 || filtered[0].Name != "Keyboard" {
				t.Fatalf("%s: unexpected products %+v", query, filtered)
			}
		}

		expectStatus(t, s.do(http.MethodGet, "/products?companyId=abc", "", nil), http.StatusBadRequest)
	})

	t.Run("get by id", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodGet, fmt.Sprintf("/products/%d", created.ID), "", nil), http.StatusOK)
		expectStatus(t, s.do(http.MethodGet, "/products/9999", "", nil), http.StatusNotFound)
		expectStatus(t, s.do(http.MethodGet, "/products/abc", "", nil), http.StatusBadRequest)
	})
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	company := testutil.CreateUser(t, s.db, "acme", models.RoleCompany)
	alice := testutil.CreateUser(t, s.db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, s.db, "bob", models.RoleUser)
	keyboard := testutil.CreateProduct(t, s.db, company.ID, "Keyboard", "12.50", 3)
	monitor := testutil.CreateProduct(t, s.db, company.ID, "Monitor", "150", 1)
	token := s.tokenFor(alice)

	t.Run("role gate", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodGet, "/cart", "", nil), http.StatusUnauthorized)
		expectStatus(t, s.do(http.MethodGet, "/cart", s.tokenFor(company), nil), http.StatusForbidden)
	})

	t.Run("deleted account", func(t *testing.T) {
		ghost := testutil.CreateUser(t, s.db, "ghost", models.RoleUser)
		token := s.tokenFor(ghost)
		if err := s.db.Delete(&models.User{}, ghost.ID).Error; err != nil {
			t.Fatalf("delete: %v", err)
		}
		expectStatus(t, s.do(http.MethodPost, "/cart", token, gin.H{"product_id": keyboard.ID, "quantity": 1}), http.StatusNotFound)
	})

	t.Run("no cart yet", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodGet, "/cart", token, nil), http.StatusNotFound)
		expectStatus(t, s.do(http.MethodPost, "/cart/checkout", token, nil), http.StatusBadRequest)
	})

	t.Run("add merges", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodPost, "/cart", token, gin.H{"product_id": keyboard.ID, "quantity": 1}), http.StatusOK)
		w := s.do(http.MethodPost, "/cart", token, gin.H{"product_id": keyboard.ID, "quantity": 1})
		expectStatus(t, w, http.StatusOK)

		var lines []models.CartLineResponse
		decodeData(t, w, &lines)
		if len(lines) != 1 || lines[0].Quantity != 2 {
			t.Fatalf("unexpected lines %+v", lines)
		}
		if !lines[0].Subtotal.Equal(decimal.RequireFromString("25")) {
			t.Fatalf("subtotal = %s, want 25", lines[0].Subtotal)
		}

		expectStatus(t, s.do(http.MethodPost, "/cart", token, gin.H{"product_id": 9999, "quantity": 1}), http.StatusNotFound)
		expectStatus(t, s.do(http.MethodPost, "/cart", token, gin.H{"product_id": keyboard.ID, "quantity": 0}), http.StatusBadRequest)
	})

	var monitorLine int
	t.Run("update and remove", func(t *testing.T) {
		w := s.do(http.MethodPost, "/cart", token, gin.H{"product_id": monitor.ID, "quantity": 1})
		expectStatus(t, w, http.StatusOK)
		var lines []models.CartLineResponse
		decodeData(t, w, &lines)
		for _, line := range lines {
			if line.ProductID == monitor.ID {
				monitorLine = line.ID
			}
		}
		if monitorLine == 0 {
			t.Fatalf("monitor line missing from %+v", lines)
		}

		path := fmt.Sprintf("/cart/%d", monitorLine)
		bobToken := s.tokenFor(bob)
		expectStatus(t, s.do(http.MethodPut, path, bobToken, gin.H{"quantity": 2}), http.StatusNotFound)
		expectStatus(t, s.do(http.MethodDelete, path, bobToken, nil), http.StatusNotFound)

		w = s.do(http.MethodPut, path, token, gin.H{"quantity": 2})
		expectStatus(t, w, http.StatusOK)
		var line models.CartLineResponse
		decodeData(t, w, &line)
		if line.Quantity != 2 {
			t.Fatalf("quantity = %d, want 2", line.Quantity)
		}
	})

	t.Run("checkout rejects insufficient stock", func(t *testing.T) {
		w := s.do(http.MethodPost, "/cart/checkout", token, nil)
		expectStatus(t, w, http.StatusBadRequest)
		env := decodeData(t, w, nil)
		if env.Message != "not enough stock for Monitor" {
			t.Fatalf("message = %q", env.Message)
		}
		if got := testutil.ProductStock(t, s.db, keyboard.ID); got != 3 {
			t.Fatalf("keyboard stock changed to %d", got)
		}
	})

	t.Run("checkout", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/cart/%d", monitorLine), token, nil), http.StatusNoContent)

		w := s.do(http.MethodPost, "/cart/checkout", token, nil)
		expectStatus(t, w, http.StatusOK)
		var res models.CheckoutResponse
		decodeData(t, w, &res)
		if !res.Total.Equal(decimal.RequireFromString("25")) {
			t.Fatalf("total = %s, want 25", res.Total)
		}
		if got := testutil.ProductStock(t, s.db, keyboard.ID); got != 1 {
			t.Fatalf("keyboard stock = %d, want 1", got)
		}
		if n := testutil.CountCartItems(t, s.db, alice.ID); n != 0 {
			t.Fatalf("cart still has %d lines", n)
		}

		expectStatus(t, s.do(http.MethodPost, "/cart/checkout", token, nil), http.StatusBadRequest)
	})
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := testutil.CreateUser(t, s.db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, s.db, "bob", models.RoleUser)
	admin := testutil.CreateUser(t, s.db, "root", models.RoleAdmin)

	t.Run("list redacts passwords", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodGet, "/users", "", nil), http.StatusUnauthorized)

		w := s.do(http.MethodGet, "/users", s.tokenFor(alice), nil)
		expectStatus(t, w, http.StatusOK)
		var users []models.UserResponse
		decodeData(t, w, &users)
		if len(users) != 3 {
			t.Fatalf("expected 3 users, got %d", len(users))
		}
		for _, u := range users {
			if u.Password != "" {
				t.Fatalf("password exposed for %s", u.Name)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), s.tokenFor(alice), nil), http.StatusForbidden)
		expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), s.tokenFor(admin), nil), http.StatusNoContent)
		expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), s.tokenFor(admin), nil), http.StatusNotFound)
		expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/users/%d", alice.ID), s.tokenFor(alice), nil), http.StatusNoContent)
	})
}
