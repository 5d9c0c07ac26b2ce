package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/libreton/libreton-api/internal/api/auth"
	"github.com/libreton/libreton-api/internal/api/product"
	"github.com/libreton/libreton-api/internal/router"
	"github.com/libreton/libreton-api/internal/types"
)

// benchmarkEnv is the full production wiring over in-memory storage, shared
// with the e2e suite.
type benchmarkEnv struct {
	router chi.Router
	token  string
}

func setupBenchmarkEnv(b *testing.B) *benchmarkEnv {
	b.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := newMemAuthRepo()
	sessions := auth.NewCacheSessionStore(types.DefaultSessionTTL)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	authService := auth.NewAuthService(users, sessions, hasher, types.DefaultSessionTTL, logger)
	authHandler := auth.NewAuthHandler(authService, auth.NewAuthValidator(users), logger)

	productRepo := newMemProductRepo()
	productService := product.NewProductService(productRepo, logger)
	productHandler := product.NewProductHandler(productService, product.NewProductValidator(), logger)

	r := router.SetupRouter(&router.Config{
		AuthHandler:       authHandler,
		ProductHandler:    productHandler,
		SessionMiddleware: auth.RequireSession(authService, logger),
	})

	env := &benchmarkEnv{router: r}

	// Seed one user and one live session for the protected benchmarks.
	rec := env.do(http.MethodPost, "/auth/register", types.RegisterRequest{
		Username: "benchuser",
		Email:    "bench@example.com",
		Password: "password123",
	}, "")
	if rec.Code != http.StatusOK {
		b.Fatalf("seed register failed: %d", rec.Code)
	}
	rec = env.do(http.MethodPost, "/auth/login", types.LoginRequest{
		Username: "benchuser",
		Password: "password123",
	}, "")
	if rec.Code != http.StatusOK {
		b.Fatalf("seed login failed: %d", rec.Code)
	}
	var envelope types.Response
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		b.Fatalf("decode login response: %v", err)
	}
	env.token = envelope.Data.(map[string]any)["session_token"].(string)
	return env
}

func (e *benchmarkEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(types.SessionHeaderName, token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func BenchmarkLogin(b *testing.B) {
	env := setupBenchmarkEnv(b)
	body := types.LoginRequest{Username: "benchuser", Password: "password123"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := env.do(http.MethodPost, "/auth/login", body, "")
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkSessionValidation(b *testing.B) {
	env := setupBenchmarkEnv(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := env.do(http.MethodGet, "/products", nil, env.token)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkProductCreation(b *testing.B) {
	env := setupBenchmarkEnv(b)
	body := types.CreateProductRequest{Name: "Widget", Price: 9.99, Stock: 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := env.do(http.MethodPost, "/products", body, env.token)
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkProductListing(b *testing.B) {
	env := setupBenchmarkEnv(b)
	for i := 0; i < 50; i++ {
		env.do(http.MethodPost, "/products", types.CreateProductRequest{
			Name: "Widget", Price: 9.99, Stock: 100,
		}, env.token)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := env.do(http.MethodGet, "/products", nil, env.token)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkConcurrentRequests(b *testing.B) {
	env := setupBenchmarkEnv(b)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			rec := env.do(http.MethodGet, "/products", nil, env.token)
			if rec.Code != http.StatusOK {
				b.Fatalf("unexpected status %d", rec.Code)
			}
		}
	})
}

func BenchmarkEnvelopeSerialization(b *testing.B) {
	resp := types.SuccessResponse(types.ProductResponse{
		ID:    "c7a9319e-9d1f-4a78-a6db-3fca0c9e1a11",
		Name:  "Widget",
		Price: 9.99,
		Stock: 100,
	}, "Product created successfully")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(resp); err != nil {
			b.Fatal(err)
		}
	}
}
