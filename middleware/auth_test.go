package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": float64(42),
		"email":   "p@example.com",
		"role":    "participant",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func runMiddleware(mw func(http.Handler) http.Handler, token string) (*httptest.ResponseRecorder, *http.Request) {
	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthenticateValidToken(t *testing.T) {
	auth := NewAuth(testSecret)
	token := signToken(t, testSecret, validClaims())

	rec, captured := runMiddleware(auth.Authenticate, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	userID, err := GetUserIDFromContext(captured.Context())
	if err != nil || userID != 42 {
		t.Fatalf("user id not in context: id=%d err=%v", userID, err)
	}
	if email := GetUserEmailFromContext(captured.Context()); email != "p@example.com" {
		t.Fatalf("email not in context: %q", email)
	}
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	auth := NewAuth(testSecret)

	rec, _ := runMiddleware(auth.Authenticate, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}

	rec, _ = runMiddleware(auth.Authenticate, signToken(t, "wrong-secret", validClaims()))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong signature: expected 401, got %d", rec.Code)
	}

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	rec, _ = runMiddleware(auth.Authenticate, signToken(t, testSecret, expired))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	auth := NewAuth(testSecret)

	// Без токена — анонимный проход.
	rec, captured := runMiddleware(auth.OptionalAuthenticate, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous: expected 200, got %d", rec.Code)
	}
	if _, err := GetUserIDFromContext(captured.Context()); err == nil {
		t.Fatal("anonymous request must not carry user claims")
	}

	// Невалидный токен — отказ, а не понижение до анонима.
	rec, _ = runMiddleware(auth.OptionalAuthenticate, "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: expected 401, got %d", rec.Code)
	}
}

func TestAuthorizeRoles(t *testing.T) {
	auth := NewAuth(testSecret)

	adminClaims := validClaims()
	adminClaims["role"] = "admin"

	chain := func(token string) *httptest.ResponseRecorder {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		handler := auth.Authenticate(Authorize("admin")(next))
		req := httptest.NewRequest(http.MethodGet, "/admin/participants", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := chain(signToken(t, testSecret, adminClaims)); rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
	if rec := chain(signToken(t, testSecret, validClaims())); rec.Code != http.StatusForbidden {
		t.Fatalf("participant on admin route: expected 403, got %d", rec.Code)
	}
}
