package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_WithValidCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		ident, ok := GetIdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity not in context")
		}
		if ident.TenantCode != "ABC123" {
			t.Fatalf("tenant code from context = %q, want ABC123", ident.TenantCode)
		}
		if ident.Admin {
			t.Fatalf("ordinary tenant must not be admin")
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)

	m.SetAuthCookie(w, "ABC123", false)
	res := w.Result()
	resCookies := res.Cookies()
	if len(resCookies) == 0 {
		t.Fatalf("no cookies set by SetAuthCookie")
	}

	r.AddCookie(resCookies[0])

	handler := m.Middleware(next)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_WithoutCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)

	handler := m.Middleware(next)
	handler.ServeHTTP(w, r)

	res := w.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_TamperedCookieRejected(t *testing.T) {
	m := NewAuthMiddleware("test-secret")
	other := NewAuthMiddleware("other-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	other.SetAuthCookie(w, "ABC123", true)
	cookies := w.Result().Cookies()

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.AddCookie(cookies[0])

	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, r)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	handlerCalled := false
	handler := m.Middleware(m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})))

	w := httptest.NewRecorder()
	m.SetAuthCookie(w, "ABC123", false)
	tenantCookie := w.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(tenantCookie)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("tenant got %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
	if handlerCalled {
		t.Fatalf("handler must not run for ordinary tenant")
	}

	w = httptest.NewRecorder()
	m.SetAuthCookie(w, "SUPER1", true)
	adminCookie := w.Result().Cookies()[0]

	r = httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(adminCookie)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("admin got %d, want %d", rec.Result().StatusCode, http.StatusOK)
	}
	if !handlerCalled {
		t.Fatalf("handler did not run for admin")
	}
}
