// Package middleware содержит HTTP middleware для сервиса учёта займов.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	authCookieName = "auth_token"
	authCookieTTL  = 365 * 24 * time.Hour
)

// Identity описывает аутентифицированного клиента: код тенанта и признак
// суперадмина.
type Identity struct {
	TenantCode string
	Admin      bool
}

// AuthMiddleware выполняет проверку аутентификации тенанта по подписанному cookie.
type AuthMiddleware struct {
	secretKey []byte
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
	}
}

// Middleware проверяет cookie авторизации и добавляет идентичность тенанта
// в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ident, ok := a.parseCookie(cookie.Value)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только запросы суперадмина. Ставится после Middleware.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := GetIdentityFromContext(r.Context())
		if !ok || !ident.Admin {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetAuthCookie устанавливает cookie авторизации для указанного кода тенанта.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, tenantCode string, admin bool) {
	value := a.sign(encodeIdentity(tenantCode, admin))

	cookie := &http.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(authCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func encodeIdentity(tenantCode string, admin bool) string {
	role := "tenant"
	if admin {
		role = "admin"
	}
	return tenantCode + ":" + role
}

func (a *AuthMiddleware) sign(payload string) string {
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(payload))
	signature := mac.Sum(nil)
	return payload + "." + hex.EncodeToString(signature)
}

func (a *AuthMiddleware) parseCookie(cookieValue string) (Identity, bool) {
	parts := strings.Split(cookieValue, ".")
	if len(parts) != 2 {
		return Identity{}, false
	}

	payload := parts[0]
	signature := parts[1]

	expected := a.sign(payload)
	expectedParts := strings.Split(expected, ".")
	if len(expectedParts) != 2 {
		return Identity{}, false
	}

	if !hmac.Equal([]byte(signature), []byte(expectedParts[1])) {
		return Identity{}, false
	}

	fields := strings.Split(payload, ":")
	if len(fields) != 2 || fields[0] == "" {
		return Identity{}, false
	}

	return Identity{
		TenantCode: fields[0],
		Admin:      fields[1] == "admin",
	}, true
}

// GetIdentityFromContext извлекает идентичность тенанта из контекста запроса.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}
