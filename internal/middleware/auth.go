package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tawasol/web/internal/models"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	TokenKey  contextKey = "token"
)

// JWTAuth accepts HMAC-signed viewer tokens carrying a user_id claim. The raw
// token stays in the context so it can be forwarded to the profile backend.
func JWTAuth(jwtSecret string) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(jwtSecret), nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" || strings.Contains(raw, " ") {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Bearer token required"))
				return
			}

			claims := jwt.MapClaims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired token"))
				return
			}
			viewerID, _ := claims["user_id"].(string)
			if viewerID == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Token has no user id"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, viewerID)
			ctx = context.WithValue(ctx, TokenKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated viewer, empty outside JWTAuth.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// GetToken returns the bearer token the request was authenticated with.
func GetToken(ctx context.Context) string {
	tok, _ := ctx.Value(TokenKey).(string)
	return tok
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
