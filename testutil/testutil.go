// Package testutil provides helpers for SDK tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the backend's {success: false, message} envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// WriteFieldErrors writes the backend's {success: false, errors} envelope.
func WriteFieldErrors(w http.ResponseWriter, status int, fields map[string][]string) {
	WriteJSON(w, status, map[string]any{
		"success": false,
		"errors":  fields,
	})
}

// SignToken mints an HS256 JWT with the shape the backend issues, so tests
// exercise the real expiry-recovery path.
func SignToken(userID int64, tokenType string, expiresAt time.Time) string {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("testutil-secret"))
	if err != nil {
		panic(err)
	}
	return signed
}
