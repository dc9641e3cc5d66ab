package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubValidator accepts one token and maps it to a fixed user ID.
type stubValidator struct {
	token  string
	userID uuid.UUID
}

type stubClaims struct{ userID uuid.UUID }

func (c stubClaims) GetUserID() uuid.UUID { return c.userID }

func (v stubValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString != v.token {
		return nil, fmt.Errorf("invalid token")
	}
	return stubClaims{userID: v.userID}, nil
}

func protectedHandler(t *testing.T, wantUserID uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := GetUserID(r)
		require.NoError(t, err)
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	validator := stubValidator{token: "quote-reader-token", userID: userID}
	handler := AuthMiddleware(validator)(protectedHandler(t, userID))

	req := httptest.NewRequest("GET", "/quotes/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer quote-reader-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	userID := uuid.New()
	validator := stubValidator{token: "quote-reader-token", userID: userID}
	handler := AuthMiddleware(validator)(protectedHandler(t, userID))

	req := httptest.NewRequest("GET", "/quotes/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "bearer quote-reader-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	validator := stubValidator{token: "quote-reader-token", userID: uuid.New()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an unauthenticated request")
	})
	handler := AuthMiddleware(validator)(next)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"bearer without token", "Bearer "},
		{"extra parts", "Bearer quote-reader-token extra"},
		{"unknown token", "Bearer forged-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/quotes/"+uuid.NewString(), nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/quotes/"+uuid.NewString(), nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}
