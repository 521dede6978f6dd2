package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Credential validation runs before any storage access, so these paths are
// exercised without a database.
func TestRegisterRejectsBadInput(t *testing.T) {
	h := NewAuthHandler("test-secret", nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid body", "{broken"},
		{"missing password", `{"email":"user@example.com"}`},
		{"missing email", `{"password":"secret123"}`},
		{"no at sign", `{"email":"user.example.com","password":"secret123"}`},
		{"no dot in domain", `{"email":"user@example","password":"secret123"}`},
		{"short password", `{"email":"user@example.com","password":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestLoginRejectsBadInput(t *testing.T) {
	h := NewAuthHandler("test-secret", nil)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"secret123"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
