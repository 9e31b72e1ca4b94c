package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerDecision(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		owner   string
		allowed bool
	}{
		{"owner", "u1", "u1", true},
		{"stranger", "u2", "u1", false},
		{"anonymous", "", "u1", false},
		{"unowned", "u1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, OwnerDecision(tt.actor, tt.owner).Allowed())
		})
	}
}

func TestPartyDecision(t *testing.T) {
	assert.True(t, PartyDecision("booker", "booker", "owner").Allowed())
	assert.True(t, PartyDecision("owner", "booker", "owner").Allowed())
	assert.False(t, PartyDecision("other", "booker", "owner").Allowed())
	assert.False(t, PartyDecision("", "", "owner").Allowed())
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Minute)
	token, err := m.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthRequired(m), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}
