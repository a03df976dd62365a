package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
	assert.False(t, CheckPassword("password123", "not-a-hash"))
}

func TestCSRFGenerator(t *testing.T) {
	g := NewCSRFGenerator("secret")

	token, err := g.GenerateToken("sid")
	require.NoError(t, err)
	assert.True(t, g.ValidateToken("sid", token))
	assert.False(t, g.ValidateToken("other", token))
	assert.False(t, g.ValidateToken("sid", ""))
	assert.False(t, NewCSRFGenerator("other-secret").ValidateToken("sid", token))

	assert.False(t, g.ValidateToken("sid", "!!not base64!!"))

	_, err = g.GenerateToken("")
	assert.ErrorIs(t, err, ErrMissingSessionID)
}

func TestTokenFromRequest(t *testing.T) {
	form := httptest.NewRequest(http.MethodPost, "/staff/new", strings.NewReader(CSRFFormField+"=from-form"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, "from-form", TokenFromRequest(form))

	header := httptest.NewRequest(http.MethodPost, "/staff/new", nil)
	header.Header.Set(CSRFHeader, "from-header")
	assert.Equal(t, "from-header", TokenFromRequest(header))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "other client has its own bucket")

	rl.sweep(time.Now().Add(3 * time.Minute))
	assert.Empty(t, rl.visitors)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "10.0.0.1:1234", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "10.0.0.1:1234", "5.6.7.8"},
		{"remote addr", nil, "9.9.9.9:4321", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}

func TestSessionCookies(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	expires := time.Now().Add(time.Hour)

	c := CreateSessionCookie(r, "abc", expires)
	assert.Equal(t, SessionCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)

	r.TLS = &tls.ConnectionState{}
	assert.True(t, CreateSessionCookie(r, "abc", expires).Secure)

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	d := CreateDeleteCookie(r)
	assert.True(t, d.Secure)
	assert.Equal(t, -1, d.MaxAge)

	assert.NotEqual(t, GenerateSessionID(), GenerateSessionID())
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("token-secret")

	token, err := issuer.Issue(42, "admin", time.Hour)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "admin", claims.Role)

	_, err = NewTokenIssuer("wrong-secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := issuer.Issue(42, "admin", -time.Minute)
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
