package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
)

const (
	// CSRFFormField is the hidden input carrying the token on every POST form
	CSRFFormField = "csrf_token"
	// CSRFHeader carries the token for scripted requests that reuse a browser session
	CSRFHeader = "X-CSRF-Token"

	csrfLabel = "kindergarten/csrf/v1:"
)

var ErrMissingSessionID = errors.New("session ID is required")

// CSRFGenerator derives form tokens from the session ID with HMAC-SHA256.
// Every server instance sharing the secret accepts the same token.
type CSRFGenerator struct {
	secret []byte
}

func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

func (g *CSRFGenerator) sum(sessionID string) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(csrfLabel))
	mac.Write([]byte(sessionID))
	return mac.Sum(nil)
}

// GenerateToken returns the token for sessionID
func (g *CSRFGenerator) GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingSessionID
	}
	return base64.RawURLEncoding.EncodeToString(g.sum(sessionID)), nil
}

// ValidateToken reports whether token belongs to sessionID
func (g *CSRFGenerator) ValidateToken(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	got, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	return hmac.Equal(got, g.sum(sessionID))
}

// TokenFromRequest reads the token from the header, falling back to the form field
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(CSRFHeader); token != "" {
		return token
	}
	return r.FormValue(CSRFFormField)
}
