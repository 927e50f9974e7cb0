package customer

import (
	"time"

	"github.com/go-logr/logr"

	"storefront/internal/session"
	"storefront/internal/shopify"
)

// tokenManager moves platform-issued access tokens in and out of the
// session store. Tokens are stored verbatim; only the expiry is parsed.
type tokenManager struct {
	logger logr.Logger
}

func newTokenManager(logger logr.Logger) *tokenManager {
	return &tokenManager{logger: logger}
}

// Issue stores tok with the platform-reported expiry. An unparsable expiry
// falls back to a browser-session cookie.
func (m *tokenManager) Issue(tokens session.Tokens, tok shopify.AccessToken) {
	expiresAt, err := time.Parse(time.RFC3339, tok.ExpiresAt)
	if err != nil {
		m.logger.Info("unparsable token expiry, storing session cookie", "expiresAt", tok.ExpiresAt)
		expiresAt = time.Time{}
	}
	tokens.Set(tok.AccessToken, expiresAt)
}

// Current returns the stored token, if any. Expired cookies are never sent
// by the browser, so presence is the only check made here.
func (m *tokenManager) Current(tokens session.Tokens) (string, bool) {
	if tokens == nil {
		return "", false
	}
	return tokens.Token()
}

func (m *tokenManager) Revoke(tokens session.Tokens) {
	tokens.Clear()
}
