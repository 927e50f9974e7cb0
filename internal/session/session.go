package session

import (
	"net/http"
	"time"
)

// Cookie names used by the storefront.
const (
	CustomerTokenCookie = "customerAccessToken"
	CartCookie          = "cartId"
)

// Tokens reads, writes and clears one opaque session value. The value is
// never parsed.
type Tokens interface {
	Token() (string, bool)
	Set(value string, expiresAt time.Time)
	Clear()
}

// CookieOptions configures a cookie-backed Tokens.
type CookieOptions struct {
	Name   string
	Secure bool
	Path   string
}

// Cookie stores the value in an HttpOnly, SameSite=Strict cookie. Writes
// are visible to later reads within the same request.
type Cookie struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	overridden bool
	value      string
}

// NewCookie binds a cookie-backed Tokens to one request/response pair.
func NewCookie(w http.ResponseWriter, r *http.Request, opts CookieOptions) *Cookie {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Cookie{w: w, r: r, opts: opts}
}

func (c *Cookie) Token() (string, bool) {
	if c.overridden {
		return c.value, c.value != ""
	}
	ck, err := c.r.Cookie(c.opts.Name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// Set writes the cookie. A zero expiresAt produces a browser-session cookie.
func (c *Cookie) Set(value string, expiresAt time.Time) {
	ck := c.base()
	ck.Value = value
	if !expiresAt.IsZero() {
		ck.Expires = expiresAt.UTC()
	}
	http.SetCookie(c.w, ck)
	c.overridden, c.value = true, value
}

func (c *Cookie) Clear() {
	ck := c.base()
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	http.SetCookie(c.w, ck)
	c.overridden, c.value = true, ""
}

func (c *Cookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     c.opts.Name,
		Path:     c.opts.Path,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Memory is an in-process Tokens, used by tests and tools.
type Memory struct {
	Value     string
	ExpiresAt time.Time
	Cleared   bool
}

func (m *Memory) Token() (string, bool) { return m.Value, m.Value != "" }

func (m *Memory) Set(value string, expiresAt time.Time) {
	m.Value, m.ExpiresAt, m.Cleared = value, expiresAt, false
}

func (m *Memory) Clear() {
	m.Value, m.ExpiresAt, m.Cleared = "", time.Time{}, true
}
