package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/session"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// cookieJar binds the storefront cookies to one request.
type cookieJar struct {
	secure bool
}

func (j cookieJar) customer(c *gin.Context) session.Tokens {
	return session.NewCookie(c.Writer, c.Request, session.CookieOptions{Name: session.CustomerTokenCookie, Secure: j.secure})
}

func (j cookieJar) cart(c *gin.Context) session.Tokens {
	return session.NewCookie(c.Writer, c.Request, session.CookieOptions{Name: session.CartCookie, Secure: j.secure})
}
