package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	csrfSessionKey = "csrf_token"
	csrfContextKey = "CSRFToken"
	// CSRFFormField is the hidden input name forms must post back.
	CSRFFormField = "_csrf"
)

// CSRF guards state-mutating requests with a per-session anti-forgery token.
// Safe methods mint the token into the session; everything else must echo it
// back in the form body or the X-CSRF-Token header.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get(csrfSessionKey).(string)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if token == "" {
				token = uuid.NewString()
				sess.Set(csrfSessionKey, token)
				_ = sess.Save()
			}
			c.Set(csrfContextKey, token)
			c.Next()
			return
		}

		sent := c.PostForm(CSRFFormField)
		if sent == "" {
			sent = c.GetHeader("X-CSRF-Token")
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sent)) != 1 {
			c.String(http.StatusForbidden, "invalid anti-forgery token")
			c.Abort()
			return
		}

		c.Set(csrfContextKey, token)
		c.Next()
	}
}

// CSRFToken returns the token to embed in forms rendered for this request.
func CSRFToken(c *gin.Context) string {
	if v, ok := c.Get(csrfContextKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
