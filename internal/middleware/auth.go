package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"task-manager/internal/models"
)

// SessionIdleTimeout is how long a session survives without a request.
// Every authenticated request slides the window forward.
const SessionIdleTimeout = 30 * time.Minute

// RequireAuth rejects unauthenticated requests and enforces the idle timeout.
// An expired session is cleared and the user is sent back to sign-in.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			c.Redirect(http.StatusFound, "/User/SignIn")
			c.Abort()
			return
		}

		sess := sessions.Default(c)
		lastActive, ok := sess.Get(SessionLastActive).(int64)
		if !ok || time.Since(time.Unix(lastActive, 0)) > SessionIdleTimeout {
			sess.Clear()
			_ = sess.Save()
			c.Redirect(http.StatusFound, "/User/SignIn")
			c.Abort()
			return
		}

		// sliding renewal
		sess.Set(SessionLastActive, time.Now().Unix())
		_ = sess.Save()

		c.Next()
	}
}

// RequireRole gates a route to the given roles. Runs after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	roleSet := map[models.Role]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			c.Redirect(http.StatusFound, "/User/SignIn")
			c.Abort()
			return
		}
		if _, ok := roleSet[p.Role]; !ok {
			c.String(http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
