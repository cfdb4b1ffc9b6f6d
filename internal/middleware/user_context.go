package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"task-manager/internal/models"
)

const principalKey = "Principal"

// session keys written at sign-in and read back here
const (
	SessionUserID     = "user_id"
	SessionUserName   = "user_name"
	SessionUserEmail  = "user_email"
	SessionUserRole   = "role"
	SessionLastActive = "last_active"
)

// ResolvePrincipal rebuilds the principal from the session once per request
// and stores it in the request context. Handlers read it via Principal();
// nothing downstream touches the session for identity.
func ResolvePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		uid, ok := sess.Get(SessionUserID).(uint)
		if !ok || uid == 0 {
			c.Next()
			return
		}
		name, _ := sess.Get(SessionUserName).(string)
		email, _ := sess.Get(SessionUserEmail).(string)
		roleStr, _ := sess.Get(SessionUserRole).(string)

		c.Set(principalKey, &models.Principal{
			UserID: uid,
			Name:   name,
			Email:  email,
			Role:   models.Role(roleStr),
		})

		c.Next()
	}
}

// Principal returns the principal resolved for this request, or nil when the
// request is unauthenticated.
func Principal(c *gin.Context) *models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*models.Principal); ok {
			return p
		}
	}
	return nil
}
