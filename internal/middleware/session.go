package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/outreach-api/internal/workflow"
)

// ContextKeySession is the key for the resolved *workflow.Session in the Gin context
const ContextKeySession = "session"

// SessionFinder looks sessions up by id
type SessionFinder interface {
	Get(id uuid.UUID) (*workflow.Session, bool)
}

// ResolveSession loads the session named by the :id route parameter and
// injects it into context. Unknown or expired ids get a 404.
func ResolveSession(store SessionFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Invalid session ID",
				"kind":  "invalid_session_id",
			})
			return
		}

		sess, ok := store.Get(id)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "Session not found or expired",
				"kind":  "session_not_found",
			})
			return
		}

		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// GetSession extracts the resolved session from the Gin context
func GetSession(c *gin.Context) *workflow.Session {
	v, _ := c.Get(ContextKeySession)
	if s, ok := v.(*workflow.Session); ok {
		return s
	}
	return nil
}
