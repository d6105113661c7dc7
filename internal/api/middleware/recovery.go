package middleware

import (
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"shopmirror/internal/logger"
)

// Recovery converts panics into 500 responses so no request can take the
// process down. Broken client connections are aborted without noise.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if ne, ok := recovered.(*net.OpError); ok {
			if se, ok := ne.Err.(*os.SyscallError); ok {
				msg := strings.ToLower(se.Error())
				if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
					c.Abort()
					return
				}
			}
		}

		if gin.IsDebugging() {
			log.Error("panic recovered: %v\n%s", recovered, debug.Stack())
		} else {
			log.Error("panic recovered: %v", recovered)
		}
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
