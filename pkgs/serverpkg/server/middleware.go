package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	ctxKeyPid       = "pid"
	ctxKeyDirectory = "directory"
	ctxKeyRequestId = "request_id"

	HEADER_REQUEST_ID = "X-Request-Id"
)

////////////////////////////////////////////////////////////////////////////////

func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only well-formed UUIDs are propagated.
		id := uuid.NewString()
		if parsed, err := uuid.Parse(c.GetHeader(HEADER_REQUEST_ID)); err == nil {
			id = parsed.String()
		}
		c.Set(ctxKeyRequestId, id)
		c.Header(HEADER_REQUEST_ID, id)
		c.Next()
	}
}

func requestLogger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}

		entry := log.WithFields(log.Fields{
			"caller":     "requestLogger",
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(ctxKeyRequestId),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// tenantDirectory stores the webfiles directory for the request.
func (s *Server) tenantDirectory() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyDirectory, s.directoryResolver.Directory(c.Request))
		c.Next()
	}
}

// authRequired rejects the request unless it carries a caller identity.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, err := s.authenticator.Authenticate(c.Request)
		if err != nil {
			log.WithFields(log.Fields{
				"caller": "authRequired",
				"path":   c.Request.URL.Path,
			}).WithError(err).Debug("rejecting unauthenticated request")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(ctxKeyPid, pid)
		c.Next()
	}
}

func callerPid(c *gin.Context) uint64 {
	return c.MustGet(ctxKeyPid).(uint64)
}
