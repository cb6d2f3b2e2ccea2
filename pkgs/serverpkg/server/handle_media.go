package server

import (
	"net/http"
	"strings"

	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/mediahelper"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const MEDIA_SUFFIX = ".png"

// handleMedia serves a stored image of the given kind. The response is
// always labelled image/png; the stored bytes are not inspected.
func (s *Server) handleMedia(kind mediahelper.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", CONTENT_TYPE_PNG)

		id, ok := strings.CutSuffix(c.Param("image"), MEDIA_SUFFIX)
		if !ok || id == "" {
			c.Status(http.StatusNotFound)
			return
		}

		logger := log.WithFields(log.Fields{
			"caller":     "handleMedia",
			"kind":       kind,
			"id":         id,
			"request_id": c.GetString(ctxKeyRequestId),
		})

		encoded, found, err := s.mediaResolver.Resolve(c.Request.Context(), kind, id)
		if err != nil {
			logger.WithError(err).Error("Failed to resolve media")
			c.Status(http.StatusInternalServerError)
			return
		}
		if !found {
			c.Status(http.StatusNotFound)
			return
		}

		data, err := mediahelper.Normalize(encoded)
		if err != nil {
			logger.WithError(err).Error("Stored media is not valid base64")
			c.Status(http.StatusInternalServerError)
			return
		}

		c.Data(http.StatusOK, CONTENT_TYPE_PNG, data)
	}
}
