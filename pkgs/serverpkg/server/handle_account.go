package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/serverdto"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// handleNotifications serves the caller's unread message and notification
// counts.
func (s *Server) handleNotifications(c *gin.Context) {
	pid := callerPid(c)

	counts, err := s.accountService.UnreadCounts(c.Request.Context(), pid)
	if err != nil {
		s.internalError(c, "handleNotifications", err)
		return
	}

	c.JSON(http.StatusOK, serverdto.NotificationCounts{
		MessageCount:      counts.Messages,
		NotificationCount: counts.Notifications,
	})
}

// handleOEmbed describes the author of a post. Unknown posts are 404.
func (s *Server) handleOEmbed(c *gin.Context) {
	post, err := s.accountService.Post(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		s.internalError(c, "handleOEmbed", err)
		return
	}
	if post == nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, serverdto.OEmbed{
		AuthorName: post.ScreenName,
		AuthorUrl:  s.oembedAuthorBase + strconv.FormatUint(post.Pid, 10),
	})
}

// handleDownloadUserData sends everything stored about the caller as a JSON
// attachment.
func (s *Server) handleDownloadUserData(c *gin.Context) {
	pid := callerPid(c)

	data, err := s.accountService.ExportUserData(c.Request.Context(), pid)
	if err != nil {
		s.internalError(c, "handleDownloadUserData", err)
		return
	}

	posts := data.Posts
	if posts == nil {
		posts = []*model.Post{}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%d_user_data.json"`, pid))
	c.JSON(http.StatusOK, serverdto.UserDataExport{
		UserContent:  data.Content,
		UserSettings: data.Settings,
		Posts:        posts,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, serverdto.HealthResponse{Status: "ok"})
}

////////////////////////////////////////////////////////////////////////////////

func (s *Server) internalError(c *gin.Context, caller string, err error) {
	log.WithFields(log.Fields{
		"caller":     caller,
		"request_id": c.GetString(ctxKeyRequestId),
	}).WithError(err).Error("Request failed")
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}
