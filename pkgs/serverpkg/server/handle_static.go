package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const (
	CONTENT_TYPE_CSS     = "text/css"
	CONTENT_TYPE_JS      = "application/javascript; charset=utf-8"
	CONTENT_TYPE_PNG     = "image/png"
	CONTENT_TYPE_WOFF    = "font/woff"
	CONTENT_TYPE_ICO     = "image/x-icon"
	FAVICON_FILE         = "favicon.ico"
	ASSET_CATEGORY_IMAGE = "images"
)

// handleRoot sends the bare domain to the title list.
func (s *Server) handleRoot(c *gin.Context) {
	c.Redirect(http.StatusFound, s.rootRedirect)
}

// handleAsset serves a file of one category from the request's webfiles
// directory with a fixed content type.
func (s *Server) handleAsset(category, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.serveAsset(c, category, c.Param("filename"), contentType)
	}
}

func (s *Server) handleFavicon(c *gin.Context) {
	s.serveAsset(c, ASSET_CATEGORY_IMAGE, FAVICON_FILE, CONTENT_TYPE_ICO)
}

func (s *Server) serveAsset(c *gin.Context, category, filename, contentType string) {
	if filename == "" || filename == "." || filename == ".." {
		c.Status(http.StatusNotFound)
		return
	}

	fullPath := filepath.Join(s.webfilesRoot, c.GetString(ctxKeyDirectory), category, filename)

	file, err := os.Open(fullPath)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}

	// ServeContent, unlike ServeFile, never redirects on the request path.
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}
