package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/mediahelper"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	DEFAULT_ROOT_REDIRECT      = "/titles/show"
	DEFAULT_OEMBED_AUTHOR_BASE = "https://juxt.pretendo.network/users/show?pid="
	HEALTH_PATH                = "/healthz"
)

////////////////////////////////////////////////////////////////////////////////

// Deps are the collaborators the routes are served from.
type Deps struct {
	MediaResolver     MediaResolver
	AccountService    AccountService
	Authenticator     Authenticator
	DirectoryResolver DirectoryResolver
}

type Options struct {
	Port             string
	WebfilesRoot     string
	RootRedirect     string
	OEmbedAuthorBase string
	Debug            bool
}

////////////////////////////////////////////////////////////////////////////////

// Server serves the console/web routes.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server

	webfilesRoot     string
	rootRedirect     string
	oembedAuthorBase string

	mediaResolver     MediaResolver
	accountService    AccountService
	authenticator     Authenticator
	directoryResolver DirectoryResolver
}

func NewServer(deps Deps, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.WithError(err).Warn("Failed to set trusted proxies")
	}

	rootRedirect := opts.RootRedirect
	if rootRedirect == "" {
		rootRedirect = DEFAULT_ROOT_REDIRECT
	}
	oembedAuthorBase := opts.OEmbedAuthorBase
	if oembedAuthorBase == "" {
		oembedAuthorBase = DEFAULT_OEMBED_AUTHOR_BASE
	}
	port := opts.Port
	if port == "" {
		port = "8080"
	}

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},

		webfilesRoot:     opts.WebfilesRoot,
		rootRedirect:     rootRedirect,
		oembedAuthorBase: oembedAuthorBase,

		mediaResolver:     deps.MediaResolver,
		accountService:    deps.AccountService,
		authenticator:     deps.Authenticator,
		directoryResolver: deps.DirectoryResolver,
	}

	router.Use(
		gin.RecoveryWithWriter(log.StandardLogger().WriterLevel(log.ErrorLevel)),
		requestId(),
		requestLogger(HEALTH_PATH),
		secure.New(secure.Config{
			FrameDeny:          true,
			ContentTypeNosniff: true,
			BrowserXssFilter:   true,
			IsDevelopment:      opts.Debug,
		}),
	)
	s.setupRoutes()

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

////////////////////////////////////////////////////////////////////////////////

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	r.GET(HEALTH_PATH, s.handleHealth)
	r.GET("/", s.handleRoot)

	// Static assets
	assets := r.Group("/", s.tenantDirectory())
	assets.GET("/css/:filename", s.handleAsset("css", CONTENT_TYPE_CSS))
	assets.GET("/js/:filename", s.handleAsset("js", CONTENT_TYPE_JS))
	assets.GET("/images/:filename", s.handleAsset("images", CONTENT_TYPE_PNG))
	assets.GET("/fonts/:filename", s.handleAsset("fonts", CONTENT_TYPE_WOFF))
	assets.GET("/favicon.ico", s.handleFavicon)

	// Stored media
	r.GET("/icons/:image", s.handleMedia(mediahelper.KindIcon))
	r.GET("/tip/:image", s.handleMedia(mediahelper.KindTip))
	r.GET("/banner/:image", s.handleMedia(mediahelper.KindBanner))
	r.GET("/screenshot/:image", s.handleMedia(mediahelper.KindScreenshot))
	r.GET("/drawing/:image", s.handleMedia(mediahelper.KindDrawing))

	// Account
	account := r.Group("/", s.authRequired())
	account.GET("/notifications.json", s.handleNotifications)
	account.GET("/downloadUserData.json", s.handleDownloadUserData)
	account.GET("/:post_id/oembed.json", s.handleOEmbed)
}
