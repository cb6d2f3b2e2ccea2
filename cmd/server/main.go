package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WangWilly/xJuxt/migration/automigrate"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/database"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/accountrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/communityrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/contentrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/conversationrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/notificationrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/postrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/settingsrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/services"
	"github.com/WangWilly/xJuxt/pkgs/logger"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/config"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/authhelper"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/dirhelper"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/mediahelper"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/server"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func main() {
	var confPath string
	var initConf bool
	var tokenPid uint64
	var isDebug bool

	flag.StringVar(&confPath, "conf", "config.yaml", "path of the config file")
	flag.BoolVar(&initConf, "init", false, "write a default config to -conf and exit")
	flag.Uint64Var(&tokenPid, "token", 0, "print an access token for the given pid and exit")
	flag.BoolVar(&isDebug, "debug", false, "display debug message")
	flag.Parse()

	if initConf {
		if err := config.WriteConfig(confPath, config.Default()); err != nil {
			log.Fatalln("failed to write config:", err)
		}
		fmt.Println("config written to", color.FgLightGreen.Render(confPath))
		return
	}

	////////////////////////////////////////////////////////////////////////////

	conf, err := loadConfig(confPath)
	if err != nil {
		log.Fatalln("failed to load config:", err)
	}
	if isDebug {
		conf.Server.Debug = true
		conf.Log.Debug = true
	}

	logFile, err := logger.InitLogger(conf.Log)
	if err != nil {
		log.Fatalln("failed to init logger:", err)
	}
	defer logFile.Close()

	auth, err := authhelper.New(conf.Auth)
	if err != nil {
		log.Fatalln("failed to init authenticator:", err)
	}

	if tokenPid != 0 {
		token, err := auth.IssueToken(tokenPid)
		if err != nil {
			log.Fatalln("failed to issue token:", err)
		}
		fmt.Println(token)
		return
	}

	////////////////////////////////////////////////////////////////////////////

	db, err := database.ConnectWithConfig(conf.Database)
	if err != nil {
		log.Fatalln("failed to connect to database:", err)
	}
	defer db.Close()

	if err := automigrate.AutoMigrateUp(
		automigrate.AutoMigrateConfig{SqlxDB: db},
	); err != nil {
		log.Fatalln("failed to migrate database:", err)
	}

	////////////////////////////////////////////////////////////////////////////

	communityRepo := communityrepo.New()
	settingsRepo := settingsrepo.New()
	contentRepo := contentrepo.New()
	accountRepo := accountrepo.New()
	postRepo := postrepo.New()
	notificationRepo := notificationrepo.New()
	conversationRepo := conversationrepo.New()

	srv := server.NewServer(server.Deps{
		MediaResolver: mediahelper.NewResolver(
			db, communityRepo, settingsRepo, accountRepo, postRepo,
		),
		AccountService: services.NewAccountService(
			db, settingsRepo, contentRepo, postRepo, notificationRepo, conversationRepo,
		),
		Authenticator:     auth,
		DirectoryResolver: dirhelper.New(conf.Directories),
	}, server.Options{
		Port:             conf.Server.Port,
		WebfilesRoot:     conf.Server.WebfilesRoot,
		RootRedirect:     conf.Server.RootRedirect,
		OEmbedAuthorBase: conf.OEmbed.AuthorBaseUrl,
		Debug:            conf.Server.Debug,
	})

	////////////////////////////////////////////////////////////////////////////

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Infoln("listening on", color.FgLightBlue.Render(":"+conf.Server.Port))

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorln("server stopped:", err)
		}
	case <-ctx.Done():
		log.Infoln("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorln("failed to shut down cleanly:", err)
	}
}

// loadConfig falls back to defaults plus environment when no file exists.
func loadConfig(path string) (*config.Config, error) {
	conf, err := config.ReadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		conf = config.Default()
		return conf, config.ApplyEnv(conf)
	}
	return conf, err
}
