package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/WangWilly/xJuxt/migration/automigrate"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/database"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/config"
	"github.com/golang-migrate/migrate/v4"
	log "github.com/sirupsen/logrus"
)

const (
	usageText = `Migration tool for the xJuxt database

Usage:
  migrate [flags] [command]

Available Commands:
  up                   Run all available migrations
  down                 Revert all migrations
  force [version]      Force set version without running migrations
  version              Print current migration version

Database Configuration:
  The database section of -conf is used, overridden by XJUXT_DATABASE_*
  variables, or by the -sqlite flag.

Examples:
  migrate -conf config.yaml up
  migrate -sqlite ./data/xjuxt.db version
  XJUXT_DATABASE_TYPE=postgres XJUXT_DATABASE_HOST=localhost migrate down
`
)

var (
	confPath   = flag.String("conf", "config.yaml", "path of the config file")
	sqlitePath = flag.String("sqlite", "", "SQLite database file path")
	help       = flag.Bool("help", false, "Show help message")
	h          = flag.Bool("h", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help || *h {
		fmt.Print(usageText)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Print(usageText)
		os.Exit(1)
	}

	dbConfig, err := databaseConfig()
	if err != nil {
		log.Fatalf("Failed to load database configuration: %v", err)
	}

	db, err := database.ConnectWithConfig(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateConfig := automigrate.AutoMigrateConfig{SqlxDB: db}

	// Execute command
	switch command := args[0]; command {
	case "up":
		if err := automigrate.AutoMigrateUp(migrateConfig); err != nil {
			log.Fatalf("Failed to run migrations up: %v", err)
		}
		fmt.Println("Migrations applied successfully")

	case "down":
		if err := automigrate.AutoMigrateDown(migrateConfig); err != nil {
			log.Fatalf("Failed to run migrations down: %v", err)
		}
		fmt.Println("Migrations reverted successfully")

	case "force":
		if len(args) < 2 {
			log.Fatal("force command requires a version argument")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version number: %v", err)
		}
		if err := automigrate.ForceVersion(migrateConfig, version); err != nil {
			log.Fatalf("Failed to force version %d: %v", version, err)
		}
		fmt.Printf("Forced version to %d\n", version)

	case "version":
		version, dirty, err := automigrate.GetMigrationVersion(migrateConfig)
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migration applied")
			return
		}
		if err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
		status := "clean"
		if dirty {
			status = "dirty"
		}
		fmt.Printf("Current version: %d (%s)\n", version, status)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usageText)
		os.Exit(1)
	}
}

func databaseConfig() (database.DatabaseConfig, error) {
	if *sqlitePath != "" {
		return database.DatabaseConfig{
			Type: database.DATABASE_TYPE_SQLITE,
			Path: *sqlitePath,
		}, nil
	}

	conf, err := config.ReadConfig(*confPath)
	if errors.Is(err, os.ErrNotExist) {
		conf = config.Default()
		err = config.ApplyEnv(conf)
	}
	if err != nil {
		return database.DatabaseConfig{}, err
	}
	return conf.Database, nil
}
