//go:build integration

package services

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/WangWilly/xJuxt/migration/automigrate"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/database"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/communityrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/contentrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/conversationrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/notificationrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/postrepo"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/repos/settingsrepo"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pgDB *sqlx.DB

func TestMain(m *testing.M) {
	// Setup
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	// Start a PostgreSQL container
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=xjuxt",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	// Exponential backoff-retry until the database is ready
	if err := pool.Retry(func() error {
		var err error
		pgDB, err = database.ConnectWithConfig(database.DatabaseConfig{
			Type:     database.DATABASE_TYPE_POSTGRES,
			Host:     "localhost",
			Port:     resource.GetPort("5432/tcp"),
			User:     "postgres",
			Password: "postgres",
			DBName:   "xjuxt",
		})
		return err
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	if err := automigrate.AutoMigrateUp(automigrate.AutoMigrateConfig{SqlxDB: pgDB}); err != nil {
		log.Fatalf("Could not migrate: %s", err)
	}

	// Run tests
	code := m.Run()

	// Clean up
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}

	os.Exit(code)
}

func TestAccountServiceIntegration_Postgres(t *testing.T) {
	ctx := context.Background()
	svc := newService(pgDB)

	// Arrange
	require.NoError(t, communityrepo.New().Upsert(ctx, pgDB, &model.Community{
		Id:          "42",
		Name:        "Splatoon",
		BrowserIcon: sql.NullString{String: "iVBORw0KGgo=", Valid: true},
	}))
	require.NoError(t, settingsrepo.New().Upsert(ctx, pgDB, &model.UserSettings{Pid: 1000, ScreenName: "Inkling"}))
	require.NoError(t, contentrepo.New().Upsert(ctx, pgDB, &model.UserContent{Pid: 1000}))
	require.NoError(t, postrepo.New().Create(ctx, pgDB, &model.Post{Id: "p1", Pid: 1000, Body: "hi"}))
	for i := 0; i < 2; i++ {
		require.NoError(t, notificationrepo.New().Create(ctx, pgDB, &model.Notification{Pid: 1000, Type: "yeah"}))
	}
	require.NoError(t, conversationrepo.New().UpsertMember(ctx, pgDB, &model.ConversationMember{ConversationId: "c1", Pid: 1000}))

	t.Run("unread counts", func(t *testing.T) {
		counts, err := svc.UnreadCounts(ctx, 1000)

		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Messages)
		assert.Equal(t, int64(2), counts.Notifications)
	})

	t.Run("export", func(t *testing.T) {
		data, err := svc.ExportUserData(ctx, 1000)

		require.NoError(t, err)
		require.NotNil(t, data.Settings)
		require.NotNil(t, data.Content)
		assert.Equal(t, "Inkling", data.Settings.ScreenName)
		assert.JSONEq(t, `[]`, string(data.Content.FollowedCommunities))
		require.Len(t, data.Posts, 1)
		assert.Equal(t, "p1", data.Posts[0].Id)
	})

	t.Run("post lookup", func(t *testing.T) {
		post, err := svc.Post(ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, post)

		missing, err := svc.Post(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
