package mediahelper

import (
	"context"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

type CommunityRepo interface {
	GetById(ctx context.Context, db *sqlx.DB, id string) (*model.Community, error)
}

type SettingsRepo interface {
	GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.UserSettings, error)
}

type AccountRepo interface {
	GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.Account, error)
}

type PostRepo interface {
	GetById(ctx context.Context, db *sqlx.DB, id string) (*model.Post, error)
}
