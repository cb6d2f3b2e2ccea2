package services

import (
	"context"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

type SettingsRepo interface {
	GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.UserSettings, error)
}

type ContentRepo interface {
	GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.UserContent, error)
}

type PostRepo interface {
	GetById(ctx context.Context, db *sqlx.DB, id string) (*model.Post, error)
	ListByPid(ctx context.Context, db *sqlx.DB, pid uint64) ([]*model.Post, error)
}

type NotificationRepo interface {
	CountUnread(ctx context.Context, db *sqlx.DB, pid uint64) (int64, error)
}

type ConversationRepo interface {
	CountUnread(ctx context.Context, db *sqlx.DB, pid uint64) (int64, error)
}
