package services

import (
	"context"
	"fmt"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

type UnreadCounts struct {
	Messages      int64
	Notifications int64
}

// UserData is everything stored about one account. Content and Settings are
// nil when the account never created them.
type UserData struct {
	Pid      uint64
	Content  *model.UserContent
	Settings *model.UserSettings
	Posts    []*model.Post
}

////////////////////////////////////////////////////////////////////////////////

// AccountService answers the caller-scoped account queries.
type AccountService struct {
	db *sqlx.DB

	settingsRepo     SettingsRepo
	contentRepo      ContentRepo
	postRepo         PostRepo
	notificationRepo NotificationRepo
	conversationRepo ConversationRepo
	logger           *log.Entry
}

func NewAccountService(
	db *sqlx.DB,
	settingsRepo SettingsRepo,
	contentRepo ContentRepo,
	postRepo PostRepo,
	notificationRepo NotificationRepo,
	conversationRepo ConversationRepo,
) *AccountService {
	return &AccountService{
		db:               db,
		settingsRepo:     settingsRepo,
		contentRepo:      contentRepo,
		postRepo:         postRepo,
		notificationRepo: notificationRepo,
		conversationRepo: conversationRepo,
		logger:           log.WithField("service", "account_service"),
	}
}

////////////////////////////////////////////////////////////////////////////////

func (s *AccountService) UnreadCounts(ctx context.Context, pid uint64) (*UnreadCounts, error) {
	notifications, err := s.notificationRepo.CountUnread(ctx, s.db, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	messages, err := s.conversationRepo.CountUnread(ctx, s.db, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread conversations: %w", err)
	}
	return &UnreadCounts{Messages: messages, Notifications: notifications}, nil
}

// Post returns nil when no post has the given id.
func (s *AccountService) Post(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetById(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return post, nil
}

func (s *AccountService) ExportUserData(ctx context.Context, pid uint64) (*UserData, error) {
	posts, err := s.postRepo.ListByPid(ctx, s.db, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	settings, err := s.settingsRepo.GetByPid(ctx, s.db, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	content, err := s.contentRepo.GetByPid(ctx, s.db, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"pid":   pid,
		"posts": len(posts),
	}).Info("Exported user data")

	return &UserData{
		Pid:      pid,
		Content:  content,
		Settings: settings,
		Posts:    posts,
	}, nil
}
