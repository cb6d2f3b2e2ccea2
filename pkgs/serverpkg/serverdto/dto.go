package serverdto

import (
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
)

// NotificationCounts is the body of /notifications.json.
type NotificationCounts struct {
	MessageCount      int64 `json:"message_count"`
	NotificationCount int64 `json:"notification_count"`
}

// OEmbed is the body of /:post_id/oembed.json.
type OEmbed struct {
	AuthorName string `json:"author_name"`
	AuthorUrl  string `json:"author_url"`
}

// UserDataExport is the attachment served by /downloadUserData.json.
type UserDataExport struct {
	UserContent  *model.UserContent  `json:"user_content"`
	UserSettings *model.UserSettings `json:"user_settings"`
	Posts        []*model.Post       `json:"posts"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
