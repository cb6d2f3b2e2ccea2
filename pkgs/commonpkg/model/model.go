package model

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Community is a title community. The three image columns hold either a bare
// base64 blob or a data URI; NULL and "" both mean "no image".
type Community struct {
	Id                string         `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	Description       string         `db:"description" json:"description"`
	BrowserIcon       sql.NullString `db:"browser_icon" json:"-"`
	BrowserThumbnail  sql.NullString `db:"browser_thumbnail" json:"-"`
	WiiUBrowserHeader sql.NullString `db:"wiiu_browser_header" json:"-"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// UserSettings is the per-user settings record keyed by pid.
type UserSettings struct {
	Pid                      uint64         `db:"pid" json:"pid"`
	ScreenName               string         `db:"screen_name" json:"screen_name"`
	PfpUri                   sql.NullString `db:"pfp_uri" json:"-"`
	ProfileComment           string         `db:"profile_comment" json:"profile_comment"`
	ProfileCommentVisibility bool           `db:"profile_comment_visibility" json:"profile_comment_visibility"`
	GameSkillVisibility      bool           `db:"game_skill_visibility" json:"game_skill_visibility"`
	CreatedAt                time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time      `db:"updated_at" json:"updated_at"`
}

// MarshalJSON writes pfp_uri as a string, or null when the column is NULL.
func (s UserSettings) MarshalJSON() ([]byte, error) {
	type plain UserSettings
	var pfpUri *string
	if s.PfpUri.Valid {
		pfpUri = &s.PfpUri.String
	}
	return json.Marshal(struct {
		plain
		PfpUri *string `json:"pfp_uri"`
	}{plain(s), pfpUri})
}

// UserContent is the per-user social graph record keyed by pid.
type UserContent struct {
	Pid                 uint64         `db:"pid" json:"pid"`
	FollowedCommunities types.JSONText `db:"followed_communities" json:"followed_communities"`
	FollowedUsers       types.JSONText `db:"followed_users" json:"followed_users"`
	FollowingUsers      types.JSONText `db:"following_users" json:"following_users"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// Account is the public account record, looked up by pid independently of
// the settings record.
type Account struct {
	Pid       uint64         `db:"pid" json:"pid"`
	Username  string         `db:"username" json:"username"`
	MiiName   string         `db:"mii_name" json:"mii_name"`
	PfpUri    sql.NullString `db:"pfp_uri" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

type Post struct {
	Id          string    `db:"id" json:"id"`
	Pid         uint64    `db:"pid" json:"pid"`
	ScreenName  string    `db:"screen_name" json:"screen_name"`
	CommunityId string    `db:"community_id" json:"community_id"`
	TitleId     string    `db:"title_id" json:"title_id"`
	Body        string    `db:"body" json:"body"`
	PaintingUri string    `db:"painting_uri" json:"painting_uri"`
	Screenshot  string    `db:"screenshot" json:"screenshot"`
	Spoiler     bool      `db:"spoiler" json:"spoiler"`
	ParentId    string    `db:"parent_id" json:"parent_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Notification struct {
	Id        int64     `db:"id" json:"id"`
	Pid       uint64    `db:"pid" json:"pid"`
	Type      string    `db:"type" json:"type"`
	Link      string    `db:"link" json:"link"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ConversationMember marks one participant of a conversation and whether the
// latest message has been read by them.
type ConversationMember struct {
	Id             int64     `db:"id" json:"id"`
	ConversationId string    `db:"conversation_id" json:"conversation_id"`
	Pid            uint64    `db:"pid" json:"pid"`
	Read           bool      `db:"read" json:"read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
