package settingsrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

type Repo struct{}

func New() *Repo {
	return &Repo{}
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) Upsert(ctx context.Context, db *sqlx.DB, settings *model.UserSettings) error {
	stmt := `INSERT INTO settings(pid, screen_name, pfp_uri, profile_comment, profile_comment_visibility, game_skill_visibility)
			 VALUES(:pid, :screen_name, :pfp_uri, :profile_comment, :profile_comment_visibility, :game_skill_visibility)
			 ON CONFLICT(pid) DO UPDATE SET
				screen_name=excluded.screen_name,
				pfp_uri=excluded.pfp_uri,
				profile_comment=excluded.profile_comment,
				profile_comment_visibility=excluded.profile_comment_visibility,
				game_skill_visibility=excluded.game_skill_visibility,
				updated_at=CURRENT_TIMESTAMP`
	if _, err := db.NamedExecContext(ctx, stmt, settings); err != nil {
		return err
	}

	stored, err := r.GetByPid(ctx, db, settings.Pid)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("settings with pid %d vanished after upsert", settings.Pid)
	}
	*settings = *stored
	return nil
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.UserSettings, error) {
	stmt := `SELECT * FROM settings WHERE pid=$1`
	result := &model.UserSettings{}
	err := db.GetContext(ctx, result, stmt, pid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
