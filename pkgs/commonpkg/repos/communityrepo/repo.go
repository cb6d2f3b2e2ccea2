package communityrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

type Repo struct{}

func New() *Repo {
	return &Repo{}
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) Upsert(ctx context.Context, db *sqlx.DB, community *model.Community) error {
	stmt := `INSERT INTO communities(id, name, description, browser_icon, browser_thumbnail, wiiu_browser_header)
			 VALUES(:id, :name, :description, :browser_icon, :browser_thumbnail, :wiiu_browser_header)
			 ON CONFLICT(id) DO UPDATE SET
				name=excluded.name,
				description=excluded.description,
				browser_icon=excluded.browser_icon,
				browser_thumbnail=excluded.browser_thumbnail,
				wiiu_browser_header=excluded.wiiu_browser_header,
				updated_at=CURRENT_TIMESTAMP`
	if _, err := db.NamedExecContext(ctx, stmt, community); err != nil {
		return err
	}

	stored, err := r.GetById(ctx, db, community.Id)
	if err != nil {
		return err
	}
	if stored == nil {
		return errors.New("community vanished after upsert: " + community.Id)
	}
	*community = *stored
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// GetById returns nil when no community has the given id.
func (r *Repo) GetById(ctx context.Context, db *sqlx.DB, id string) (*model.Community, error) {
	stmt := `SELECT * FROM communities WHERE id=$1`
	result := &model.Community{}
	err := db.GetContext(ctx, result, stmt, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
