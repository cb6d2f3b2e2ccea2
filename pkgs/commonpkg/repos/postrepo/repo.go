package postrepo

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

func (r *Repo) Create(ctx context.Context, db *sqlx.DB, post *model.Post) error {
	stmt := `INSERT INTO posts(id, pid, screen_name, community_id, title_id, body, painting_uri, screenshot, spoiler, parent_id)
			 VALUES(:id, :pid, :screen_name, :community_id, :title_id, :body, :painting_uri, :screenshot, :spoiler, :parent_id)`
	if _, err := db.NamedExecContext(ctx, stmt, post); err != nil {
		return err
	}

	stored, err := r.GetById(ctx, db, post.Id)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("post %s vanished after create", post.Id)
	}
	*post = *stored
	return nil
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) GetById(ctx context.Context, db *sqlx.DB, id string) (*model.Post, error) {
	stmt := `SELECT * FROM posts WHERE id=$1`
	result := &model.Post{}
	err := db.GetContext(ctx, result, stmt, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByPid returns every post authored by pid, newest first.
func (r *Repo) ListByPid(ctx context.Context, db *sqlx.DB, pid uint64) ([]*model.Post, error) {
	stmt := `SELECT * FROM posts WHERE pid=$1 ORDER BY created_at DESC, id DESC`
	posts := []*model.Post{}
	if err := db.SelectContext(ctx, &posts, stmt, pid); err != nil {
		return nil, err
	}
	return posts, nil
}
