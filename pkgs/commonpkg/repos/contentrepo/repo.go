package contentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

type Repo struct{}

func New() *Repo {
	return &Repo{}
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) Upsert(ctx context.Context, db *sqlx.DB, content *model.UserContent) error {
	normalizeLists(content)

	stmt := `INSERT INTO contents(pid, followed_communities, followed_users, following_users)
			 VALUES(:pid, :followed_communities, :followed_users, :following_users)
			 ON CONFLICT(pid) DO UPDATE SET
				followed_communities=excluded.followed_communities,
				followed_users=excluded.followed_users,
				following_users=excluded.following_users,
				updated_at=CURRENT_TIMESTAMP`
	if _, err := db.NamedExecContext(ctx, stmt, content); err != nil {
		return err
	}

	stored, err := r.GetByPid(ctx, db, content.Pid)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("content with pid %d vanished after upsert", content.Pid)
	}
	*content = *stored
	return nil
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.UserContent, error) {
	stmt := `SELECT * FROM contents WHERE pid=$1`
	result := &model.UserContent{}
	err := db.GetContext(ctx, result, stmt, pid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////

// normalizeLists replaces unset list columns with an empty JSON array.
func normalizeLists(content *model.UserContent) {
	for _, list := range []*types.JSONText{
		&content.FollowedCommunities,
		&content.FollowedUsers,
		&content.FollowingUsers,
	} {
		if len(*list) == 0 {
			*list = types.JSONText("[]")
		}
	}
}
