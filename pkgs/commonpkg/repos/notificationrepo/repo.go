package notificationrepo

import (
	"context"
	"fmt"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

type Repo struct{}

func New() *Repo {
	return &Repo{}
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) Create(ctx context.Context, db *sqlx.DB, notification *model.Notification) error {
	stmt := `INSERT INTO notifications(pid, type, link, read)
			 VALUES(:pid, :type, :link, :read)
			 RETURNING id`
	rows, err := db.NamedQueryContext(ctx, stmt, notification)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("no rows returned for notification of pid %d", notification.Pid)
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return err
	}
	rows.Close()

	return db.GetContext(ctx, notification, `SELECT * FROM notifications WHERE id=$1`, id)
}

////////////////////////////////////////////////////////////////////////////////

func (r *Repo) CountUnread(ctx context.Context, db *sqlx.DB, pid uint64) (int64, error) {
	stmt := `SELECT COUNT(*) FROM notifications WHERE pid=$1 AND read=FALSE`
	var count int64
	err := db.GetContext(ctx, &count, stmt, pid)
	return count, err
}

func (r *Repo) MarkAllRead(ctx context.Context, db *sqlx.DB, pid uint64) error {
	stmt := `UPDATE notifications SET read=TRUE, updated_at=CURRENT_TIMESTAMP WHERE pid=$1 AND read=FALSE`
	_, err := db.ExecContext(ctx, stmt, pid)
	return err
}
