package conversationrepo

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

func (r *Repo) UpsertMember(ctx context.Context, db *sqlx.DB, member *model.ConversationMember) error {
	stmt := `INSERT INTO conversation_members(conversation_id, pid, read)
			 VALUES(:conversation_id, :pid, :read)
			 ON CONFLICT(conversation_id, pid) DO UPDATE SET read=excluded.read, updated_at=CURRENT_TIMESTAMP`
	if _, err := db.NamedExecContext(ctx, stmt, member); err != nil {
		return err
	}

	stmt = `SELECT * FROM conversation_members WHERE conversation_id=$1 AND pid=$2`
	if err := db.GetContext(ctx, member, stmt, member.ConversationId, member.Pid); err != nil {
		return fmt.Errorf("failed to reload member %d of conversation %s: %w", member.Pid, member.ConversationId, err)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// CountUnread returns how many conversations pid takes part in that hold a
// message pid has not read yet.
func (r *Repo) CountUnread(ctx context.Context, db *sqlx.DB, pid uint64) (int64, error) {
	stmt := `SELECT COUNT(*) FROM conversation_members WHERE pid=$1 AND read=FALSE`
	var count int64
	err := db.GetContext(ctx, &count, stmt, pid)
	return count, err
}

func (r *Repo) MarkRead(ctx context.Context, db *sqlx.DB, conversationId string, pid uint64) error {
	stmt := `UPDATE conversation_members SET read=TRUE, updated_at=CURRENT_TIMESTAMP WHERE conversation_id=$1 AND pid=$2`
	_, err := db.ExecContext(ctx, stmt, conversationId, pid)
	return err
}
