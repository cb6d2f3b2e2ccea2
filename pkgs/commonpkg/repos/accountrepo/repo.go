package accountrepo

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

func (r *Repo) Upsert(ctx context.Context, db *sqlx.DB, account *model.Account) error {
	stmt := `INSERT INTO accounts(pid, username, mii_name, pfp_uri)
			 VALUES(:pid, :username, :mii_name, :pfp_uri)
			 ON CONFLICT(pid) DO UPDATE SET
				username=excluded.username,
				mii_name=excluded.mii_name,
				pfp_uri=excluded.pfp_uri,
				updated_at=CURRENT_TIMESTAMP`
	if _, err := db.NamedExecContext(ctx, stmt, account); err != nil {
		return err
	}

	stored, err := r.GetByPid(ctx, db, account.Pid)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("account with pid %d vanished after upsert", account.Pid)
	}
	*account = *stored
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// GetByPid looks an account up by its public id.
func (r *Repo) GetByPid(ctx context.Context, db *sqlx.DB, pid uint64) (*model.Account, error) {
	stmt := `SELECT * FROM accounts WHERE pid=$1`
	result := &model.Account{}
	err := db.GetContext(ctx, result, stmt, pid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
