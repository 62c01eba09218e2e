package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"soleconnect/internal/domain"
)

const userCols = `id,email,first_name,last_name,password_hash,role,store_name,business_type,created_at`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Insert(u domain.User) error {
	_, err := r.DB.NamedExec(`
	  INSERT INTO users(id,email,first_name,last_name,password_hash,role,store_name,business_type,created_at)
	  VALUES(:id,:email,:first_name,:last_name,:password_hash,:role,:store_name,:business_type,:created_at)`, u)
	return err
}

func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE role != 'ADMIN' ORDER BY email`)
	return out, err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,created_at,last_seen)
                          VALUES(?,?,?,?)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=excluded.last_seen`,
		sid, userID, now(), now())
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.first_name,u.last_name,u.password_hash,u.role,u.store_name,u.business_type,u.created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=? WHERE id=?`, now(), sid)
	return err
}

// DeleteUserCascade removes the account and its sessions, and hides the
// catalog rows it owned. Listings and shops are deactivated rather than
// deleted so moderation can still inspect them.
func (r *UserRepo) DeleteUserCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE listings SET is_active = 0, updated_at = ? WHERE seller_id = ?`, now(), userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE shops SET is_active = 0, updated_at = ? WHERE owner_id = ?`, now(), userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// IsNoRows lets callers treat a missing row as a domain condition instead of
// matching on driver errors.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound)
}
