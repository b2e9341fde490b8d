package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/goedr/console/internal/console/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, username, password_hash, api_token, last_login, date_created`

func (r *usersRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, username, passwordHash string) (domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, date_created) VALUES (?, ?, ?)`,
		username, passwordHash, time.Now().UTC())
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *usersRepo) SetToken(ctx context.Context, id int64, token string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET api_token = ? WHERE id = ?`, token, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) GetToken(ctx context.Context, id int64) (string, error) {
	var tok sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT api_token FROM users WHERE id = ?`, id).Scan(&tok)
	if err != nil {
		return "", mapNotFound(err)
	}
	return mapNullString(tok), nil
}

func (r *usersRepo) ClearToken(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET api_token = NULL WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id int64, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, newHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ResetAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		apiToken  sql.NullString
		lastLogin sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &apiToken, &lastLogin, &u.DateCreated)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.APIToken = mapNullString(apiToken)
	u.LastLogin = mapNullTimePtr(lastLogin)
	return u, nil
}

// requireRow turns a zero-row update into ErrNotFound so single-row writes
// against vanished users surface consistently.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
