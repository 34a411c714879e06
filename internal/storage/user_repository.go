package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"moneygement/internal/core"
)

const (
	insertUserQuery = `INSERT INTO user (nome, cognome, email, password_hash, eta) VALUES (?, ?, ?, ?, ?)`

	selectUserByCredentialsQuery = `SELECT id, nome, cognome, email, password_hash, eta FROM user WHERE email = ? AND password_hash = ?`

	selectUserByIDQuery = `SELECT id, nome, cognome, email, password_hash, eta FROM user WHERE id = ?`

	updateUserQuery = `UPDATE user SET nome = ?, cognome = ?, email = ?, password_hash = ?, eta = ? WHERE id = ?`

	deleteUserQuery = `DELETE FROM user WHERE id = ?`
)

// UserRepository translates between user rows and validated User
// entities.
type UserRepository struct {
	gw *Gateway
}

func NewUserRepository(gw *Gateway) *UserRepository {
	return &UserRepository{gw: gw}
}

// Register inserts the user and assigns the storage id. A duplicate
// email surfaces as core.ErrUserAlreadyExists, anything else the engine
// rejects as core.ErrStorageFailure.
func (r *UserRepository) Register(ctx context.Context, u *core.User) error {
	res, err := r.gw.DB().ExecContext(ctx, insertUserQuery,
		u.FirstName(), u.LastName(), u.Email(), u.PasswordHash(), u.Age())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s is already registered", core.ErrUserAlreadyExists, u.Email())
		}
		return fmt.Errorf("%w: insert user: %v", core.ErrStorageFailure, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: read inserted user id: %v", core.ErrStorageFailure, err)
	}
	if err := u.SetID(id); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageFailure, err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", u.ID(), "email", u.Email())
	return nil
}

// FindByCredentials looks a row up by exact (email, digest) match.
// Absence is a normal outcome: the user is nil and the error is nil.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, passwordHash string) (*core.User, error) {
	row := r.gw.DB().QueryRowContext(ctx, selectUserByCredentialsQuery, email, passwordHash)
	return r.scanUser(row)
}

// FindByID returns the mapped user, or nil without error when the row
// does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*core.User, error) {
	row := r.gw.DB().QueryRowContext(ctx, selectUserByIDQuery, id)
	return r.scanUser(row)
}

// Update rewrites the full row identified by the user's id.
func (r *UserRepository) Update(ctx context.Context, u *core.User) error {
	_, err := r.gw.DB().ExecContext(ctx, updateUserQuery,
		u.FirstName(), u.LastName(), u.Email(), u.PasswordHash(), u.Age(), u.ID())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s is already registered", core.ErrUserAlreadyExists, u.Email())
		}
		return fmt.Errorf("%w: update user %d: %v", core.ErrStorageFailure, u.ID(), err)
	}

	slog.InfoContext(ctx, "User updated", "user_id", u.ID())
	return nil
}

// DeleteByID removes the row. Deleting a non-existent id is not an
// error.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.gw.DB().ExecContext(ctx, deleteUserQuery, id); err != nil {
		return fmt.Errorf("%w: delete user %d: %v", core.ErrStorageFailure, id, err)
	}

	slog.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}

// scanUser maps a row through the validating constructor. Rows are only
// ever written through that same validation path, so a row that fails it
// is a data-integrity fault, not bad input.
func (r *UserRepository) scanUser(row *sql.Row) (*core.User, error) {
	var (
		id           int64
		firstName    string
		lastName     string
		email        string
		passwordHash string
		age          int
	)
	if err := row.Scan(&id, &firstName, &lastName, &email, &passwordHash, &age); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: scan user row: %v", core.ErrStorageFailure, err)
	}

	u, err := core.NewUser(firstName, lastName, passwordHash, email, age)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt user row %d: %v", core.ErrStorageFailure, id, err)
	}
	if err := u.SetID(id); err != nil {
		return nil, fmt.Errorf("%w: corrupt user row %d: %v", core.ErrStorageFailure, id, err)
	}
	return u, nil
}
