package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/repository"
)

const userColumns = `id, name, email, photo, role, password, password_changed_at,
	password_reset_token, password_reset_expires, active, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, photo, role, password, password_changed_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Photo, u.Role, u.Password, u.PasswordChangedAt, u.Active)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) GetByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > $2
	`, digest, now)
}

func (r *UserRepository) getOne(ctx context.Context, sql string, args ...any) (*entity.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[entity.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return u, err
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, photo = $3, role = $4, password = $5,
			password_changed_at = $6, password_reset_token = $7,
			password_reset_expires = $8, active = $9, updated_at = now()
		WHERE id = $10
		RETURNING updated_at
	`, u.Name, u.Email, u.Photo, u.Role, u.Password, u.PasswordChangedAt,
		u.PasswordResetToken, u.PasswordResetExpires, u.Active, u.ID)

	if err := row.Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *UserRepository) ClearResetTicket(ctx context.Context, id, digest string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = now()
		WHERE id = $1 AND password_reset_token = $2
	`, id, digest)
	return err
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE active ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entity.User])
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
