package postgres

import (
	"context"
	"database/sql"

	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userSelect = `
	SELECT id, username, full_name, password_hash, is_staff, is_superuser, is_active, created_at, updated_at
	FROM users`

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &u.IsStaff, &u.IsSuperuser,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) error {
	const q = `
		INSERT INTO users (id, username, full_name, password_hash, is_staff, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		u.ID, u.Username, u.FullName, u.PasswordHash, u.IsStaff, u.IsSuperuser, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return mapWriteErr(err)
}

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(database.Conn(ctx, r.db).QueryRowContext(ctx, userSelect+` WHERE id = $1`, id))
}

func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(database.Conn(ctx, r.db).QueryRowContext(ctx, userSelect+` WHERE username = $1`, username))
}

func (r *UserPostgres) Count(ctx context.Context) (int, error) {
	var n int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserPostgres) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	b := &filterBuilder{}
	if !f.IncludeInactive {
		b.add("is_active = true")
	}
	if f.Search != "" {
		pat := containsPattern(f.Search)
		b.add("(username ILIKE ? OR full_name ILIKE ?)", pat, pat)
	}
	if f.IsStaff != nil {
		b.add("is_staff = ?", *f.IsStaff)
	}

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, userSelect+b.where()+` ORDER BY created_at DESC`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET full_name = $2, password_hash = $3, is_staff = $4, is_superuser = $5, is_active = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	return database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		u.ID, u.FullName, u.PasswordHash, u.IsStaff, u.IsSuperuser, u.IsActive,
	).Scan(&u.UpdatedAt)
}
