package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const userColumns = `id::text, email, COALESCE(name, ''), role, password_hash, created_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	q := `
INSERT INTO users (email, name, role, password_hash)
VALUES ($1, NULLIF($2, ''), $3, $4)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, strings.ToLower(u.Email), u.Name, role, u.PasswordHash))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id::text = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("user repo: scan", zap.Error(err))
		return nil, err
	}
	return &u, nil
}
