package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijrafr/expat-services-api/internal/model"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at, last_login
		FROM admin_users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, adminID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET last_login = $1 WHERE id = $2`, time.Now().UTC(), adminID)
	return err
}

func (r *AdminRepository) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_sessions (token, admin_id, expires_at) VALUES ($1, $2, $3)`,
		s.Token, s.AdminID, s.ExpiresAt)
	return err
}

// FindSessionUser resolves a live session token to its admin user.
func (r *AdminRepository) FindSessionUser(ctx context.Context, token string) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.email, u.name, u.password_hash, u.role, u.created_at, u.last_login
		FROM admin_sessions s JOIN admin_users u ON u.id = s.admin_id
		WHERE s.token = $1 AND s.expires_at > now()`, token).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *AdminRepository) DeleteSession(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *AdminRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
