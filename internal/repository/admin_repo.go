package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type postgresAdminRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresAdminRepository(db *sql.DB, logger *logrus.Logger) domain.AdminRepository {
	return &postgresAdminRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresAdminRepository) CreateAdmin(user *domain.AdminUser) (*domain.AdminUser, error) {
	query := `
        INSERT INTO admin_users (username, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := r.db.QueryRow(query, user.Username, user.PasswordHash, user.Role).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create admin with duplicate username: %s", user.Username)
			return nil, fmt.Errorf("admin '%s' %w", user.Username, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to create admin '%s': %v", user.Username, err)
		return nil, fmt.Errorf("could not create admin user: %w", err)
	}

	r.log.Infof("Repository: Admin user created with ID: %d, Username: %s", user.ID, user.Username)
	return user, nil
}

func (r *postgresAdminRepository) GetAdminByUsername(username string) (*domain.AdminUser, error) {
	query := `
        SELECT id, username, password_hash, role
        FROM admin_users
        WHERE username = $1`
	user := &domain.AdminUser{}

	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("Repository: Admin user %s not found", username)
			return nil, fmt.Errorf("admin '%s' %w", username, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get admin by username %s: %v", username, err)
		return nil, fmt.Errorf("could not get admin user: %w", err)
	}

	return user, nil
}

func (r *postgresAdminRepository) GetAdminByID(id int) (*domain.AdminUser, error) {
	query := `
        SELECT id, username, password_hash, role
        FROM admin_users
        WHERE id = $1`
	user := &domain.AdminUser{}

	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("Repository: Admin user %d not found", id)
			return nil, fmt.Errorf("admin %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get admin by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get admin user: %w", err)
	}

	return user, nil
}
