package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// RoleRepository handles role persistence and role assignment.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	AssignRole(ctx context.Context, identityID, roleName string) error
	GetRoles(ctx context.Context, identityID string) ([]string, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (name)
        VALUES ($1)
        ON CONFLICT (name) DO NOTHING
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, role.Name).Scan(&role.ID, &role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returns no row when the role exists.
		return nil
	}
	return err
}

func (r *roleRepository) AssignRole(ctx context.Context, identityID, roleName string) error {
	const query = `
        INSERT INTO identity_roles (identity_id, role_id)
        SELECT $1, id FROM roles WHERE name=$2
        ON CONFLICT DO NOTHING`

	cmd, err := r.pool.Exec(ctx, query, identityID, roleName)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return &UnknownRoleError{Name: roleName}
	}
	return nil
}

func (r *roleRepository) GetRoles(ctx context.Context, identityID string) ([]string, error) {
	const query = `
        SELECT r.name
        FROM roles r
        JOIN identity_roles ir ON ir.role_id = r.id
        WHERE ir.identity_id=$1
        ORDER BY r.name`

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// UnknownRoleError reports an assignment against a role that does not exist.
type UnknownRoleError struct {
	Name string
}

func (e *UnknownRoleError) Error() string {
	return "role does not exist: " + e.Name
}
