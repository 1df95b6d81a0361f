package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// Create inserts the role and its permissions. Callers wrap it in a transaction.
func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx, `
		INSERT INTO roles (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)
	`, role.ID, role.Name, role.CreatedAt, role.UpdatedAt); err != nil {
		return mapErr(err)
	}
	for _, code := range role.Permissions {
		if _, err := q.Exec(ctx, `
			INSERT INTO role_permissions (role_id, codename) VALUES ($1, $2)
			ON CONFLICT (role_id, codename) DO NOTHING
		`, role.ID, code); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	role := &entity.Role{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT r.id, r.name, r.created_at, r.updated_at,
			COALESCE(array_agg(rp.codename ORDER BY rp.codename) FILTER (WHERE rp.codename IS NOT NULL), '{}')
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		WHERE r.name = $1
		GROUP BY r.id
	`, name).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt, &role.Permissions)
	if err != nil {
		return nil, mapErr(err)
	}
	return role, nil
}

func (r *RoleRepository) AssignToAccount(ctx context.Context, accountID, roleID string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)
		ON CONFLICT (account_id, role_id) DO NOTHING
	`, accountID, roleID)
	return mapErr(err)
}

func (r *RoleRepository) PermissionsForAccount(ctx context.Context, accountID string) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT codename FROM account_permissions WHERE account_id = $1
		UNION
		SELECT rp.codename
		FROM account_roles ar
		JOIN role_permissions rp ON rp.role_id = ar.role_id
		WHERE ar.account_id = $1
		ORDER BY 1
	`, accountID)
	if err != nil {
		return nil, mapErr(err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
