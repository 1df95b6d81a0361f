package repository

import (
	"context"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
)

type RoleRepository interface {
	Create(ctx context.Context, r *entity.Role) error
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	AssignToAccount(ctx context.Context, accountID, roleID string) error
	// PermissionsForAccount returns the union of direct and role permissions.
	PermissionsForAccount(ctx context.Context, accountID string) ([]string, error)
}
