package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/pagination"
)

// Principal is the authenticated caller as seen by permission checks.
type Principal struct {
	AccountID   string
	IsSuperuser bool
}

// AccountSummary is the admin view of an account.
type AccountSummary struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	IsActive    bool      `json:"is_active"`
	DateJoined  time.Time `json:"date_joined"`
}

type PermissionService struct {
	Accounts repo.AccountRepository
	Roles    repo.RoleRepository
	Tx       repo.TxManager
	Redis    *redis.Client // optional cache
	CacheTTL time.Duration
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func NewPermissionService(accounts repo.AccountRepository, roles repo.RoleRepository, tx repo.TxManager, rdb *redis.Client, cacheTTL time.Duration, logger logrus.FieldLogger) *PermissionService {
	return &PermissionService{Accounts: accounts, Roles: roles, Tx: tx, Redis: rdb, CacheTTL: cacheTTL, Logger: logger, Now: time.Now}
}

// HasPermission reports whether p holds code. Superusers hold every permission;
// staff status grants nothing by itself.
func (s *PermissionService) HasPermission(ctx context.Context, p Principal, code string) (bool, error) {
	if p.IsSuperuser {
		return true, nil
	}
	perms, err := s.Permissions(ctx, p.AccountID)
	if err != nil {
		return false, err
	}
	return slices.Contains(perms, code), nil
}

// Permissions returns the union of direct and role permissions, cached per account.
func (s *PermissionService) Permissions(ctx context.Context, accountID string) ([]string, error) {
	key := helpers.KeyPermissions(accountID)
	if s.Redis != nil {
		var cached []string
		found, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached)
		if err == nil && found {
			return cached, nil
		}
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("permission cache read failed")
		}
	}

	perms, err := s.Roles.PermissionsForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	if perms == nil {
		perms = []string{}
	}
	if s.Redis != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, perms, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("permission cache write failed")
		}
	}
	return perms, nil
}

func (s *PermissionService) invalidate(ctx context.Context, accountID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.KeyPermissions(accountID)); err != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("permission cache invalidate failed")
	}
}

func (s *PermissionService) ListAccounts(ctx context.Context, page string, perPage int) (pagination.Page[AccountSummary], error) {
	accounts, err := s.Accounts.List(ctx)
	if err != nil {
		return pagination.Page[AccountSummary]{}, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountSummary{
			ID:          a.ID,
			Username:    a.Username,
			Email:       a.Email,
			PhoneNumber: a.PhoneNumber,
			IsStaff:     a.IsStaff,
			IsSuperuser: a.IsSuperuser,
			IsActive:    a.IsActive,
			DateJoined:  a.DateJoined,
		})
	}
	return pagination.Paginate(out, perPage, pagination.ParsePage(page)), nil
}

// CreateRole stores a named role with the given permission codenames.
func (s *PermissionService) CreateRole(ctx context.Context, name string, perms []string) (*entity.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &entity.ValidationError{Fields: map[string]string{"name": "is required"}}
	}
	for _, code := range perms {
		if !entity.IsKnownPermission(code) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, code)
		}
	}
	now := s.Now()
	role := &entity.Role{ID: uuid.NewString(), Name: name, Permissions: perms, CreatedAt: now, UpdatedAt: now}

	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.Roles.Create(ctx, role)
	})
	if errors.Is(err, repo.ErrConflict) {
		return nil, ErrRoleExists
	}
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

// AssignRole adds the account named username to roleName.
func (s *PermissionService) AssignRole(ctx context.Context, username, roleName string) error {
	a, err := s.Accounts.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	role, err := s.Roles.GetByName(ctx, roleName)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRoleNotFound
	}
	if err != nil {
		return fmt.Errorf("get role: %w", err)
	}
	if err := s.Roles.AssignToAccount(ctx, a.ID, role.ID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	s.invalidate(ctx, a.ID)
	return nil
}

// SetStaff toggles the staff flag of the account named username.
func (s *PermissionService) SetStaff(ctx context.Context, username string, staff bool) (*entity.Account, error) {
	a, err := s.Accounts.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.IsStaff = staff
	a.UpdatedAt = s.Now()
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	s.invalidate(ctx, a.ID)
	return a, nil
}
