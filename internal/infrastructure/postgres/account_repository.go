package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/domain/repository"
)

const accountColumns = `id, username, email, password_hash, first_name, last_name, phone_number,
	avatar_url, is_staff, is_superuser, is_active, is_verified, date_joined, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.PhoneNumber, &a.AvatarURL, &a.IsStaff, &a.IsSuperuser, &a.IsActive, &a.IsVerified,
		&a.DateJoined, &a.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, first_name, last_name, phone_number,
			avatar_url, is_staff, is_superuser, is_active, is_verified, date_joined, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, a.ID, a.Username, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.PhoneNumber,
		a.AvatarURL, a.IsStaff, a.IsSuperuser, a.IsActive, a.IsVerified, a.DateJoined, a.UpdatedAt)
	return mapErr(err)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return scanAccount(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email))
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()

	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE accounts
		SET email = $1, first_name = $2, last_name = $3, phone_number = $4, avatar_url = $5,
			is_staff = $6, is_superuser = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`, a.Email, a.FirstName, a.LastName, a.PhoneNumber, a.AvatarURL,
		a.IsStaff, a.IsSuperuser, a.IsActive, a.UpdatedAt, a.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetVerified(ctx context.Context, id string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `UPDATE accounts SET is_verified = true, updated_at = now() WHERE id = $1`, id)
	return mapErr(err)
}

func (r *AccountRepository) List(ctx context.Context) ([]entity.Account, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY username`)
	if err != nil {
		return nil, mapErr(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Account, error) {
		a, err := scanAccount(row)
		if err != nil {
			return entity.Account{}, err
		}
		return *a, nil
	})
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
