package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO profiles (account_id, full_name, dob, gender, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5)
	`, p.AccountID, p.FullName, p.DOB, p.Gender, p.UpdatedAt)
	return mapErr(err)
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT account_id, COALESCE(full_name, ''), dob, COALESCE(gender, ''), updated_at
		FROM profiles
		WHERE account_id = $1
	`, accountID).Scan(&p.AccountID, &p.FullName, &p.DOB, &p.Gender, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE profiles
		SET full_name = NULLIF($1, ''), dob = $2, gender = NULLIF($3, ''), updated_at = $4
		WHERE account_id = $5
	`, p.FullName, p.DOB, p.Gender, p.UpdatedAt, p.AccountID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
