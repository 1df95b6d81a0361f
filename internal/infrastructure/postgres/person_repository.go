package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/domain/repository"
)

const personColumns = `id, username, full_name, gender, dob, created_by, created_at, last_modified`

type PersonRepository struct {
	pool *pgxpool.Pool
}

func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

func (r *PersonRepository) Create(ctx context.Context, p *entity.Person) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO people (`+personColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Username, p.FullName, p.Gender, p.DOB, p.CreatedBy, p.CreatedAt, p.LastModified)
	return mapErr(err)
}

func (r *PersonRepository) GetByUsername(ctx context.Context, username string) (*entity.Person, error) {
	p := &entity.Person{}
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+personColumns+` FROM people WHERE username = $1`, username).
		Scan(&p.ID, &p.Username, &p.FullName, &p.Gender, &p.DOB, &p.CreatedBy, &p.CreatedAt, &p.LastModified)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *PersonRepository) List(ctx context.Context) ([]entity.Person, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+personColumns+` FROM people ORDER BY username`)
	if err != nil {
		return nil, mapErr(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Person, error) {
		var p entity.Person
		err := row.Scan(&p.ID, &p.Username, &p.FullName, &p.Gender, &p.DOB, &p.CreatedBy, &p.CreatedAt, &p.LastModified)
		return p, err
	})
}

var _ repository.PersonRepository = (*PersonRepository)(nil)
