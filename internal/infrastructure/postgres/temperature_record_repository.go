package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/internal/domain/repository"
)

type TemperatureRecordRepository struct {
	pool *pgxpool.Pool
}

func NewTemperatureRecordRepository(pool *pgxpool.Pool) *TemperatureRecordRepository {
	return &TemperatureRecordRepository{pool: pool}
}

func (r *TemperatureRecordRepository) Create(ctx context.Context, rec *entity.TemperatureRecord) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO temperature_records (id, person_id, body_temperature, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.PersonID, rec.BodyTemperature, rec.CreatedBy, rec.CreatedAt)
	return mapErr(err)
}

func (r *TemperatureRecordRepository) List(ctx context.Context) ([]entity.TemperatureRecord, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT t.id, t.person_id, t.body_temperature, t.created_by, t.created_at,
			p.id, p.username, p.full_name, p.gender, p.dob, p.created_by, p.created_at, p.last_modified
		FROM temperature_records t
		JOIN people p ON p.id = t.person_id
		ORDER BY t.created_at DESC, t.id DESC
	`)
	if err != nil {
		return nil, mapErr(err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.TemperatureRecord, error) {
		var (
			rec entity.TemperatureRecord
			p   entity.Person
		)
		err := row.Scan(&rec.ID, &rec.PersonID, &rec.BodyTemperature, &rec.CreatedBy, &rec.CreatedAt,
			&p.ID, &p.Username, &p.FullName, &p.Gender, &p.DOB, &p.CreatedBy, &p.CreatedAt, &p.LastModified)
		rec.Person = &p
		return rec, err
	})
}

var _ repository.TemperatureRecordRepository = (*TemperatureRecordRepository)(nil)
