package repository

import (
	"context"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
)

type PersonRepository interface {
	Create(ctx context.Context, p *entity.Person) error
	GetByUsername(ctx context.Context, username string) (*entity.Person, error)
	// List returns every person ordered by username.
	List(ctx context.Context) ([]entity.Person, error)
}

type TemperatureRecordRepository interface {
	Create(ctx context.Context, r *entity.TemperatureRecord) error
	// List returns every record, newest first, with Person populated.
	List(ctx context.Context) ([]entity.TemperatureRecord, error)
}
