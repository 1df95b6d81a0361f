package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
)

var recordsCreated = expvar.NewInt("temperature_records_created")

// RecordFormFields are the fields the create-record form accepts.
var RecordFormFields = []string{"body_temperature"}

type RecordService struct {
	People  repo.PersonRepository
	Records repo.TemperatureRecordRepository
	Bounds  config.TemperatureBounds
	Logger  logrus.FieldLogger
	Now     func() time.Time
}

func NewRecordService(people repo.PersonRepository, records repo.TemperatureRecordRepository, bounds config.TemperatureBounds, logger logrus.FieldLogger) *RecordService {
	return &RecordService{People: people, Records: records, Bounds: bounds, Logger: logger, Now: time.Now}
}

// PersonForForm loads the person a new record would be attached to.
func (s *RecordService) PersonForForm(ctx context.Context, username string) (*entity.Person, error) {
	p, err := s.People.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", username, err)
	}
	return p, nil
}

// Create stores a reading for the person with username. It returns ErrPersonNotFound
// or an *entity.ValidationError for out-of-range values.
func (s *RecordService) Create(ctx context.Context, actorID, username string, value float64) (*entity.TemperatureRecord, error) {
	p, err := s.PersonForForm(ctx, username)
	if err != nil {
		return nil, err
	}
	rec, err := entity.NewTemperatureRecord(p, value, s.Bounds.Min, s.Bounds.Max, actorID, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create temperature record: %w", err)
	}
	recordsCreated.Add(1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"person": p.Username, "record_id": rec.ID}).Info("temperature record created")
	}
	return rec, nil
}
