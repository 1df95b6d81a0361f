package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
	"github.com/oksasatya/stands-ims/pkg/pagination"
)

const (
	MsgNoTemperatureRecords = "There are no temperature records yet!"
	MsgNoPeople             = "There are no people yet!"
	MsgNoSearchResults      = "Your search didn't yield any results"
)

// ListQuery carries the raw q and page query parameters.
type ListQuery struct {
	Q    string
	Page string
}

// Listing is what a listing page renders. When Message is set the table is
// omitted and Columns is nil.
type Listing struct {
	Columns     []string `json:"columns,omitempty"`
	Rows        Rows     `json:"rows"`
	Count       int      `json:"count"`
	Page        int      `json:"page"`
	NumPages    int      `json:"num_pages"`
	HasNext     bool     `json:"has_next"`
	HasPrevious bool     `json:"has_previous"`
	IsPaginated bool     `json:"is_paginated"`
	Query       string   `json:"q,omitempty"`
	Message     string   `json:"message,omitempty"`
}

type ListingService struct {
	Persons repo.PersonRepository
	Records repo.TemperatureRecordRepository
	Cfg     config.ListingConfig
	Now     func() time.Time
}

func NewListingService(people repo.PersonRepository, records repo.TemperatureRecordRepository, cfg config.ListingConfig) *ListingService {
	return &ListingService{Persons: people, Records: records, Cfg: cfg, Now: time.Now}
}

func (s *ListingService) TemperatureRecords(ctx context.Context, q ListQuery) (Listing, error) {
	records, err := s.Records.List(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list temperature records: %w", err)
	}
	return AssembleTemperatureRecords(records, q, s.Cfg), nil
}

func (s *ListingService) People(ctx context.Context, q ListQuery) (Listing, error) {
	people, err := s.Persons.List(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list people: %w", err)
	}
	return AssemblePeople(people, q, s.Cfg, s.AsOf()), nil
}

// AsOf is the current time in the listing time zone; ages are computed against it.
func (s *ListingService) AsOf() time.Time {
	loc := s.Cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return s.Now().In(loc)
}

// AssembleTemperatureRecords filters, paginates and formats records.
func AssembleTemperatureRecords(records []entity.TemperatureRecord, q ListQuery, cfg config.ListingConfig) Listing {
	return assemble(records, q, cfg.PageSize, FilterRecords, func(page []entity.TemperatureRecord) Rows {
		return FormatTemperatureRows(page, cfg.Location)
	}, TemperatureColumns, MsgNoTemperatureRecords)
}

// AssemblePeople filters, paginates and formats people with ages taken on asOf.
func AssemblePeople(people []entity.Person, q ListQuery, cfg config.ListingConfig, asOf time.Time) Listing {
	return assemble(people, q, cfg.PageSize, FilterPeople, func(page []entity.Person) Rows {
		return FormatPeopleRows(page, asOf, cfg.AdultAge)
	}, PeopleColumns, MsgNoPeople)
}

func assemble[T any](
	items []T,
	q ListQuery,
	pageSize int,
	filter func([]T, string) []T,
	format func([]T) Rows,
	columns []string,
	emptyMsg string,
) Listing {
	query := strings.TrimSpace(q.Q)
	searching := query != ""
	filtered := filter(items, q.Q)
	page := pagination.Paginate(filtered, pageSize, pagination.ParsePage(q.Page))

	l := Listing{
		Rows:        format(page.Items),
		Count:       page.Count,
		Page:        page.Number,
		NumPages:    page.NumPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
		IsPaginated: page.HasOtherPages,
		Query:       query,
	}
	switch {
	case page.Count > 0:
		l.Columns = columns
	case searching:
		l.Message = MsgNoSearchResults
	default:
		l.Message = emptyMsg
	}
	return l
}
