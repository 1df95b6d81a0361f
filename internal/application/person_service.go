package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
)

// PersonHit is one people search result.
type PersonHit struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
}

// PersonIndex is the full-text index people are searched through.
type PersonIndex interface {
	Index(ctx context.Context, p *entity.Person) error
	Search(ctx context.Context, q string, size int) ([]PersonHit, error)
}

type PersonService struct {
	Repo   repo.PersonRepository
	Index  PersonIndex // optional
	Logger logrus.FieldLogger
	Loc    *time.Location // birth dates are checked against today in Loc
	Now    func() time.Time
}

func NewPersonService(r repo.PersonRepository, index PersonIndex, loc *time.Location, logger logrus.FieldLogger) *PersonService {
	if loc == nil {
		loc = time.UTC
	}
	return &PersonService{Repo: r, Index: index, Loc: loc, Logger: logger, Now: time.Now}
}

// Create validates in and stores a new person owned by actorID. Indexing is best-effort.
func (s *PersonService) Create(ctx context.Context, actorID string, in entity.PersonInput) (*entity.Person, error) {
	p, err := entity.NewPerson(in, actorID, s.Now().In(s.Loc))
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create person: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("person", p.Username).Warn("index person failed")
		}
	}
	return p, nil
}

func (s *PersonService) Get(ctx context.Context, username string) (*entity.Person, error) {
	p, err := s.Repo.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", username, err)
	}
	return p, nil
}

// Search queries the index. Without one it falls back to substring matching over
// the stored people.
func (s *PersonService) Search(ctx context.Context, q string, size int) ([]PersonHit, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.Index != nil {
		return s.Index.Search(ctx, q, size)
	}

	people, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	matched := FilterPeople(people, q)
	if len(matched) > size {
		matched = matched[:size]
	}
	hits := make([]PersonHit, 0, len(matched))
	for _, p := range matched {
		hits = append(hits, PersonHit{ID: p.ID, Username: p.Username, FullName: p.FullName, Gender: p.Gender})
	}
	return hits, nil
}
