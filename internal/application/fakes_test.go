package application

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
)

// memStore backs every fake repository so one fake transaction can roll them all back.
type memStore struct {
	accounts     map[string]entity.Account
	profiles     map[string]entity.Profile
	people       map[string]entity.Person
	records      []entity.TemperatureRecord
	roles        map[string]entity.Role
	accountRoles map[string][]string
	direct       map[string][]string

	failProfileCreate bool
	listErr           error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     map[string]entity.Account{},
		profiles:     map[string]entity.Profile{},
		people:       map[string]entity.Person{},
		roles:        map[string]entity.Role{},
		accountRoles: map[string][]string{},
		direct:       map[string][]string{},
	}
}

type memTx struct{ s *memStore }

func (m memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	accounts, profiles, roles := maps.Clone(m.s.accounts), maps.Clone(m.s.profiles), maps.Clone(m.s.roles)
	if err := fn(ctx); err != nil {
		m.s.accounts, m.s.profiles, m.s.roles = accounts, profiles, roles
		return err
	}
	return nil
}

type accountRepo struct{ s *memStore }

func (r accountRepo) Create(_ context.Context, a *entity.Account) error {
	for _, x := range r.s.accounts {
		if x.Username == a.Username || strings.EqualFold(x.Email, a.Email) {
			return repo.ErrConflict
		}
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r accountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (r accountRepo) find(match func(entity.Account) bool) (*entity.Account, error) {
	for _, a := range r.s.accounts {
		if match(a) {
			return &a, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r accountRepo) GetByUsername(_ context.Context, username string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.Username == username })
}

func (r accountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r accountRepo) Update(_ context.Context, a *entity.Account) error {
	if _, ok := r.s.accounts[a.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r accountRepo) UpdatePassword(_ context.Context, id, hash string) error {
	a, ok := r.s.accounts[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.PasswordHash = hash
	r.s.accounts[id] = a
	return nil
}

func (r accountRepo) SetVerified(_ context.Context, id string) error {
	a, ok := r.s.accounts[id]
	if !ok {
		return repo.ErrNotFound
	}
	a.IsVerified = true
	r.s.accounts[id] = a
	return nil
}

func (r accountRepo) List(_ context.Context) ([]entity.Account, error) {
	out := make([]entity.Account, 0, len(r.s.accounts))
	for _, v := range r.s.accounts {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type profileRepo struct{ s *memStore }

func (r profileRepo) Create(_ context.Context, p *entity.Profile) error {
	if r.s.failProfileCreate {
		return errors.New("profile insert failed")
	}
	if _, ok := r.s.profiles[p.AccountID]; ok {
		return repo.ErrConflict
	}
	r.s.profiles[p.AccountID] = *p
	return nil
}

func (r profileRepo) GetByAccountID(_ context.Context, id string) (*entity.Profile, error) {
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (r profileRepo) Update(_ context.Context, p *entity.Profile) error {
	if _, ok := r.s.profiles[p.AccountID]; !ok {
		return repo.ErrNotFound
	}
	r.s.profiles[p.AccountID] = *p
	return nil
}

type personRepo struct{ s *memStore }

func (r personRepo) Create(_ context.Context, p *entity.Person) error {
	if _, ok := r.s.people[p.Username]; ok {
		return repo.ErrConflict
	}
	r.s.people[p.Username] = *p
	return nil
}

func (r personRepo) GetByUsername(_ context.Context, username string) (*entity.Person, error) {
	p, ok := r.s.people[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (r personRepo) List(_ context.Context) ([]entity.Person, error) {
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}
	out := make([]entity.Person, 0, len(r.s.people))
	for _, v := range r.s.people {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type recordRepo struct{ s *memStore }

func (r recordRepo) Create(_ context.Context, rec *entity.TemperatureRecord) error {
	r.s.records = append(r.s.records, *rec)
	return nil
}

// List returns records newest first like the SQL implementation.
func (r recordRepo) List(_ context.Context) ([]entity.TemperatureRecord, error) {
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}
	out := slices.Clone(r.s.records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type roleRepo struct{ s *memStore }

func (r roleRepo) Create(_ context.Context, role *entity.Role) error {
	if _, ok := r.s.roles[role.Name]; ok {
		return repo.ErrConflict
	}
	r.s.roles[role.Name] = *role
	return nil
}

func (r roleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	role, ok := r.s.roles[name]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &role, nil
}

func (r roleRepo) AssignToAccount(_ context.Context, accountID, roleID string) error {
	if !slices.Contains(r.s.accountRoles[accountID], roleID) {
		r.s.accountRoles[accountID] = append(r.s.accountRoles[accountID], roleID)
	}
	return nil
}

func (r roleRepo) PermissionsForAccount(_ context.Context, accountID string) ([]string, error) {
	set := map[string]bool{}
	for _, code := range r.s.direct[accountID] {
		set[code] = true
	}
	for _, roleID := range r.s.accountRoles[accountID] {
		for _, role := range r.s.roles {
			if role.ID == roleID {
				for _, code := range role.Permissions {
					set[code] = true
				}
			}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

type fakePublisher struct {
	jobs []any
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.jobs = append(f.jobs, body)
	return nil
}

type fakeAvatars struct {
	path string
}

func (f *fakeAvatars) Upload(_ context.Context, objectPath, _ string, _ io.Reader) (string, error) {
	f.path = objectPath
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func person(username, fullName string, dob time.Time) entity.Person {
	return entity.Person{ID: "p-" + username, Username: username, FullName: fullName, Gender: "M", DOB: dob}
}

func record(p entity.Person, temp float64, at time.Time) entity.TemperatureRecord {
	return entity.TemperatureRecord{ID: "r-" + p.Username + at.Format("150405"), PersonID: p.ID, Person: &p, BodyTemperature: temp, CreatedAt: at}
}
