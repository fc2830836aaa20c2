package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/cryptox"
	"github.com/dmitrijs2005/eventaura/internal/dbx"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	eventsrepo "github.com/dmitrijs2005/eventaura/internal/server/repositories/events"
	usersrepo "github.com/dmitrijs2005/eventaura/internal/server/repositories/users"
)

var testParams = cryptox.Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "user-" + u.Email
	u.CreatedAt = time.Now()
	cp := *u
	f.byEmail[u.Email] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeEventsRepo struct {
	eventsrepo.Repository

	listFilter models.EventFilter
	listOut    []*models.Event
	listErr    error

	added     bool
	exists    bool
	updated   bool
	updateArg *models.Event
	repoErr   error
}

func (f *fakeEventsRepo) Create(ctx context.Context, ev *models.Event) (*models.Event, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	ev.ID = "e1"
	ev.Attendees = []string{}
	return ev, nil
}

func (f *fakeEventsRepo) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	f.listFilter = filter
	return f.listOut, f.listErr
}

func (f *fakeEventsRepo) AddAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	return f.added, f.repoErr
}

func (f *fakeEventsRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.exists, nil
}

func (f *fakeEventsRepo) UpdateOwned(ctx context.Context, ev *models.Event) (bool, error) {
	f.updateArg = ev
	return f.updated, f.repoErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	e *fakeEventsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Events(db dbx.DBTX) eventsrepo.Repository    { return m.e }

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func (f *fakeRevocations) MarkRevoked(ctx context.Context, id string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[id] = exp
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[id]
	return ok, nil
}
