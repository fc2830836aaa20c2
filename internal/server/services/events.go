package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/dbx"
	"github.com/dmitrijs2005/eventaura/internal/server/auth"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eventaura/internal/timex"
	"github.com/google/uuid"
)

// EventInput carries the editable event fields as received from clients.
// DateTime is RFC 3339 or a local "2006-01-02T15:04" value.
type EventInput struct {
	Title       string
	DateTime    string
	Location    string
	Description string
}

// EventView is an event annotated for a particular caller.
type EventView struct {
	*models.Event
	Joined bool
}

type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewEventService(db *sql.DB, m repomanager.RepositoryManager) *EventService {
	return &EventService{db: db, repomanager: m, now: time.Now}
}

// AddEvent creates an event owned by identity's name with an empty
// attendee set.
func (s *EventService) AddEvent(ctx context.Context, identity auth.Identity, in EventInput) (*models.Event, error) {
	ev, err := s.toEvent(in)
	if err != nil {
		return nil, err
	}
	ev.OwnerName = identity.Name

	created, err := s.repomanager.Events(s.db).Create(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	return created, nil
}

// ListEvents returns events matching search (case-insensitive title
// substring) and window, newest first, each marked with whether identity
// has joined it.
func (s *EventService) ListEvents(ctx context.Context, identity auth.Identity, search string, window DateWindow) ([]EventView, error) {
	filter := models.EventFilter{TitleContains: search}
	if from, to, ok := window.Bounds(s.now()); ok {
		filter.From, filter.To = from, to
	}

	events, err := s.repomanager.Events(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		views = append(views, EventView{Event: ev, Joined: ev.HasAttendee(identity.UserID)})
	}
	return views, nil
}

// ListMyEvents returns the events created under identity's name, newest first.
func (s *EventService) ListMyEvents(ctx context.Context, identity auth.Identity) ([]*models.Event, error) {
	events, err := s.repomanager.Events(s.db).List(ctx, models.EventFilter{OwnerName: identity.Name})
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return events, nil
}

// ListFeaturedUpcoming returns the soonest events not yet started.
func (s *EventService) ListFeaturedUpcoming(ctx context.Context) ([]*models.Event, error) {
	events, err := s.repomanager.Events(s.db).List(ctx, models.EventFilter{
		From:      s.now(),
		Ascending: true,
		Limit:     common.FeaturedEventsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return events, nil
}

// JoinEvent adds identity to the event's attendees. The insert is a single
// conditional statement, so of several concurrent joins by the same user
// exactly one succeeds and the rest get common.ErrAlreadyJoined.
func (s *EventService) JoinEvent(ctx context.Context, identity auth.Identity, eventID string) error {
	if !validID(eventID) {
		return common.ErrorNotFound
	}

	repo := s.repomanager.Events(s.db)

	added, err := repo.AddAttendee(ctx, eventID, identity.UserID)
	if err != nil {
		return fmt.Errorf("error joining event: %w", err)
	}
	if added {
		return nil
	}

	exists, err := repo.Exists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("error joining event: %w", err)
	}
	if !exists {
		return common.ErrorNotFound
	}
	return common.ErrAlreadyJoined
}

// UpdateEvent overwrites the event's fields if identity owns it. Missing
// and foreign events are both common.ErrNotFoundOrUnauthorized.
func (s *EventService) UpdateEvent(ctx context.Context, identity auth.Identity, eventID string, in EventInput) error {
	ev, err := s.toEvent(in)
	if err != nil {
		return err
	}
	if !validID(eventID) {
		return common.ErrNotFoundOrUnauthorized
	}
	ev.ID = eventID
	ev.OwnerName = identity.Name

	ok, err := s.repomanager.Events(s.db).UpdateOwned(ctx, ev)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if !ok {
		return common.ErrNotFoundOrUnauthorized
	}
	return nil
}

// DeleteEvent removes the event and its attendees if identity owns it.
func (s *EventService) DeleteEvent(ctx context.Context, identity auth.Identity, eventID string) error {
	if !validID(eventID) {
		return common.ErrNotFoundOrUnauthorized
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)

		ok, err := repo.DeleteOwned(ctx, eventID, identity.Name)
		if err != nil {
			return fmt.Errorf("error deleting event: %w", err)
		}
		if !ok {
			return common.ErrNotFoundOrUnauthorized
		}
		return repo.RemoveAttendees(ctx, eventID)
	})
}

func (s *EventService) toEvent(in EventInput) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if strings.TrimSpace(in.DateTime) == "" {
		return nil, fmt.Errorf("%w: dateTime is required", common.ErrValidation)
	}
	at, err := timex.ParseDateTime(in.DateTime, s.now().Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return &models.Event{
		Title:       in.Title,
		DateTime:    at,
		Location:    in.Location,
		Description: in.Description,
	}, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
