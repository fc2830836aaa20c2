// Package events persists events and their attendee sets.
//
// The attendee set lives in event_attendees keyed by (event_id, user_id), so
// membership is unique by construction and the attendee count is always the
// size of the set.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/dbx"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/google/uuid"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query :=
		`INSERT INTO events (id, title, title_folded, owner_name, date_time, location, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	event.ID = uuid.NewString()
	event.DateTime = normalize(event.DateTime)
	event.CreatedAt = normalize(time.Now())
	event.Attendees = []string{}

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, foldTitle(event.Title), event.OwnerName, event.DateTime, event.Location, event.Description, event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return event, nil
}

// List returns events matching filter together with their attendee sets.
// Ordering is by date-time (descending unless filter.Ascending), ties by id.
func (r *SQLRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TitleContains != "" {
		where = append(where, `title_folded LIKE `+arg("%"+escapeLike(foldTitle(filter.TitleContains))+"%")+` ESCAPE '\'`)
	}
	if filter.OwnerName != "" {
		where = append(where, "owner_name = "+arg(filter.OwnerName))
	}
	if !filter.From.IsZero() {
		where = append(where, "date_time >= "+arg(normalize(filter.From)))
	}
	if !filter.To.IsZero() {
		where = append(where, "date_time <= "+arg(normalize(filter.To)))
	}

	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	var inner strings.Builder
	inner.WriteString("SELECT id, title, owner_name, date_time, location, description, created_at FROM events")
	if len(where) > 0 {
		inner.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	inner.WriteString(" ORDER BY date_time " + direction + ", id")
	if filter.Limit > 0 {
		inner.WriteString(" LIMIT " + arg(filter.Limit))
	}

	query := `SELECT e.id, e.title, e.owner_name, e.date_time, e.location, e.description, e.created_at, a.user_id
		FROM (` + inner.String() + `) e
		LEFT JOIN event_attendees a ON a.event_id = e.id
		ORDER BY e.date_time ` + direction + `, e.id, a.joined_at, a.user_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	result := []*models.Event{}
	var current *models.Event
	for rows.Next() {
		var (
			item              models.Event
			dateTime, created dbx.Timestamp
			attendee          sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.OwnerName, &dateTime,
			&item.Location, &item.Description, &created, &attendee); err != nil {
			return nil, err
		}
		item.DateTime, item.CreatedAt = dateTime.UTC(), created.UTC()
		if current == nil || current.ID != item.ID {
			item.Attendees = []string{}
			current = &item
			result = append(result, current)
		}
		if attendee.Valid {
			current.Attendees = append(current.Attendees, attendee.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// AddAttendee adds userID to the event's attendee set in a single statement.
// It reports false when nothing was inserted: either the event does not exist
// or userID is already a member. Concurrent calls for the same pair are
// serialised by the primary key, so at most one of them reports true.
func (r *SQLRepository) AddAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	query :=
		`INSERT INTO event_attendees (event_id, user_id)
		 SELECT id, CAST($2 AS TEXT) FROM events WHERE id = $1
		 ON CONFLICT (event_id, user_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

// UpdateOwned overwrites the editable fields of event, matching on both id
// and owner name. It reports false when no row matched.
func (r *SQLRepository) UpdateOwned(ctx context.Context, event *models.Event) (bool, error) {
	query :=
		`UPDATE events SET title = $1, title_folded = $2, date_time = $3, location = $4, description = $5
		 WHERE id = $6 AND owner_name = $7`

	res, err := r.db.ExecContext(ctx, query,
		event.Title, foldTitle(event.Title), normalize(event.DateTime), event.Location, event.Description, event.ID, event.OwnerName)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

// DeleteOwned removes the event matching both id and owner name.
func (r *SQLRepository) DeleteOwned(ctx context.Context, id, ownerName string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND owner_name = $2`, id, ownerName)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

// RemoveAttendees clears the attendee set of an event. Needed where the
// store does not enforce the cascading foreign key.
func (r *SQLRepository) RemoveAttendees(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// normalize stores instants as UTC milliseconds so that textual comparison
// in sqlite agrees with chronological order.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// foldTitle produces the title_folded search key. sqlite's LOWER folds ASCII
// only, so titles are folded before they reach the store.
func foldTitle(s string) string {
	return strings.ToLower(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
