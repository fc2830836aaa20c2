package events_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/events"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) (*sql.DB, events.Repository) {
	t.Helper()
	db, m, err := repomanager.Open(context.Background(), "sqlite:file:"+filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, m.Events(db)
}

func TestSQLite_ListOrderAndWindow(t *testing.T) {
	ctx := context.Background()
	_, repo := openSQLite(t)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"Early", "Middle", "Late"} {
		_, err := repo.Create(ctx, &models.Event{Title: title, OwnerName: "alice", DateTime: base.Add(time.Duration(i) * 24 * time.Hour)})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Event{Title: "Other", OwnerName: "bob", DateTime: base.Add(-30 * 24 * time.Hour)})
	require.NoError(t, err)

	all, err := repo.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Late", all[0].Title)
	assert.Equal(t, "Other", all[3].Title)

	window, err := repo.List(ctx, models.EventFilter{From: base, To: base.Add(24 * time.Hour), Ascending: true})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "Early", window[0].Title)
	assert.True(t, window[0].DateTime.Equal(base))

	mine, err := repo.List(ctx, models.EventFilter{OwnerName: "bob"})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	search, err := repo.List(ctx, models.EventFilter{TitleContains: "mid"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Middle", search[0].Title)

	limited, err := repo.List(ctx, models.EventFilter{Ascending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "Other", limited[0].Title)
}

func TestSQLite_TitleSearchFoldsUnicode(t *testing.T) {
	ctx := context.Background()
	_, repo := openSQLite(t)

	ev, err := repo.Create(ctx, &models.Event{Title: "Café Ünique Meetup", OwnerName: "alice", DateTime: time.Now()})
	require.NoError(t, err)

	for _, q := range []string{"café", "CAFÉ", "MEETUP", "ünique", "ÜNIQUE", "é ü"} {
		got, err := repo.List(ctx, models.EventFilter{TitleContains: q})
		require.NoError(t, err)
		assert.Len(t, got, 1, "search %q", q)
	}

	ev.Title = "Ærø Ōsaka"
	ok, err := repo.UpdateOwned(ctx, ev)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.List(ctx, models.EventFilter{TitleContains: "ærø ō"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ærø Ōsaka", got[0].Title)

	got, err = repo.List(ctx, models.EventFilter{TitleContains: "ünique"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_JoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, repo := openSQLite(t)

	ev, err := repo.Create(ctx, &models.Event{Title: "Party", OwnerName: "alice", DateTime: time.Now()})
	require.NoError(t, err)

	ok, err := repo.AddAttendee(ctx, ev.ID, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AddAttendee(ctx, ev.ID, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.AddAttendee(ctx, "missing", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := repo.Exists(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	list, err := repo.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"u1"}, list[0].Attendees)
	assert.Equal(t, 1, list[0].AttendeeCount())
}

func TestSQLite_ConcurrentJoinSameUser(t *testing.T) {
	ctx := context.Background()
	_, repo := openSQLite(t)

	ev, err := repo.Create(ctx, &models.Event{Title: "Rush", OwnerName: "alice", DateTime: time.Now()})
	require.NoError(t, err)

	const n = 8
	var (
		wg    sync.WaitGroup
		added atomic.Int32
		errs  = make(chan error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.AddAttendee(ctx, ev.ID, "u1")
			if err != nil {
				errs <- err
				return
			}
			if ok {
				added.Add(1)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), added.Load())

	list, err := repo.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].AttendeeCount())
}

func TestSQLite_OwnedUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	_, repo := openSQLite(t)

	ev, err := repo.Create(ctx, &models.Event{Title: "Mine", OwnerName: "alice", DateTime: time.Now()})
	require.NoError(t, err)
	_, err = repo.AddAttendee(ctx, ev.ID, "u2")
	require.NoError(t, err)

	ok, err := repo.UpdateOwned(ctx, &models.Event{ID: ev.ID, OwnerName: "bob", Title: "Hijack", DateTime: ev.DateTime})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateOwned(ctx, &models.Event{ID: ev.ID, OwnerName: "alice", Title: "Renamed", DateTime: ev.DateTime})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteOwned(ctx, ev.ID, "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteOwned(ctx, ev.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, repo.RemoveAttendees(ctx, ev.ID))

	list, err := repo.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
