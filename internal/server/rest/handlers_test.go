package rest

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/logging"
	"github.com/dmitrijs2005/eventaura/internal/server/auth"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/dmitrijs2005/eventaura/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	UserService
	resolveErr error
	logoutErr  error
}

func (f *fakeUsers) ResolveIdentity(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, common.ErrUnauthenticated
	}
	return auth.Identity{UserID: "u1", Name: "alice"}, f.resolveErr
}

func (f *fakeUsers) Logout(ctx context.Context, token string) error { return f.logoutErr }

type fakeEvents struct {
	EventService
	err   error
	panic bool
}

func (f *fakeEvents) ListEvents(ctx context.Context, identity auth.Identity, search string, window services.DateWindow) ([]services.EventView, error) {
	if f.panic {
		panic("boom")
	}
	return nil, f.err
}

func (f *fakeEvents) ListFeaturedUpcoming(ctx context.Context) ([]*models.Event, error) {
	return nil, f.err
}

func (f *fakeEvents) JoinEvent(ctx context.Context, identity auth.Identity, eventID string) error {
	return f.err
}

type fakePhotos struct {
	out *services.PhotoUpload
	err error
}

func (f *fakePhotos) PresignUpload(ctx context.Context, contentType string) (*services.PhotoUpload, error) {
	return f.out, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func newFakeServer(t *testing.T, users *fakeUsers, events *fakeEvents, photos *fakePhotos, db fakePinger) *testServer {
	t.Helper()
	h := NewHandler(Deps{
		Users:  users,
		Events: events,
		Photos: photos,
		DB:     db,
		Logger: discardLogger(),
	})
	return &testServer{t: t, handler: NewRouter(h)}
}

var anyCookie = &http.Cookie{Name: "token", Value: "t"}

func TestStoreFailuresAreGeneric(t *testing.T) {
	events := &fakeEvents{err: errors.New("pq: connection refused to 10.0.0.5")}
	s := newFakeServer(t, &fakeUsers{}, events, &fakePhotos{}, fakePinger{})

	rec := s.do(http.MethodGet, "/events", nil, anyCookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch events", decode[map[string]string](t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")

	rec = s.do(http.MethodGet, "/featured-upcoming-events", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch upcoming events", decode[map[string]string](t, rec)["message"])

	rec = s.do(http.MethodPost, "/events/join/x", nil, anyCookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to join event", decode[map[string]string](t, rec)["message"])
}

func TestAuthMiddleware_StoreErrorIs500(t *testing.T) {
	users := &fakeUsers{resolveErr: errors.New("redis down")}
	s := newFakeServer(t, users, &fakeEvents{}, &fakePhotos{}, fakePinger{})

	rec := s.do(http.MethodGet, "/events", nil, anyCookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	h := NewHandler(Deps{
		Users:    &fakeUsers{},
		Events:   &fakeEvents{panic: true},
		Photos:   &fakePhotos{},
		DB:       fakePinger{},
		Logger:   logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		Registry: reg,
	})
	s := &testServer{t: t, handler: NewRouter(h)}

	rec := s.do(http.MethodGet, "/events", nil, anyCookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decode[map[string]string](t, rec)["message"])

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/events", "500")))
	assert.Contains(t, logs.String(), `"msg":"panic recovered"`)
	assert.Contains(t, logs.String(), `"msg":"http request completed"`)
	assert.Contains(t, logs.String(), `"status_code":500`)
}

func TestLogout_ClearsCookieEvenIfRevocationFails(t *testing.T) {
	s := newFakeServer(t, &fakeUsers{logoutErr: errors.New("redis down")}, &fakeEvents{}, &fakePhotos{}, fakePinger{})

	rec := s.do(http.MethodPost, "/logout", nil, anyCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "", rec.Result().Cookies()[0].Value)
}

func TestPresignPhoto(t *testing.T) {
	photos := &fakePhotos{out: &services.PhotoUpload{Key: "k", UploadURL: "http://up", PhotoURL: "http://photo"}}
	s := newFakeServer(t, &fakeUsers{}, &fakeEvents{}, photos, fakePinger{})

	rec := s.do(http.MethodPost, "/photos/presign", map[string]string{"contentType": "image/png"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"key": "k", "uploadURL": "http://up", "photoURL": "http://photo"},
		decode[map[string]string](t, rec))

	photos.err = errors.New("sign failed")
	rec = s.do(http.MethodPost, "/photos/presign", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz_StoreDown(t *testing.T) {
	s := newFakeServer(t, &fakeUsers{}, &fakeEvents{}, &fakePhotos{}, fakePinger{err: errors.New("down")})

	rec := s.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestID_Propagated(t *testing.T) {
	s := newFakeServer(t, &fakeUsers{}, &fakeEvents{}, &fakePhotos{}, fakePinger{})

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{common.ErrValidation, http.StatusBadRequest},
		{common.ErrDuplicateEmail, http.StatusConflict},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{common.ErrForbidden, http.StatusForbidden},
		{common.ErrAlreadyJoined, http.StatusBadRequest},
		{common.ErrNotFoundOrUnauthorized, http.StatusNotFound},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrStorageNotConfigured, http.StatusServiceUnavailable},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, _ := mapServiceError(tt.err, "fallback")
		assert.Equal(t, tt.code, code, "%v", tt.err)
	}
}
