package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/dmitrijs2005/eventaura/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const dateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type eventRequest struct {
	Title       string `json:"title"`
	DateTime    string `json:"dateTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
	// accepted for compatibility; the count is derived from attendees
	AttendeeCount *int `json:"attendeeCount,omitempty"`
}

func (req eventRequest) input() services.EventInput {
	return services.EventInput{
		Title:       req.Title,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Description: req.Description,
	}
}

type eventResponse struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Name          string   `json:"name"`
	DateTime      string   `json:"dateTime"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	AttendeeCount int      `json:"attendeeCount"`
	Attendees     []string `json:"attendees"`
	Joined        *bool    `json:"joined,omitempty"`
}

func toEventResponse(ev *models.Event) eventResponse {
	attendees := ev.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventResponse{
		ID:            ev.ID,
		Title:         ev.Title,
		Name:          ev.OwnerName,
		DateTime:      ev.DateTime.UTC().Format(dateTimeLayout),
		Location:      ev.Location,
		Description:   ev.Description,
		AttendeeCount: ev.AttendeeCount(),
		Attendees:     attendees,
	}
}

func toEventResponses(events []*models.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev))
	}
	return out
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch events")
		return
	}

	q := r.URL.Query()
	views, err := h.events.ListEvents(r.Context(), identity, q.Get("search"), services.DateWindow(q.Get("filter")))
	if err != nil {
		h.fail(w, r, err, "Failed to fetch events")
		return
	}

	out := make([]eventResponse, 0, len(views))
	for _, v := range views {
		resp := toEventResponse(v.Event)
		joined := v.Joined
		resp.Joined = &joined
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) myEvents(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch your events")
		return
	}

	events, err := h.events.ListMyEvents(r.Context(), identity)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch your events")
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *Handler) featuredUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListFeaturedUpcoming(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch upcoming events")
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *Handler) addEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	var req eventRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	ev, err := h.events.AddEvent(r.Context(), identity, req.input())
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Event added successfully",
		"eventId": ev.ID,
	})
}

func (h *Handler) joinEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to join event")
		return
	}

	err = h.events.JoinEvent(r.Context(), identity, chi.URLParam(r, "id"))
	switch {
	case err == nil:
		h.metrics.JoinsTotal.WithLabelValues("joined").Inc()
		writeMessage(w, http.StatusOK, "Successfully joined event")
	case errors.Is(err, common.ErrorNotFound):
		h.metrics.JoinsTotal.WithLabelValues("not_found").Inc()
		writeMessage(w, http.StatusNotFound, "Event not found.")
	case errors.Is(err, common.ErrAlreadyJoined):
		h.metrics.JoinsTotal.WithLabelValues("already_joined").Inc()
		h.fail(w, r, err, "Failed to join event")
	default:
		h.metrics.JoinsTotal.WithLabelValues("error").Inc()
		h.fail(w, r, err, "Failed to join event")
	}
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to update event")
		return
	}

	var req eventRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err, "Failed to update event")
		return
	}

	if err := h.events.UpdateEvent(r.Context(), identity, chi.URLParam(r, "id"), req.input()); err != nil {
		h.fail(w, r, err, "Failed to update event")
		return
	}
	writeMessage(w, http.StatusOK, "Event updated successfully")
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to delete event")
		return
	}

	if err := h.events.DeleteEvent(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "Failed to delete event")
		return
	}
	writeMessage(w, http.StatusOK, "Event deleted successfully")
}
