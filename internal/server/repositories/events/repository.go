package events

import (
	"context"

	"github.com/dmitrijs2005/eventaura/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	AddAttendee(ctx context.Context, eventID, userID string) (bool, error)
	UpdateOwned(ctx context.Context, event *models.Event) (bool, error)
	DeleteOwned(ctx context.Context, id, ownerName string) (bool, error)
	RemoveAttendees(ctx context.Context, eventID string) error
}
