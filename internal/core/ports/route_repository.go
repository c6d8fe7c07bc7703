package ports

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route aggregates.
type RouteRepository interface {
	// Add persists a new route aggregate to storage.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists changes to an existing route aggregate.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)

	// GetAllActive retrieves every active route.
	GetAllActive(ctx context.Context) ([]*route.Route, error)

	// GetAllExpired retrieves active routes whose trip date lies before
	// the calendar date of now. Used by the route cleanup job.
	GetAllExpired(ctx context.Context, now time.Time) ([]*route.Route, error)
}
