package services

import (
	"context"
	"time"

	"github.com/calroads/circuity-api/internal/models"
)

const probeTimeout = 5 * time.Second

// RoutingPinger probes the routing engine for liveness
type RoutingPinger interface {
	Ping(ctx context.Context) bool
}

// StorePinger probes the calculation store for liveness
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthService composes liveness of the routing engine and the store
// into one status. It never fails: probe errors surface as false flags.
type HealthService struct {
	store  StorePinger
	router RoutingPinger
}

func NewHealthService(store StorePinger, router RoutingPinger) *HealthService {
	return &HealthService{store: store, router: router}
}

// Check probes both dependencies with a short timeout. Status is
// "healthy" only when both respond, otherwise "unhealthy".
func (s *HealthService) Check(ctx context.Context) *models.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	routingUp := s.router.Ping(ctx)
	storeUp := s.store.Ping(ctx) == nil

	status := "healthy"
	if !routingUp || !storeUp {
		status = "unhealthy"
	}

	return &models.HealthStatus{
		Status:           status,
		RoutingConnected: routingUp,
		StoreConnected:   storeUp,
		Timestamp:        time.Now(),
	}
}
