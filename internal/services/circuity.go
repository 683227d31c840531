package services

import (
	"context"
	"math"
	"time"

	"github.com/calroads/circuity-api/internal/logger"
	"github.com/calroads/circuity-api/internal/models"
	"github.com/calroads/circuity-api/pkg/geo"
	"golang.org/x/sync/singleflight"
)

// RoadRouter provides road-network distances from an external engine
type RoadRouter interface {
	RoadDistance(ctx context.Context, originLat, originLng, destLat, destLng float64, units string) (float64, error)
}

// CalculationStore is the persistence surface the orchestrator needs
type CalculationStore interface {
	Key(req *models.CircuityRequest) string
	Lookup(req *models.CircuityRequest) (*models.Calculation, error)
	Save(calc *models.Calculation) error
}

// CircuityService coordinates a calculation: validate, check the cache,
// on a miss compute road and straight-line distance in the same unit,
// derive the circuity factor, persist, and report cache-hit metadata.
// Concurrent requests for the same key share a single computation, so
// the routing engine is called at most once per distinct key in flight.
type CircuityService struct {
	store  CalculationStore
	router RoadRouter
	group  singleflight.Group
}

func NewCircuityService(store CalculationStore, router RoadRouter) *CircuityService {
	return &CircuityService{store: store, router: router}
}

// Calculate runs one circuity computation end to end. Any failure from
// the routing engine or the store aborts the request with a typed error
// and leaves nothing persisted.
func (s *CircuityService) Calculate(ctx context.Context, req *models.CircuityRequest) (*models.CircuityResponse, error) {
	if req.Units == "" {
		req.Units = models.UnitMiles
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if calc, err := s.store.Lookup(req); err != nil {
		return nil, err
	} else if calc != nil {
		return buildResponse(req, calc, true), nil
	}

	v, err, _ := s.group.Do(s.store.Key(req), func() (interface{}, error) {
		// A concurrent request may have finished between our miss and
		// winning the flight; re-check before computing.
		if calc, err := s.store.Lookup(req); err != nil {
			return nil, err
		} else if calc != nil {
			return buildResponse(req, calc, true), nil
		}
		return s.computeAndStore(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.CircuityResponse), nil
}

func (s *CircuityService) computeAndStore(ctx context.Context, req *models.CircuityRequest) (*models.CircuityResponse, error) {
	log := logger.GetLogger("circuity")
	start := time.Now()

	road, err := s.router.RoadDistance(ctx,
		req.Origin.Lat, req.Origin.Lng,
		req.Destination.Lat, req.Destination.Lng,
		req.Units)
	if err != nil {
		log.Warnf("road distance failed for %s: %v", s.store.Key(req), err)
		return nil, err
	}

	radius := geo.EarthRadiusKm
	if req.Units == models.UnitMiles {
		radius = geo.EarthRadiusMiles
	}
	straight := round2(geo.Distance(
		geo.Point{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		geo.Point{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		radius))

	if straight == 0 {
		return nil, ErrUndefinedCircuity
	}

	factor := round3(road / straight)
	efficiency := round2(straight / road * 100)
	elapsed := time.Since(start).Milliseconds()

	calc := &models.Calculation{
		OriginLat:         req.Origin.Lat,
		OriginLng:         req.Origin.Lng,
		OriginName:        optionalName(req.Origin.Name),
		DestinationLat:    req.Destination.Lat,
		DestinationLng:    req.Destination.Lng,
		DestinationName:   optionalName(req.Destination.Name),
		RoadDistance:      road,
		StraightDistance:  straight,
		CircuityFactor:    factor,
		EfficiencyPercent: efficiency,
		Units:             req.Units,
		CalculationTimeMs: elapsed,
	}
	if err := s.store.Save(calc); err != nil {
		return nil, err
	}

	log.Infof("calculated circuity %v for %s in %dms", factor, s.store.Key(req), elapsed)

	return buildResponse(req, calc, false), nil
}

func buildResponse(req *models.CircuityRequest, calc *models.Calculation, cached bool) *models.CircuityResponse {
	return &models.CircuityResponse{
		Origin:            req.Origin,
		Destination:       req.Destination,
		RoadDistance:      calc.RoadDistance,
		StraightDistance:  calc.StraightDistance,
		CircuityFactor:    calc.CircuityFactor,
		EfficiencyPercent: calc.EfficiencyPercent,
		Units:             calc.Units,
		CalculationTimeMs: calc.CalculationTimeMs,
		Cached:            cached,
	}
}

func optionalName(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
