package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/calroads/circuity-api/internal/config"
	"github.com/calroads/circuity-api/internal/database"
	"github.com/calroads/circuity-api/internal/models"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

// CacheService persists circuity calculations and serves them back by
// coordinate key. Coordinates are rounded to a configurable number of
// decimal places before keying, so requests differing only below that
// precision share a cache entry (precision 0 keeps exact float matching).
type CacheService struct {
	db        *database.DB
	precision int
	maxLimit  int
}

func NewCacheService(db *database.DB, cfg *config.Config) *CacheService {
	return &CacheService{
		db:        db,
		precision: cfg.CachePrecision,
		maxLimit:  cfg.HistoryMaxLimit,
	}
}

// MaxLimit is the largest page size History accepts
func (s *CacheService) MaxLimit() int {
	return s.maxLimit
}

func (s *CacheService) round(v float64) float64 {
	if s.precision <= 0 {
		return v
	}
	scale := math.Pow(10, float64(s.precision))
	return math.Round(v*scale) / scale
}

// Key derives the cache key for a request from its rounded coordinates
// and unit. Identical keys are guaranteed to hit the same cache row.
func (s *CacheService) Key(req *models.CircuityRequest) string {
	return fmt.Sprintf("%v,%v|%v,%v|%s",
		s.round(req.Origin.Lat), s.round(req.Origin.Lng),
		s.round(req.Destination.Lat), s.round(req.Destination.Lng),
		req.Units)
}

// Lookup returns the stored calculation matching the request, or nil on a
// cache miss. Both directions are checked: the road distance from A to B
// is treated as the same cache entry as B to A.
func (s *CacheService) Lookup(req *models.CircuityRequest) (*models.Calculation, error) {
	oLat, oLng := s.round(req.Origin.Lat), s.round(req.Origin.Lng)
	dLat, dLng := s.round(req.Destination.Lat), s.round(req.Destination.Lng)

	calc, err := s.find(oLat, oLng, dLat, dLng, req.Units)
	if err != nil {
		return nil, err
	}
	if calc == nil {
		// Try reverse direction
		calc, err = s.find(dLat, dLng, oLat, oLng, req.Units)
		if err != nil {
			return nil, err
		}
	}
	return calc, nil
}

func (s *CacheService) find(oLat, oLng, dLat, dLng float64, units string) (*models.Calculation, error) {
	var calc models.Calculation
	err := s.db.
		Where("origin_lat = ? AND origin_lng = ? AND destination_lat = ? AND destination_lng = ? AND units = ?",
			oLat, oLng, dLat, dLng, units).
		First(&calc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &calc, nil
}

// Save persists a finished calculation. Coordinates are rounded with the
// same precision Lookup uses so the row is found by later requests. The
// store assigns the id and creation timestamp.
func (s *CacheService) Save(calc *models.Calculation) error {
	switch calc.Units {
	case models.UnitMiles, models.UnitKm:
	default:
		return fmt.Errorf("%w: unknown unit %q", ErrStoreConstraint, calc.Units)
	}

	calc.OriginLat = s.round(calc.OriginLat)
	calc.OriginLng = s.round(calc.OriginLng)
	calc.DestinationLat = s.round(calc.DestinationLat)
	calc.DestinationLng = s.round(calc.DestinationLng)

	if err := s.db.Create(calc).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// History returns stored calculations newest first. A non-positive limit
// falls back to the default page size; limits above MaxLimit are capped.
func (s *CacheService) History(limit, offset int) ([]models.Calculation, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	var calcs []models.Calculation
	err := s.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&calcs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return calcs, nil
}

// Stats aggregates all stored calculations. An empty table yields a
// zero-valued summary, not an error.
func (s *CacheService) Stats() (*models.StatsSummary, error) {
	var total int64
	if err := s.db.Model(&models.Calculation{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if total == 0 {
		return &models.StatsSummary{}, nil
	}

	var avgs struct {
		AvgCircuity   sql.NullFloat64
		AvgEfficiency sql.NullFloat64
	}
	err := s.db.Model(&models.Calculation{}).
		Select("AVG(circuity_factor) AS avg_circuity, AVG(efficiency_percent) AS avg_efficiency").
		Scan(&avgs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &models.StatsSummary{
		TotalCalculations:        total,
		AverageCircuityFactor:    math.Round(avgs.AvgCircuity.Float64*1000) / 1000,
		AverageEfficiencyPercent: math.Round(avgs.AvgEfficiency.Float64*100) / 100,
	}, nil
}
