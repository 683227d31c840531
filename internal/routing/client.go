// Package routing wraps the external OSRM routing engine behind a small
// client that translates transport failures into typed errors.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/calroads/circuity-api/internal/config"
	"github.com/calroads/circuity-api/internal/logger"
	"github.com/calroads/circuity-api/internal/models"
)

// Typed failures surfaced to the orchestrator. Callers can distinguish
// "try later" (unavailable/timeout) from "no path exists" (no route).
var (
	ErrUnavailable = errors.New("routing provider unreachable")
	ErrTimeout     = errors.New("routing request timed out")
	ErrNoRoute     = errors.New("no route between points")
)

const milesPerKm = 0.621371

// Client calls an OSRM-compatible routing engine over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a routing client from configuration. One outbound
// request is made per RoadDistance call; there are no retries.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%s", cfg.RoutingHost, cfg.RoutingPort),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RoutingTimeoutSec) * time.Second,
		},
	}
}

// osrmResponse is the subset of the OSRM route response we consume
type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"` // meters
	} `json:"routes"`
}

// RoadDistance returns the driving distance between two points in the
// requested unit, rounded to 2 decimal places.
func (c *Client) RoadDistance(ctx context.Context, originLat, originLng, destLat, destLng float64, units string) (float64, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false&alternatives=false&steps=false",
		c.baseURL, originLng, originLat, destLng, destLat)

	data, err := c.route(ctx, url)
	if err != nil {
		return 0, err
	}

	if len(data.Routes) == 0 {
		return 0, fmt.Errorf("%w: provider returned no routes", ErrNoRoute)
	}

	distanceKm := data.Routes[0].Distance / 1000
	distance := distanceKm
	if units == models.UnitMiles {
		distance = distanceKm * milesPerKm
	}

	return math.Round(distance*100) / 100, nil
}

// Ping probes the engine with a fixed short route (SF to Oakland) and
// reports whether it answered successfully.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := c.baseURL + "/route/v1/driving/-122.4194,37.7749;-122.2711,37.8044?overview=false"
	if _, err := c.route(ctx, url); err != nil {
		logger.GetLogger("routing").Warnf("ping failed: %v", err)
		return false
	}
	return true
}

func (c *Client) route(ctx context.Context, url string) (*osrmResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var data osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrUnavailable, err)
	}

	switch data.Code {
	case "Ok":
		return &data, nil
	case "NoRoute", "NoSegment":
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, data.Message)
	default:
		return nil, fmt.Errorf("%w: provider error %q: %s", ErrUnavailable, data.Code, data.Message)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
