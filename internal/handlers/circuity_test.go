package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calroads/circuity-api/internal/models"
	"github.com/calroads/circuity-api/internal/routing"
	"github.com/calroads/circuity-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type fakeCalculator struct {
	resp *models.CircuityResponse
	err  error
}

func (f *fakeCalculator) Calculate(ctx context.Context, req *models.CircuityRequest) (*models.CircuityResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeReader struct {
	calcs []models.Calculation
	stats *models.StatsSummary
	err   error
}

func (f *fakeReader) History(limit, offset int) ([]models.Calculation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.calcs, nil
}

func (f *fakeReader) Stats() (*models.StatsSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeReader) MaxLimit() int { return 100 }

type fakeHealth struct {
	status *models.HealthStatus
}

func (f *fakeHealth) Check(ctx context.Context) *models.HealthStatus {
	return f.status
}

func newTestApp(calc circuityCalculator, reader calculationReader, health healthChecker) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewCircuityHandler(calc, reader)
	app.Post("/calculate", h.Calculate)
	app.Get("/history", h.History)
	app.Get("/stats", h.Stats)
	if health != nil {
		app.Get("/health", NewHealthHandler(health).Health)
	}
	return app
}

const validBody = `{"origin":{"lat":37.7749,"lng":-122.4194,"name":"San Francisco"},"destination":{"lat":34.0522,"lng":-118.2437,"name":"Los Angeles"},"units":"miles"}`

func postCalculate(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func TestCalculateOK(t *testing.T) {
	calc := &fakeCalculator{resp: &models.CircuityResponse{
		RoadDistance:      382.5,
		StraightDistance:  347.42,
		CircuityFactor:    1.101,
		EfficiencyPercent: 90.83,
		Units:             models.UnitMiles,
		CalculationTimeMs: 120,
	}}
	app := newTestApp(calc, &fakeReader{}, nil)

	resp := postCalculate(t, app, validBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body models.CircuityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CircuityFactor != 1.101 || body.Cached {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCalculateMalformedBody(t *testing.T) {
	app := newTestApp(&fakeCalculator{}, &fakeReader{}, nil)

	resp := postCalculate(t, app, `{not json`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCalculateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", &models.FieldError{Field: "origin.lat", Reason: "latitude must be between -90 and 90"}, 422, "invalid_request"},
		{"undefined circuity", services.ErrUndefinedCircuity, 422, "undefined_circuity"},
		{"routing timeout", routing.ErrTimeout, 504, "routing_timeout"},
		{"routing no route", routing.ErrNoRoute, 502, "routing_no_route"},
		{"routing unavailable", routing.ErrUnavailable, 502, "routing_unavailable"},
		{"store unavailable", services.ErrStoreUnavailable, 503, "store_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeCalculator{err: tt.err}, &fakeReader{}, nil)

			resp := postCalculate(t, app, validBody)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantKind {
				t.Errorf("error kind = %q, want %q", body.Error, tt.wantKind)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	reader := &fakeReader{calcs: []models.Calculation{
		{ID: 3}, {ID: 2}, {ID: 1},
	}}
	app := newTestApp(&fakeCalculator{}, reader, nil)

	req := httptest.NewRequest(http.MethodGet, "/history?limit=5", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var calcs []models.Calculation
	if err := json.NewDecoder(resp.Body).Decode(&calcs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(calcs) != 3 {
		t.Errorf("got %d records, want 3", len(calcs))
	}
	if calcs[0].ID != 3 {
		t.Errorf("first record ID = %d, want newest (3)", calcs[0].ID)
	}
}

func TestHistoryLimitValidation(t *testing.T) {
	app := newTestApp(&fakeCalculator{}, &fakeReader{}, nil)

	for _, query := range []string{"limit=101", "limit=-1", "limit=abc", "offset=-2"} {
		req := httptest.NewRequest(http.MethodGet, "/history?"+query, nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestStatsEmptyStore(t *testing.T) {
	app := newTestApp(&fakeCalculator{}, &fakeReader{stats: &models.StatsSummary{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats models.StatsSummary
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalCalculations != 0 || stats.AverageCircuityFactor != 0 {
		t.Errorf("empty store stats = %+v, want zero values", stats)
	}
}

func TestHealthAlways200(t *testing.T) {
	health := &fakeHealth{status: &models.HealthStatus{
		Status:           "unhealthy",
		RoutingConnected: false,
		StoreConnected:   true,
		Timestamp:        time.Now(),
	}}
	app := newTestApp(&fakeCalculator{}, &fakeReader{}, health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when unhealthy", resp.StatusCode)
	}

	var status models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "unhealthy" || status.RoutingConnected {
		t.Errorf("unexpected health body: %+v", status)
	}
}
