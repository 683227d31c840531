package models

import (
	"errors"
	"strings"
	"testing"
)

func validRequest() CircuityRequest {
	return CircuityRequest{
		Origin:      Location{Lat: 37.7749, Lng: -122.4194, Name: "San Francisco"},
		Destination: Location{Lat: 34.0522, Lng: -118.2437, Name: "Los Angeles"},
		Units:       UnitMiles,
	}
}

func TestValidateOK(t *testing.T) {
	req := validRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	req.Units = UnitKm
	req.Origin.Name = ""
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CircuityRequest)
		wantField string
	}{
		{"lat too high", func(r *CircuityRequest) { r.Origin.Lat = 90.1 }, "origin.lat"},
		{"lat too low", func(r *CircuityRequest) { r.Destination.Lat = -91 }, "destination.lat"},
		{"lng too high", func(r *CircuityRequest) { r.Origin.Lng = 180.5 }, "origin.lng"},
		{"lng too low", func(r *CircuityRequest) { r.Destination.Lng = -181 }, "destination.lng"},
		{"bad units", func(r *CircuityRequest) { r.Units = "furlongs" }, "units"},
		{"empty units", func(r *CircuityRequest) { r.Units = "" }, "units"},
		{"name too long", func(r *CircuityRequest) { r.Origin.Name = strings.Repeat("x", 101) }, "origin.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}

			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("Validate() returned %T, want *FieldError", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fieldErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateZeroDistanceAllowed(t *testing.T) {
	// origin == destination is a valid (degenerate) request; the
	// orchestrator handles the undefined ratio, not validation
	req := validRequest()
	req.Destination = req.Origin

	if err := req.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for identical points", err)
	}
}
