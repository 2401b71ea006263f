package routing

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"ridematch/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		from, to  types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			from:      types.Point{Lat: 25.033, Lng: 121.565},
			to:        types.Point{Lat: 25.033, Lng: 121.565},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Bangalore MG Road to airport (~30km)",
			from:      types.Point{Lat: 12.9757, Lng: 77.6011},
			to:        types.Point{Lat: 13.1989, Lng: 77.7068},
			wantKm:    27.5,
			tolerance: 3,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			from:      types.Point{Lat: 40.7128, Lng: -74.0060},
			to:        types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.from, tt.to)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 25.0, Lng: 121.0}
	b := types.Point{Lat: 26.0, Lng: 122.0}
	d1 := HaversineKm(a, b)
	d2 := HaversineKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestGeometricResolver_SpeedFactor(t *testing.T) {
	g := NewGeometricResolver(4.0)
	est, err := g.Resolve(context.Background(), types.Point{Lat: 0, Lng: 0}, types.Point{Lat: 0, Lng: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.DistanceKm <= 0 {
		t.Fatal("expected positive distance")
	}
	if math.Abs(est.DurationMin-est.DistanceKm*4.0) > 0.0001 {
		t.Errorf("duration %f does not match distance*factor %f", est.DurationMin, est.DistanceKm*4.0)
	}
}

func TestGeometricResolver_DefaultFactor(t *testing.T) {
	g := NewGeometricResolver(0)
	if g.MinutesPerKm != 4.0 {
		t.Errorf("expected default 4.0 min/km, got %f", g.MinutesPerKm)
	}
}

func TestOSRMResolver_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("overview") != "false" {
			t.Errorf("expected overview=false, got %q", r.URL.Query().Get("overview"))
		}
		w.Header().Set("Content-Type", "application/json")
		// 8.4km, 15 minutes.
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":8400,"duration":900}]}`))
	}))
	defer srv.Close()

	r := NewOSRMResolver(srv.URL)
	est, err := r.Resolve(context.Background(), types.Point{Lat: 12.97, Lng: 77.59}, types.Point{Lat: 12.93, Lng: 77.62})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(est.DistanceKm-8.4) > 0.0001 {
		t.Errorf("distance = %f, want 8.4", est.DistanceKm)
	}
	if math.Abs(est.DurationMin-15) > 0.0001 {
		t.Errorf("duration = %f, want 15", est.DurationMin)
	}
}

func TestOSRMResolver_NoRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	r := NewOSRMResolver(srv.URL)
	_, err := r.Resolve(context.Background(), types.Point{}, types.Point{Lat: 1, Lng: 1})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestOSRMResolver_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewOSRMResolver(srv.URL)
	_, err := r.Resolve(context.Background(), types.Point{}, types.Point{Lat: 1, Lng: 1})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestOSRMResolver_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewOSRMResolver(srv.URL)
	if _, err := r.Resolve(ctx, types.Point{}, types.Point{Lat: 1, Lng: 1}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
