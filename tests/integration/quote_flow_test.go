// Full-stack quote flow: gin router -> matching pass -> OSRM-shaped routing
// backend, with only the routing HTTP server faked.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ridematch/internal/config"
	httptransport "ridematch/internal/http"
	"ridematch/internal/modules/features"
	"ridematch/internal/modules/matching"
	"ridematch/internal/modules/pricing"
	"ridematch/internal/modules/registry"
	"ridematch/internal/predict"
	"ridematch/internal/routing"
)

// fakeOSRM answers every route with distance proportional to how far down the
// fleet the origin sits, and fails for one poisoned longitude.
func fakeOSRM(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/") {
			http.NotFound(w, r)
			return
		}
		coords := strings.TrimPrefix(r.URL.Path, "/route/v1/driving/")
		origin := strings.Split(coords, ";")[0]

		var lng, lat float64
		if _, err := fmt.Sscanf(origin, "%f,%f", &lng, &lat); err != nil {
			http.Error(w, "bad coords", http.StatusBadRequest)
			return
		}
		if lng >= 78.0 {
			// Poisoned vehicle: unroutable.
			_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
			return
		}

		// Distance grows with longitude offset from the pickup at 77.59.
		meters := (lng - 77.59 + 0.01) * 100000
		if meters < 500 {
			meters = 500
		}
		_, _ = fmt.Fprintf(w, `{"code":"Ok","routes":[{"distance":%.0f,"duration":%.0f}]}`, meters, meters/500*60)
	}))
}

func newStack(t *testing.T, osrmURL string) (http.Handler, *registry.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mcfg := config.MatchingConfig{
		BlendAlpha:       0.6,
		DefaultTopK:      3,
		QuoteConcurrency: 4,
		PerCallTimeout:   2 * time.Second,
		RequestTimeout:   10 * time.Second,
		PeakHours:        []int{8, 9, 10, 17, 18, 19},
		DemandThreshold:  2,
	}

	reg := registry.New()
	pricer := pricing.NewService(nil, config.PricingConfig{BaseFare: 40, PerKm: 15, PerMin: 0, Elasticity: 0.5})
	svc := matching.NewService(
		reg,
		routing.NewOSRMResolver(osrmURL),
		predict.NewDefaultETAModel(),
		predict.NewDefaultDemandModel(),
		pricer,
		features.NewBuilder(mcfg),
		mcfg,
		nil,
	)
	srv := httptransport.NewServer(httptransport.ServerDeps{Registry: reg, Matching: svc, Config: mcfg})
	return srv.Routes(), reg
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestQuoteFlow_UpsertThenQuote(t *testing.T) {
	osrm := fakeOSRM(t)
	defer osrm.Close()

	h, _ := newStack(t, osrm.URL)

	fleet := []map[string]any{
		{"vehicle_id": "veh_near", "latitude": 12.96, "longitude": 77.60, "available": true, "category": "Mini", "rating": 4.4},
		{"vehicle_id": "veh_mid", "latitude": 12.95, "longitude": 77.70, "available": true, "category": "Sedan", "rating": 4.1},
		{"vehicle_id": "veh_busy", "latitude": 12.96, "longitude": 77.61, "available": false, "category": "SUV", "rating": 4.9},
		{"vehicle_id": "veh_unroutable", "latitude": 12.99, "longitude": 78.10, "available": true, "category": "Mini", "rating": 4.0},
	}
	for _, v := range fleet {
		if w := postJSON(t, h, "/api/vehicles/update", v); w.Code != http.StatusOK {
			t.Fatalf("upsert %v: status %d body %s", v["vehicle_id"], w.Code, w.Body.String())
		}
	}

	w := postJSON(t, h, "/api/rides/quote", map[string]any{
		"pickup_lat": 12.97, "pickup_lng": 77.59,
		"drop_lat": 12.93, "drop_lng": 77.62,
		"traffic_level": 2,
		"preference":    "fastest",
		"top_k":         3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("quote: status %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Vehicles []struct {
			VehicleID     string  `json:"vehicle_id"`
			Category      string  `json:"category"`
			DistanceKm    float64 `json:"distance_km"`
			ETAMinutes    float64 `json:"eta_minutes"`
			EstimatedCost float64 `json:"estimated_cost"`
			Surge         float64 `json:"surge_multiplier"`
		} `json:"recommended_vehicles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// veh_busy is unavailable, veh_unroutable failed routing: two remain.
	if len(resp.Vehicles) != 2 {
		t.Fatalf("expected 2 quotes, got %d: %s", len(resp.Vehicles), w.Body.String())
	}
	if resp.Vehicles[0].VehicleID != "veh_near" {
		t.Fatalf("expected veh_near first, got %q", resp.Vehicles[0].VehicleID)
	}
	for _, q := range resp.Vehicles {
		if q.VehicleID == "veh_busy" || q.VehicleID == "veh_unroutable" {
			t.Fatalf("vehicle %s must not be quoted", q.VehicleID)
		}
		if q.Surge < 1.0 {
			t.Fatalf("surge %v < 1.0", q.Surge)
		}
		if q.DistanceKm <= 0 || q.ETAMinutes < 0 {
			t.Fatalf("implausible quote: %+v", q)
		}
	}

	// Second identical request must produce the identical ordering.
	w2 := postJSON(t, h, "/api/rides/quote", map[string]any{
		"pickup_lat": 12.97, "pickup_lng": 77.59,
		"drop_lat": 12.93, "drop_lng": 77.62,
		"traffic_level": 2,
		"preference":    "fastest",
		"top_k":         3,
	})
	if w2.Code != http.StatusOK {
		t.Fatalf("second quote: status %d", w2.Code)
	}
	var resp2 struct {
		Vehicles []struct {
			VehicleID string `json:"vehicle_id"`
		} `json:"recommended_vehicles"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	for i := range resp.Vehicles {
		if resp.Vehicles[i].VehicleID != resp2.Vehicles[i].VehicleID {
			t.Fatalf("ordering not reproducible: %v vs %v", resp.Vehicles, resp2.Vehicles)
		}
	}
}

func TestQuoteFlow_UpsertOverwrites(t *testing.T) {
	osrm := fakeOSRM(t)
	defer osrm.Close()

	h, reg := newStack(t, osrm.URL)

	for _, avail := range []bool{true, false} {
		w := postJSON(t, h, "/api/vehicles/update", map[string]any{
			"vehicle_id": "veh_1", "latitude": 12.96, "longitude": 77.60,
			"available": avail, "category": "Mini",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("upsert: status %d", w.Code)
		}
	}

	if reg.Len() != 1 {
		t.Fatalf("expected one record after two upserts, got %d", reg.Len())
	}
	if len(reg.SnapshotAvailable()) != 0 {
		t.Fatal("latest upsert marked the vehicle unavailable")
	}

	w := postJSON(t, h, "/api/rides/quote", map[string]any{
		"pickup_lat": 12.97, "pickup_lng": 77.59,
		"drop_lat": 12.93, "drop_lng": 77.62,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("quote: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No vehicles available") {
		t.Fatalf("expected empty marker, got %s", w.Body.String())
	}
}
