// README: HTTP handlers for the vehicle feed and ride quoting.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridematch/internal/modules/features"
	"ridematch/internal/modules/matching"
	"ridematch/internal/modules/ranking"
	"ridematch/internal/modules/registry"
	"ridematch/internal/types"
)

type vehicleUpdateRequest struct {
	VehicleID string   `json:"vehicle_id" binding:"required"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Available bool     `json:"available"`
	Category  string   `json:"category"`
	Rating    *float64 `json:"rating"`
}

type vehicleResponse struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Available bool    `json:"available"`
	Category  string  `json:"category"`
	Rating    float64 `json:"rating,omitempty"`
}

func (s *Server) handleVehicleUpdate(c *gin.Context) {
	var req vehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	v := registry.Vehicle{
		ID:        types.ID(req.VehicleID),
		Position:  types.Point{Lat: req.Latitude, Lng: req.Longitude},
		Available: req.Available,
		Category:  req.Category,
	}
	if req.Rating != nil {
		v.Rating = *req.Rating
	}

	if err := s.registry.Upsert(v); err != nil {
		if errors.Is(err, registry.ErrInvalidVehicle) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	stored, _ := s.registry.Get(v.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle updated successfully",
		"vehicle": vehicleResponse{
			VehicleID: string(stored.ID),
			Latitude:  stored.Position.Lat,
			Longitude: stored.Position.Lng,
			Available: stored.Available,
			Category:  stored.Category,
			Rating:    stored.Rating,
		},
	})
}

type rideQuoteRequest struct {
	PickupLat float64 `json:"pickup_lat"`
	PickupLng float64 `json:"pickup_lng"`
	DropLat   float64 `json:"drop_lat"`
	DropLng   float64 `json:"drop_lng"`

	// Level form of the traffic context.
	TrafficLevel *int `json:"traffic_level"`

	// Explicit form; used when hour is present.
	Hour      *int `json:"hour"`
	DayOfWeek *int `json:"day_of_week"`
	IsWeekend *int `json:"is_weekend"`
	IsPeak    *int `json:"is_peak"`

	Preference string `json:"preference"`
	TopK       *int   `json:"top_k"`
}

type quoteResponse struct {
	VehicleID     string  `json:"vehicle_id"`
	Category      string  `json:"category"`
	DistanceKm    float64 `json:"distance_km"`
	ETAMinutes    float64 `json:"eta_minutes"`
	EstimatedCost float64 `json:"estimated_cost"`
	Surge         float64 `json:"surge_multiplier"`
}

func (s *Server) handleRideQuote(c *gin.Context) {
	var req rideQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	topK := s.cfg.DefaultTopK
	if req.TopK != nil {
		if *req.TopK < 0 {
			writeError(c, http.StatusBadRequest, "top_k must not be negative")
			return
		}
		topK = *req.TopK
	}

	traffic := features.Context{TrafficLevel: 1}
	if req.TrafficLevel != nil {
		traffic.TrafficLevel = *req.TrafficLevel
	}
	if req.Hour != nil {
		traffic.Explicit = true
		traffic.Hour = *req.Hour
		if req.DayOfWeek != nil {
			traffic.DayOfWeek = *req.DayOfWeek
		}
		traffic.IsWeekend = req.IsWeekend != nil && *req.IsWeekend != 0
		traffic.IsPeak = req.IsPeak != nil && *req.IsPeak != 0
	}

	res, err := s.matching.Match(c.Request.Context(), matching.Request{
		Pickup:     types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:    types.Point{Lat: req.DropLat, Lng: req.DropLng},
		Traffic:    traffic,
		Preference: ranking.Normalize(req.Preference),
		TopK:       topK,
	})
	if err != nil {
		if errors.Is(err, matching.ErrInvalidRequest) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	if res.Empty {
		c.JSON(http.StatusOK, gin.H{
			"message":              "No vehicles available",
			"recommended_vehicles": []quoteResponse{},
		})
		return
	}

	out := make([]quoteResponse, len(res.Quotes))
	for i, q := range res.Quotes {
		out[i] = quoteResponse{
			VehicleID:     string(q.VehicleID),
			Category:      q.Category,
			DistanceKm:    q.DistanceKm,
			ETAMinutes:    q.ETAMinutes,
			EstimatedCost: q.Price,
			Surge:         q.Surge,
		}
	}
	c.JSON(http.StatusOK, gin.H{"recommended_vehicles": out})
}
