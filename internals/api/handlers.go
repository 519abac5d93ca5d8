package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Yahia89/meditrans-sub003/internals/auth"
	"github.com/Yahia89/meditrans-sub003/internals/config"
	"github.com/Yahia89/meditrans-sub003/internals/domain"
	"github.com/Yahia89/meditrans-sub003/internals/hub"
	"github.com/Yahia89/meditrans-sub003/internals/store"
	"github.com/Yahia89/meditrans-sub003/internals/tracking"
)

type createTripReq struct {
	OrgID         string  `json:"org_id"`
	PatientRef    string  `json:"patient_ref"`
	PickupLat     float64 `json:"pickup_lat"`
	PickupLng     float64 `json:"pickup_lng"`
	DropoffLat    float64 `json:"dropoff_lat"`
	DropoffLng    float64 `json:"dropoff_lng"`
	RoutePolyline string  `json:"route_polyline,omitempty"`
	DriverID      string  `json:"driver_id,omitempty"`
	TTLMinutes    int     `json:"ttl_minutes,omitempty"`
}

type createTripResp struct {
	TripID          string `json:"trip_id"`
	DriverToken     string `json:"driver_token"`
	DispatcherToken string `json:"dispatcher_token"`
	WSURL           string `json:"ws_url"`
}

func trackingSession(encodedRoute string) *tracking.Session {
	tc := config.GetCurrentConfig().Tracking
	return tracking.NewSession(encodedRoute, tracking.Config{
		ToleranceMeters: tc.RouteToleranceMeters,
		Smoothing:       tc.VelocitySmoothing,
		MaxPredictionMs: tc.MaxPredictionMs,
	})
}

func handleCreateTrip(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "bad json")
		return
	}
	if req.OrgID == "" {
		c.String(http.StatusBadRequest, "org_id required")
		return
	}

	now := time.Now()
	id := hub.RandID(12)

	t := &domain.Trip{
		ID:             id,
		OrgID:          req.OrgID,
		PatientRef:     req.PatientRef,
		Status:         domain.StatusScheduled,
		AssignedDriver: req.DriverID,
		Pickup:         domain.Location{Lat: req.PickupLat, Lng: req.PickupLng, At: now},
		Dropoff:        domain.Location{Lat: req.DropoffLat, Lng: req.DropoffLng, At: now},
		RoutePolyline:  req.RoutePolyline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	store.Trips.Create(t)

	tc := config.GetCurrentConfig().Tracking
	hub.Register(id, trackingSession(req.RoutePolyline), tc.PredictionTick(), tc.PredictionGap())

	ttl := config.GetCurrentConfig().Server.TokenLifetime()
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}
	dTok, _ := auth.MakeToken(id, req.OrgID, auth.RoleDriver, ttl)
	pTok, _ := auth.MakeToken(id, req.OrgID, auth.RoleDispatcher, ttl)

	log.Info().Str("trip", id).Str("org", req.OrgID).Msg("Trip created")

	c.JSON(http.StatusOK, createTripResp{
		TripID:          id,
		DriverToken:     dTok,
		DispatcherToken: pTok,
		WSURL:           "ws://" + c.Request.Host + "/v1/ws/" + id,
	})
}

type fixMsg struct {
	Type     string  `json:"type"`
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Heading  float64 `json:"heading,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
	AtMs     int64   `json:"at_ms,omitempty"`
}

func tsOrNow(ms int64) time.Time {
	if ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Now()
}

func tripFromClaims(c *gin.Context) (*auth.Claims, string, bool) {
	claims, err := auth.ParseTokenFromRequest(c.Request)
	if err != nil {
		c.String(http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}
	id := c.Param("tripID")
	if id != claims.TripID {
		c.String(http.StatusForbidden, "trip mismatch")
		return nil, "", false
	}
	return claims, id, true
}

// Driver posts a GPS fix (REST fallback for clients without a socket). The
// response carries the computed render update so thin clients can reuse it.
func handlePostDriverFix(c *gin.Context) {
	claims, id, ok := tripFromClaims(c)
	if !ok {
		return
	}
	if claims.Role != auth.RoleDriver {
		c.String(http.StatusForbidden, "driver token required")
		return
	}
	var m fixMsg
	if err := c.ShouldBindJSON(&m); err != nil {
		c.String(http.StatusBadRequest, "bad json")
		return
	}
	loc := domain.Location{Lat: m.Lat, Lng: m.Lng, Speed: m.Speed, Heading: m.Heading, Accuracy: m.Accuracy, At: tsOrNow(m.AtMs)}
	if !loc.IsValid() {
		c.String(http.StatusBadRequest, "bad coords")
		return
	}
	h, ok := hub.GetHub(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	update := h.ApplyDriverFix(loc)
	c.JSON(http.StatusOK, update)
}

// Last raw fix as reported by the driver's device.
func handleGetDriverFix(c *gin.Context) {
	_, id, ok := tripFromClaims(c)
	if !ok {
		return
	}
	h, ok := hub.GetHub(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	loc := h.LastFix()
	if loc == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, struct {
		Type string `json:"type"`
		*domain.Location
	}{Type: "driver_fix", Location: loc})
}

// Last computed render position (route-snapped, bearing-aware).
func handleGetPosition(c *gin.Context) {
	_, id, ok := tripFromClaims(c)
	if !ok {
		return
	}
	h, ok := hub.GetHub(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	u := h.LastUpdate()
	if u == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, struct {
		Type string `json:"type"`
		*tracking.Update
	}{Type: "position", Update: u})
}

// Dispatch board: every trip for the caller's organization.
func handleListOrgTrips(c *gin.Context) {
	claims, err := auth.ParseTokenFromRequest(c.Request)
	if err != nil {
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}
	orgID := c.Param("orgID")
	if claims.Role != auth.RoleDispatcher || orgID != claims.OrgID {
		c.String(http.StatusForbidden, "org mismatch")
		return
	}
	trips := store.Trips.ListByOrg(orgID)
	if trips == nil {
		trips = []*domain.Trip{}
	}
	c.JSON(http.StatusOK, trips)
}

func handleGetTrip(c *gin.Context) {
	_, id, ok := tripFromClaims(c)
	if !ok {
		return
	}
	if t, ok := store.Trips.Get(id); ok {
		c.JSON(http.StatusOK, t)
		return
	}
	c.Status(http.StatusNotFound)
}

type statusReq struct {
	Status string `json:"status"`
}

var validTransitions = map[string]map[string]bool{
	domain.StatusScheduled: {domain.StatusEnRoute: true, domain.StatusCanceled: true},
	domain.StatusEnRoute:   {domain.StatusPickedUp: true, domain.StatusCanceled: true},
	domain.StatusPickedUp:  {domain.StatusCompleted: true, domain.StatusCanceled: true},
}

// Status transitions; a terminal status tears the tracking hub down.
func handleUpdateStatus(c *gin.Context) {
	_, id, ok := tripFromClaims(c)
	if !ok {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "bad json")
		return
	}
	t, found := store.Trips.Get(id)
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	if !validTransitions[t.Status][req.Status] {
		c.String(http.StatusConflict, "invalid transition")
		return
	}
	t.Status = req.Status
	t.UpdatedAt = time.Now()
	if err := store.Trips.Update(t); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if req.Status == domain.StatusCompleted || req.Status == domain.StatusCanceled {
		if h, ok := hub.GetHub(id); ok {
			h.Close()
		}
	}

	log.Info().Str("trip", id).Str("status", req.Status).Msg("Trip status updated")
	c.JSON(http.StatusOK, t)
}
