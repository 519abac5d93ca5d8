package domain

import (
	"math"
	"time"
)

type Location struct {
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Speed    float64   `json:"speed,omitempty"`
	Heading  float64   `json:"heading,omitempty"`
	Accuracy float64   `json:"accuracy,omitempty"`
	At       time.Time `json:"at"`
}

func (l Location) IsValid() bool {

	return !math.IsNaN(l.Lat) && !math.IsNaN(l.Lng) && l.Lat <= 90 && l.Lat >= -90 && l.Lng <= 180 && l.Lng >= -180

}

// Trip is one scheduled NEMT ride: a patient pickup, a dropoff, and the
// planned route between them as an encoded polyline from the directions
// provider.
type Trip struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	PatientRef     string    `json:"patient_ref"`
	Status         string    `json:"status"`
	AssignedDriver string    `json:"assigned_driver,omitempty"`
	Pickup         Location  `json:"pickup"`
	Dropoff        Location  `json:"dropoff"`
	RoutePolyline  string    `json:"route_polyline,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	StatusScheduled = "scheduled"
	StatusEnRoute   = "en_route"
	StatusPickedUp  = "picked_up"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)
