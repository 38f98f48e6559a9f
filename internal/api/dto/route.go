package dto

import "github.com/paulmach/orb/geojson"

type Point struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// RouteRequest is shared by calculate-route and the export endpoints.
type RouteRequest struct {
	BaseAddress        *Point  `json:"baseAddress"`
	FollowingAddresses []Point `json:"followingAddresses"`
	Vehicle            string  `json:"vehicle"`
}

type RouteResponse struct {
	OptimizedPoints []Point           `json:"optimizedPoints"`
	Geometry        *geojson.Geometry `json:"geometry"`
	TotalDistance   string            `json:"totalDistance"`
	TotalTime       int               `json:"totalTime"`
	CarbonFootprint string            `json:"carbonFootprint"`
	DurationSource  string            `json:"durationSource"`
}

type GoogleMapsResponse struct {
	URL string `json:"url"`
}
