package domain

import "fmt"

// Vehicle identifies the travel mode used to score a route.
type Vehicle string

const (
	VehicleCar             Vehicle = "car"
	VehicleElectricCar     Vehicle = "electricCar"
	VehicleUtility         Vehicle = "utility"
	VehicleElectricUtility Vehicle = "electricUtility"
	VehicleBike            Vehicle = "bike"
	VehicleByFoot          Vehicle = "byFoot"
)

// VehicleProfile holds the static constants attached to a Vehicle.
type VehicleProfile struct {
	// Directions profile id understood by OpenRouteService.
	DirectionsProfile string
	// Grams of CO2 emitted per kilometer.
	EmissionFactor float64
	// Assumed average speed in km/h when no travel time can be fetched.
	FallbackSpeedKmh float64
	// Google Maps travelmode parameter.
	TravelMode string
}

// Emission factors are in g CO2/km.
var vehicleProfiles = map[Vehicle]VehicleProfile{
	VehicleCar:             {DirectionsProfile: "driving-car", EmissionFactor: 218, FallbackSpeedKmh: 60, TravelMode: "driving"},
	VehicleElectricCar:     {DirectionsProfile: "driving-car", EmissionFactor: 103, FallbackSpeedKmh: 60, TravelMode: "driving"},
	VehicleUtility:         {DirectionsProfile: "driving-car", EmissionFactor: 218, FallbackSpeedKmh: 60, TravelMode: "driving"},
	VehicleElectricUtility: {DirectionsProfile: "driving-car", EmissionFactor: 103, FallbackSpeedKmh: 60, TravelMode: "driving"},
	VehicleBike:            {DirectionsProfile: "cycling-regular", EmissionFactor: 6, FallbackSpeedKmh: 15, TravelMode: "bicycling"},
	VehicleByFoot:          {DirectionsProfile: "foot-walking", EmissionFactor: 0, FallbackSpeedKmh: 5, TravelMode: "walking"},
}

// Vehicles lists every supported vehicle in a stable order.
func Vehicles() []Vehicle {
	return []Vehicle{
		VehicleCar,
		VehicleElectricCar,
		VehicleUtility,
		VehicleElectricUtility,
		VehicleBike,
		VehicleByFoot,
	}
}

// ParseVehicle maps a client tag to a Vehicle, rejecting unknown values.
func ParseVehicle(s string) (Vehicle, error) {
	if s == "" {
		return "", &ValidationError{Field: "vehicle", Reason: "is required"}
	}
	v := Vehicle(s)
	if _, ok := vehicleProfiles[v]; !ok {
		return "", &ValidationError{Field: "vehicle", Reason: fmt.Sprintf("unknown vehicle %q", s)}
	}
	return v, nil
}

// Profile returns the constants for v. ok is false for an unrecognized vehicle.
func (v Vehicle) Profile() (VehicleProfile, bool) {
	p, ok := vehicleProfiles[v]
	return p, ok
}

// EmissionFactor returns g CO2/km for v; an unrecognized vehicle emits nothing.
func (v Vehicle) EmissionFactor() float64 {
	return vehicleProfiles[v].EmissionFactor
}
