package services

import "eco-route-service/internal/domain"

// CarbonFootprintGrams estimates the CO2 mass emitted over distanceMeters.
// Unrecognized vehicles have an emission factor of zero.
func CarbonFootprintGrams(distanceMeters float64, vehicle domain.Vehicle) float64 {
	return (distanceMeters / 1000) * vehicle.EmissionFactor()
}
