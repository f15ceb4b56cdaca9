// Package delivery contiene la verificación geográfica de entregas.
package delivery

import "math"

// Parámetros de la verificación GPS. El radio es configurable por llamada
// dentro de [MinRadiusMeters, MaxRadiusMeters].
const (
	EarthRadiusKm       = 6371.0
	DefaultRadiusMeters = 100.0
	MinRadiusMeters     = 10.0
	MaxRadiusMeters     = 1000.0
)

// DistanceMeters calcula la distancia de círculo máximo (fórmula de
// Haversine) entre dos coordenadas, en metros.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c * 1000
}

// WithinRadius indica si la distancia entre las coordenadas almacenadas y las
// reportadas no excede maxDistanceMeters (inclusive: estar exactamente en el
// límite es válido).
func WithinRadius(storedLat, storedLon, reportedLat, reportedLon, maxDistanceMeters float64) (bool, float64) {
	d := DistanceMeters(storedLat, storedLon, reportedLat, reportedLon)
	return d <= maxDistanceMeters, d
}

// ValidRadius valida que el radio solicitado esté dentro de los límites.
func ValidRadius(meters float64) bool {
	return meters >= MinRadiusMeters && meters <= MaxRadiusMeters
}
