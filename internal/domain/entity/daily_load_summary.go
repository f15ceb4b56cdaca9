package entity

import "time"

// DailyLoadSummary es el resumen diario de cargas por tenant. Es una tabla
// caché derivada de route_loads: la fuente de verdad siempre es el escaneo
// en memoria sobre el rango de fechas, nunca este agregado.
type DailyLoadSummary struct {
	TenantID            string
	Date                time.Time
	TotalRouteLoads     int
	Dispatched          int
	Completed           int
	Cancelled           int
	TotalCylinders      int
	TotalTanks          int
	TotalWeightKg       int
	PlannedDeliveries   int
	CompletedDeliveries int
	GeneratedAt         time.Time
}
