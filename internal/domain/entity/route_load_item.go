package entity

import "time"

// RouteLoadItem es una línea de carga de un RouteLoad: por seriales
// específicos o por cantidad/subtipo. Los seriales se guardan como lista
// ordenada de referencias a assets (tabla hija route_load_item_assets),
// nunca como blob serializado.
type RouteLoadItem struct {
	ID              string
	TenantID        string
	RouteLoadID     string
	AssetType       string // cylinder | tank
	AssetSubtype    string // clase de capacidad
	Quantity        int
	WeightPerUnitKg int // si no se indica, se toma de la tabla de pesos por subtipo
	TotalWeightKg   int // Quantity × WeightPerUnitKg
	Serials         []string
	AssetIDs        []string // resueltos a partir de Serials, mismo orden
	CreatedAt       time.Time
}

// IsSerialTracked indica si la línea referencia activos serializados.
func (i *RouteLoadItem) IsSerialTracked() bool {
	return len(i.Serials) > 0
}
