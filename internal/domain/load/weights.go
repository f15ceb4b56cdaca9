// Package load contiene las reglas de peso de la carga de vehículos.
package load

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// defaultWeightsKg es la tabla fija de peso por unidad (kg, enteros) por
// subtipo de activo, usada cuando el item de carga no especifica peso.
var defaultWeightsKg = map[string]int{
	entity.SubtypeCylinder10: 10,
	entity.SubtypeCylinder20: 20,
	entity.SubtypeCylinder30: 30,
	entity.SubtypeCylinder45: 45,
	entity.SubtypeTank120:    66,
	entity.SubtypeTank300:    165,
	entity.SubtypeTank500:    275,
	entity.SubtypeTank1000:   550,
}

// DefaultWeightKg devuelve el peso por unidad del subtipo, o 0 si el subtipo
// no está en la tabla (el caller decide si eso es un error de entrada).
func DefaultWeightKg(subtype string) int {
	return defaultWeightsKg[subtype]
}
