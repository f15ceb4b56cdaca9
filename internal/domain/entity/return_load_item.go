package entity

import "time"

// Cubetas de conteo físico al retorno del vehículo.
const (
	ReturnBucketFull     = "full"     // lleno devuelto (no entregado)
	ReturnBucketEmpty    = "empty"    // vacío recolectado
	ReturnBucketExchange = "exchange" // intercambio lleno-por-vacío
	ReturnBucketMissing  = "missing"  // faltante
	ReturnBucketDamaged  = "damaged"  // dañado
)

// ReturnLoadItem es un conteo físico de una cubeta, opcionalmente ligado a
// un pedido y/o a seriales específicos.
type ReturnLoadItem struct {
	ID           string
	TenantID     string
	ReturnLoadID string
	BucketType   string // full | empty | exchange | missing | damaged
	OrderID      *string
	AssetType    string
	AssetSubtype string
	Quantity     int
	WeightKg     int
	Serials      []string
	CreatedAt    time.Time
}

// ValidReturnBucket valida el tipo de cubeta.
func ValidReturnBucket(bucket string) bool {
	switch bucket {
	case ReturnBucketFull, ReturnBucketEmpty, ReturnBucketExchange,
		ReturnBucketMissing, ReturnBucketDamaged:
		return true
	}
	return false
}
