package entity

import "github.com/shopspring/decimal"

// OrderItem es una línea de producto de un pedido.
type OrderItem struct {
	ID             string
	TenantID       string
	OrderID        string
	ProductType    string // cylinder | tank
	ProductSubtype string // clase de capacidad
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal // Quantity × UnitPrice
}
