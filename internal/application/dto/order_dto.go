package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de producto de un pedido.
type OrderItemRequest struct {
	ProductType    string          `json:"product_type"`
	ProductSubtype string          `json:"product_subtype"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body para POST /api/orders. CustomerID y
// DeliveryAddressID vienen ya resueltos por el colaborador de clientes.
type CreateOrderRequest struct {
	CustomerID        string             `json:"customer_id"`
	DeliveryAddressID string             `json:"delivery_address_id"`
	Priority          string             `json:"priority,omitempty"` // default: normal
	RequestedDate     time.Time          `json:"requested_date"`
	ScheduledDate     *time.Time         `json:"scheduled_date,omitempty"`
	DeliveryLatitude  *float64           `json:"delivery_latitude,omitempty"`
	DeliveryLongitude *float64           `json:"delivery_longitude,omitempty"`
	Items             []OrderItemRequest `json:"items"`
}

// TransitionOrderRequest body para POST /api/orders/:id/transition.
type TransitionOrderRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// AssignOrderRequest body para POST /api/orders/:id/assign (empareja el
// pedido con el chofer/vehículo de una carga de ruta).
type AssignOrderRequest struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
	Notes     string `json:"notes,omitempty"`
}

// CompleteDeliveryRequest body para POST /api/orders/:id/complete-delivery.
type CompleteDeliveryRequest struct {
	PaymentMethod      string          `json:"payment_method"`
	AmountReceived     decimal.Decimal `json:"amount_received"`
	PaymentReference   string          `json:"payment_reference,omitempty"`
	SignatureReference string          `json:"signature_reference,omitempty"`
	SignerName         string          `json:"signer_name"` // 2–100 caracteres
	PhotoReference     string          `json:"photo_reference,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Latitude           *float64        `json:"latitude,omitempty"`
	Longitude          *float64        `json:"longitude,omitempty"`
}

// VerifyLocationRequest body para POST /api/orders/:id/verify-location.
type VerifyLocationRequest struct {
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	MaxDistanceMeters *float64 `json:"max_distance_meters,omitempty"` // default 100, rango [10, 1000]
}

// VerifyLocationResponse resultado advisory de la verificación GPS: no
// bloquea la entrega, el caller decide su política.
type VerifyLocationResponse struct {
	Valid             bool    `json:"valid"`
	DistanceMeters    float64 `json:"distance_meters"`
	MaxDistanceMeters float64 `json:"max_distance_meters"`
	HasCoordinates    bool    `json:"has_coordinates"` // false = sin geodatos, válido por omisión
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ID             string          `json:"id"`
	ProductType    string          `json:"product_type"`
	ProductSubtype string          `json:"product_subtype"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// OrderHistoryEventResponse transición registrada en la bitácora del pedido.
type OrderHistoryEventResponse struct {
	ID             string    `json:"id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status"`
	Actor          string    `json:"actor,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderResponse pedido en respuestas.
type OrderResponse struct {
	ID                 string                      `json:"id"`
	TenantID           string                      `json:"tenant_id"`
	OrderNumber        string                      `json:"order_number"`
	CustomerID         string                      `json:"customer_id"`
	DeliveryAddressID  string                      `json:"delivery_address_id"`
	Status             string                      `json:"status"`
	Priority           string                      `json:"priority"`
	RequestedDate      time.Time                   `json:"requested_date"`
	ScheduledDate      *time.Time                  `json:"scheduled_date,omitempty"`
	Subtotal           decimal.Decimal             `json:"subtotal"`
	TaxTotal           decimal.Decimal             `json:"tax_total"`
	GrandTotal         decimal.Decimal             `json:"grand_total"`
	AssignedDriverID   *string                     `json:"assigned_driver_id,omitempty"`
	AssignedVehicleID  *string                     `json:"assigned_vehicle_id,omitempty"`
	PaymentMethod      string                      `json:"payment_method,omitempty"`
	AmountReceived     decimal.Decimal             `json:"amount_received"`
	SignerName         string                      `json:"signer_name,omitempty"`
	DeliveredAt        *time.Time                  `json:"delivered_at,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	Items              []OrderItemResponse         `json:"items,omitempty"`
	History            []OrderHistoryEventResponse `json:"history,omitempty"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
