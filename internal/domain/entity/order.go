package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending    = "pending"
	OrderStatusAssigned   = "assigned"
	OrderStatusInProgress = "in_progress"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusFailed     = "failed"
)

// Prioridades de un pedido.
const (
	OrderPriorityLow    = "low"
	OrderPriorityNormal = "normal"
	OrderPriorityHigh   = "high"
	OrderPriorityUrgent = "urgent"
)

// Métodos de pago aceptados al confirmar la entrega.
const (
	PaymentMethodCash          = "cash"
	PaymentMethodCreditCard    = "credit_card"
	PaymentMethodDebitCard     = "debit_card"
	PaymentMethodBankTransfer  = "bank_transfer"
	PaymentMethodCreditAccount = "credit_account"
)

// TaxRatePercent es la tasa de IVA aplicada al crear pedidos.
const TaxRatePercent = 16

// Order representa un pedido de entrega a cliente. Los campos de confirmación
// (pago, firma, coordenadas) solo se llenan al completar la entrega.
type Order struct {
	ID                string
	TenantID          string
	OrderNumber       string
	CustomerID        string
	DeliveryAddressID string
	Status            string
	Priority          string
	RequestedDate     time.Time
	ScheduledDate     *time.Time
	Subtotal          decimal.Decimal
	TaxTotal          decimal.Decimal
	GrandTotal        decimal.Decimal
	AssignedDriverID  *string
	AssignedVehicleID *string

	// Coordenadas de entrega resueltas desde la dirección del cliente.
	DeliveryLatitude  *float64
	DeliveryLongitude *float64

	// Confirmación de entrega (solo con status delivered).
	PaymentMethod      string
	AmountReceived     decimal.Decimal
	PaymentReference   string
	SignatureReference string
	SignerName         string
	PhotoReference     string
	DeliveredLatitude  *float64
	DeliveredLongitude *float64
	DeliveredAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []*OrderItem
}

// ValidPaymentMethod valida el método de pago de la confirmación de entrega.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodCreditAccount:
		return true
	}
	return false
}

// ValidOrderPriority valida la prioridad de un pedido.
func ValidOrderPriority(priority string) bool {
	switch priority {
	case OrderPriorityLow, OrderPriorityNormal, OrderPriorityHigh, OrderPriorityUrgent:
		return true
	}
	return false
}
