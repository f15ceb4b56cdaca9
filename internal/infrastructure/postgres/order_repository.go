package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `
	id, tenant_id, order_number, customer_id, delivery_address_id,
	status, priority, requested_date, scheduled_date,
	subtotal, tax_total, grand_total,
	assigned_driver_id, assigned_vehicle_id,
	delivery_latitude, delivery_longitude,
	COALESCE(payment_method, ''), amount_received,
	COALESCE(payment_reference, ''), COALESCE(signature_reference, ''),
	COALESCE(signer_name, ''), COALESCE(photo_reference, ''),
	delivered_latitude, delivered_longitude, delivered_at,
	created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con
// pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido y sus líneas. El índice único
// (tenant_id, order_number) traduce el choque a domain.ErrDuplicate.
func (r *OrderRepo) Create(o *entity.Order, items []*entity.OrderItem) error {
	query := `
		INSERT INTO orders (
			id, tenant_id, order_number, customer_id, delivery_address_id,
			status, priority, requested_date, scheduled_date,
			subtotal, tax_total, grand_total,
			assigned_driver_id, assigned_vehicle_id,
			delivery_latitude, delivery_longitude,
			payment_method, amount_received, payment_reference,
			signature_reference, signer_name, photo_reference,
			delivered_latitude, delivered_longitude, delivered_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, NULLIF($17, ''), $18, NULLIF($19, ''), NULLIF($20, ''),
			NULLIF($21, ''), NULLIF($22, ''), $23, $24, $25, $26, $27
		)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.TenantID, o.OrderNumber, o.CustomerID, o.DeliveryAddressID,
		o.Status, o.Priority, o.RequestedDate, o.ScheduledDate,
		o.Subtotal, o.TaxTotal, o.GrandTotal,
		o.AssignedDriverID, o.AssignedVehicleID,
		o.DeliveryLatitude, o.DeliveryLongitude,
		o.PaymentMethod, o.AmountReceived, o.PaymentReference,
		o.SignatureReference, o.SignerName, o.PhotoReference,
		o.DeliveredLatitude, o.DeliveredLongitude, o.DeliveredAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create order: %w", err)
	}
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO order_items (
				id, tenant_id, order_id, product_type, product_subtype,
				quantity, unit_price, total_price
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, item.TenantID, item.OrderID, item.ProductType, item.ProductSubtype,
			item.Quantity, item.UnitPrice, item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido del tenant, o (nil, nil) si no existe.
func (r *OrderRepo) GetByID(tenantID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(query, tenantID, id)
}

// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de
// una transacción.
func (r *OrderRepo) GetByIDForUpdate(tenantID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(query, tenantID, id)
}

// Update persiste estado, asignación y confirmación de entrega.
func (r *OrderRepo) Update(o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $3, priority = $4, scheduled_date = $5,
		    assigned_driver_id = $6, assigned_vehicle_id = $7,
		    payment_method = NULLIF($8, ''), amount_received = $9,
		    payment_reference = NULLIF($10, ''), signature_reference = NULLIF($11, ''),
		    signer_name = NULLIF($12, ''), photo_reference = NULLIF($13, ''),
		    delivered_latitude = $14, delivered_longitude = $15, delivered_at = $16,
		    updated_at = $17
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		o.TenantID, o.ID, o.Status, o.Priority, o.ScheduledDate,
		o.AssignedDriverID, o.AssignedVehicleID,
		o.PaymentMethod, o.AmountReceived,
		o.PaymentReference, o.SignatureReference,
		o.SignerName, o.PhotoReference,
		o.DeliveredLatitude, o.DeliveredLongitude, o.DeliveredAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// List lista pedidos del tenant con filtros opcionales por estado y cliente.
func (r *OrderRepo) List(tenantID, status, customerID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR customer_id = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, tenantID, status, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListItems devuelve las líneas del pedido.
func (r *OrderRepo) ListItems(tenantID, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, tenant_id, order_id, product_type, product_subtype,
		       quantity, unit_price, total_price
		FROM order_items
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(
			&item.ID, &item.TenantID, &item.OrderID, &item.ProductType, &item.ProductSubtype,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (r *OrderRepo) scanOne(query string, args ...any) (*entity.Order, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.TenantID, &o.OrderNumber, &o.CustomerID, &o.DeliveryAddressID,
		&o.Status, &o.Priority, &o.RequestedDate, &o.ScheduledDate,
		&o.Subtotal, &o.TaxTotal, &o.GrandTotal,
		&o.AssignedDriverID, &o.AssignedVehicleID,
		&o.DeliveryLatitude, &o.DeliveryLongitude,
		&o.PaymentMethod, &o.AmountReceived,
		&o.PaymentReference, &o.SignatureReference,
		&o.SignerName, &o.PhotoReference,
		&o.DeliveredLatitude, &o.DeliveredLongitude, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}
