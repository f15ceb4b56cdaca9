// Package fulfillment implementa el ciclo de vida de pedidos de entrega:
// creación con totales e IVA, la máquina de estados con bitácora y la
// confirmación de entrega con pago, firma y verificación GPS.
package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/delivery"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	orderdomain "github.com/OscarV-prog/gasera-sub000/internal/domain/order"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/serial"
)

// UseCase operaciones del ciclo de vida de pedidos.
type UseCase struct {
	txRunner           TxRunner
	orderRepo          repository.OrderRepository
	historyRepo        repository.OrderHistoryRepository
	defaultRadiusMeter float64
}

// NewUseCase construye el caso de uso. defaultRadiusMeters es el radio GPS
// operativo del tenant (config); 0 usa el default del dominio (100 m).
func NewUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, historyRepo repository.OrderHistoryRepository, defaultRadiusMeters float64) *UseCase {
	if defaultRadiusMeters == 0 {
		defaultRadiusMeters = delivery.DefaultRadiusMeters
	}
	return &UseCase{
		txRunner:           txRunner,
		orderRepo:          orderRepo,
		historyRepo:        historyRepo,
		defaultRadiusMeter: defaultRadiusMeters,
	}
}

// Create registra un pedido en pending. Calcula el total por línea
// (cantidad × precio unitario), el subtotal, el IVA al 16% redondeado a
// unidades enteras de moneda y el gran total. Genera folio PED-... y escribe
// el pedido junto con el evento inicial de bitácora en la misma transacción:
// no puede existir un pedido sin su primer evento.
func (uc *UseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.CustomerID == "" || in.DeliveryAddressID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.OrderPriorityNormal
	}
	if !entity.ValidOrderPriority(priority) {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if !entity.ValidAssetType(item.ProductType) || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	orderID := uuid.New().String()
	items := make([]*entity.OrderItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, item := range in.Items {
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, &entity.OrderItem{
			ID:             uuid.New().String(),
			TenantID:       tenantID,
			OrderID:        orderID,
			ProductType:    item.ProductType,
			ProductSubtype: item.ProductSubtype,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     total,
		})
		subtotal = subtotal.Add(total)
	}
	// IVA redondeado a unidades enteras de moneda, como factura la operación.
	tax := subtotal.Mul(decimal.NewFromInt(entity.TaxRatePercent)).Div(decimal.NewFromInt(100)).Round(0)

	ord := &entity.Order{
		ID:                orderID,
		TenantID:          tenantID,
		OrderNumber:       serial.Generate(serial.PrefixOrder),
		CustomerID:        in.CustomerID,
		DeliveryAddressID: in.DeliveryAddressID,
		Status:            entity.OrderStatusPending,
		Priority:          priority,
		RequestedDate:     in.RequestedDate,
		ScheduledDate:     in.ScheduledDate,
		Subtotal:          subtotal,
		TaxTotal:          tax,
		GrandTotal:        subtotal.Add(tax),
		DeliveryLatitude:  in.DeliveryLatitude,
		DeliveryLongitude: in.DeliveryLongitude,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderRepository, historyRepo repository.OrderHistoryRepository) error {
		if err := orderRepo.Create(ord, items); err != nil {
			return err
		}
		return historyRepo.Append(&entity.OrderHistoryEvent{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			OrderID:   orderID,
			NewStatus: entity.OrderStatusPending,
			Actor:     userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	ord.Items = items
	return toOrderResponse(ord, nil), nil
}

// Transition aplica un cambio de estado genérico validado contra la tabla de
// adyacencia. El pedido se bloquea, se valida con el estado fresco y se
// escribe junto con su evento de bitácora en la misma transacción.
func (uc *UseCase) Transition(ctx context.Context, tenantID, userID, orderID string, in dto.TransitionOrderRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	if !orderdomain.ValidStatus(in.Status) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		historyRepo repository.OrderHistoryRepository,
	) error {
		ord, err := orderRepo.GetByIDForUpdate(tenantID, orderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if !orderdomain.CanTransition(ord.Status, in.Status) {
			return domain.ErrInvalidTransition
		}
		prev := ord.Status
		ord.Status = in.Status
		ord.UpdatedAt = time.Now()
		if err := orderRepo.Update(ord); err != nil {
			return err
		}
		return historyRepo.Append(&entity.OrderHistoryEvent{
			ID:             uuid.New().String(),
			TenantID:       tenantID,
			OrderID:        orderID,
			PreviousStatus: prev,
			NewStatus:      in.Status,
			Actor:          userID,
			Notes:          in.Notes,
			CreatedAt:      time.Now(),
		})
	})
}

// AssignToRoute empareja un pedido pending con el chofer y vehículo de una
// carga de ruta (pending → assigned).
func (uc *UseCase) AssignToRoute(ctx context.Context, tenantID, userID, orderID string, in dto.AssignOrderRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	if in.DriverID == "" || in.VehicleID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		historyRepo repository.OrderHistoryRepository,
	) error {
		ord, err := orderRepo.GetByIDForUpdate(tenantID, orderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if !orderdomain.CanTransition(ord.Status, entity.OrderStatusAssigned) {
			return domain.ErrInvalidTransition
		}
		prev := ord.Status
		ord.Status = entity.OrderStatusAssigned
		ord.AssignedDriverID = &in.DriverID
		ord.AssignedVehicleID = &in.VehicleID
		ord.UpdatedAt = time.Now()
		if err := orderRepo.Update(ord); err != nil {
			return err
		}
		return historyRepo.Append(&entity.OrderHistoryEvent{
			ID:             uuid.New().String(),
			TenantID:       tenantID,
			OrderID:        orderID,
			PreviousStatus: prev,
			NewStatus:      entity.OrderStatusAssigned,
			Actor:          userID,
			Notes:          in.Notes,
			CreatedAt:      time.Now(),
		})
	})
}

// CompleteDelivery confirma la entrega (in_progress → delivered) registrando
// pago, firma y coordenadas. El nombre del firmante debe medir entre 2 y 100
// caracteres. Las coordenadas reportadas se guardan tal cual: la verificación
// GPS es consultiva (VerifyDeliveryLocation), no bloquea la entrega.
func (uc *UseCase) CompleteDelivery(ctx context.Context, tenantID, userID, orderID string, in dto.CompleteDeliveryRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return domain.ErrInvalidInput
	}
	if len(in.SignerName) < 2 || len(in.SignerName) > 100 {
		return domain.ErrInvalidInput
	}
	if in.AmountReceived.IsNegative() {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		historyRepo repository.OrderHistoryRepository,
	) error {
		ord, err := orderRepo.GetByIDForUpdate(tenantID, orderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if !orderdomain.CanTransition(ord.Status, entity.OrderStatusDelivered) {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		prev := ord.Status
		ord.Status = entity.OrderStatusDelivered
		ord.PaymentMethod = in.PaymentMethod
		ord.AmountReceived = in.AmountReceived
		ord.PaymentReference = in.PaymentReference
		ord.SignatureReference = in.SignatureReference
		ord.SignerName = in.SignerName
		ord.PhotoReference = in.PhotoReference
		ord.DeliveredLatitude = in.Latitude
		ord.DeliveredLongitude = in.Longitude
		ord.DeliveredAt = &now
		ord.UpdatedAt = now
		if err := orderRepo.Update(ord); err != nil {
			return err
		}
		return historyRepo.Append(&entity.OrderHistoryEvent{
			ID:             uuid.New().String(),
			TenantID:       tenantID,
			OrderID:        orderID,
			PreviousStatus: prev,
			NewStatus:      entity.OrderStatusDelivered,
			Actor:          userID,
			Notes:          in.Notes,
			CreatedAt:      now,
		})
	})
}

// VerifyDeliveryLocation compara la posición reportada del chofer contra las
// coordenadas de entrega del pedido (Haversine). El radio default es 100 m,
// acotado a [10, 1000]; un pedido sin coordenadas valida por omisión. El
// resultado es consultivo.
func (uc *UseCase) VerifyDeliveryLocation(tenantID, orderID string, in dto.VerifyLocationRequest) (*dto.VerifyLocationResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	radius := uc.defaultRadiusMeter
	if in.MaxDistanceMeters != nil {
		radius = *in.MaxDistanceMeters
	}
	if !delivery.ValidRadius(radius) {
		return nil, domain.ErrInvalidInput
	}
	ord, err := uc.orderRepo.GetByID(tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	if ord.DeliveryLatitude == nil || ord.DeliveryLongitude == nil {
		return &dto.VerifyLocationResponse{
			Valid:             true,
			MaxDistanceMeters: radius,
			HasCoordinates:    false,
		}, nil
	}
	ok, dist := delivery.WithinRadius(
		*ord.DeliveryLatitude, *ord.DeliveryLongitude,
		in.Latitude, in.Longitude,
		radius,
	)
	return &dto.VerifyLocationResponse{
		Valid:             ok,
		DistanceMeters:    dist,
		MaxDistanceMeters: radius,
		HasCoordinates:    true,
	}, nil
}

// GetByID obtiene el pedido con líneas y bitácora.
func (uc *UseCase) GetByID(tenantID, orderID string) (*dto.OrderResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	ord, err := uc.orderRepo.GetByID(tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.ListItems(tenantID, orderID)
	if err != nil {
		return nil, err
	}
	history, err := uc.historyRepo.ListByOrder(tenantID, orderID, 100, 0)
	if err != nil {
		return nil, err
	}
	ord.Items = items
	return toOrderResponse(ord, history), nil
}

// List lista pedidos del tenant con filtros opcionales por estado y cliente.
func (uc *UseCase) List(tenantID, status, customerID string, limit, offset int) (*dto.OrderListResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if status != "" && !orderdomain.ValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.orderRepo.List(tenantID, status, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toOrderResponse(o *entity.Order, history []*entity.OrderHistoryEvent) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OrderResponse{
		ID:                o.ID,
		TenantID:          o.TenantID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		DeliveryAddressID: o.DeliveryAddressID,
		Status:            o.Status,
		Priority:          o.Priority,
		RequestedDate:     o.RequestedDate,
		ScheduledDate:     o.ScheduledDate,
		Subtotal:          o.Subtotal,
		TaxTotal:          o.TaxTotal,
		GrandTotal:        o.GrandTotal,
		AssignedDriverID:  o.AssignedDriverID,
		AssignedVehicleID: o.AssignedVehicleID,
		PaymentMethod:     o.PaymentMethod,
		AmountReceived:    o.AmountReceived,
		SignerName:        o.SignerName,
		DeliveredAt:       o.DeliveredAt,
		CreatedAt:         o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:             item.ID,
			ProductType:    item.ProductType,
			ProductSubtype: item.ProductSubtype,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
		})
	}
	for _, e := range history {
		resp.History = append(resp.History, dto.OrderHistoryEventResponse{
			ID:             e.ID,
			PreviousStatus: e.PreviousStatus,
			NewStatus:      e.NewStatus,
			Actor:          e.Actor,
			Notes:          e.Notes,
			CreatedAt:      e.CreatedAt,
		})
	}
	return resp
}
