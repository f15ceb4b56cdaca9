// Package reconciliation implementa el motor de conciliación: al retorno del
// vehículo se cuenta lo devuelto por cubeta, se cierra la conciliación
// decidiendo el destino de cada serial y las brechas se levantan como
// discrepancias explícitas que viven hasta resolverse o castigarse.
package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

// UseCase operaciones de conciliación de retornos y discrepancias.
type UseCase struct {
	txRunner        TxRunner
	returnRepo      repository.ReturnLoadRepository
	loadRepo        repository.RouteLoadRepository
	discrepancyRepo repository.DiscrepancyRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, returnRepo repository.ReturnLoadRepository, loadRepo repository.RouteLoadRepository, discrepancyRepo repository.DiscrepancyRepository) *UseCase {
	return &UseCase{txRunner: txRunner, returnRepo: returnRepo, loadRepo: loadRepo, discrepancyRepo: discrepancyRepo}
}

// CreateReturnLoad abre la conciliación de una carga de ruta con los conteos
// físicos por cubeta. La carga debe haber salido a ruta (dispatched,
// in_progress o completed); conciliar una carga que nunca salió es
// ErrInvalidTransition. Los agregados se derivan de los items, nunca vienen
// del cliente.
func (uc *UseCase) CreateReturnLoad(tenantID string, in dto.CreateReturnLoadRequest) (*dto.ReturnLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.RouteLoadID == "" || in.VehicleID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if !entity.ValidReturnBucket(item.BucketType) || item.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		if len(item.Serials) > 0 && len(item.Serials) != item.Quantity {
			return nil, domain.ErrInvalidInput
		}
	}

	rl, err := uc.loadRepo.GetByID(tenantID, in.RouteLoadID)
	if err != nil {
		return nil, err
	}
	if rl == nil {
		return nil, domain.ErrNotFound
	}
	switch rl.Status {
	case entity.RouteLoadStatusDispatched, entity.RouteLoadStatusInProgress, entity.RouteLoadStatusCompleted:
	default:
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	returnDate := in.ReturnDate
	if returnDate.IsZero() {
		returnDate = now
	}
	ret := &entity.ReturnLoad{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		RouteLoadID: in.RouteLoadID,
		VehicleID:   in.VehicleID,
		DriverID:    in.DriverID,
		ReturnDate:  returnDate,
		Status:      entity.ReturnLoadStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.ReturnLoadItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, &entity.ReturnLoadItem{
			ID:           uuid.New().String(),
			TenantID:     tenantID,
			ReturnLoadID: ret.ID,
			BucketType:   item.BucketType,
			OrderID:      item.OrderID,
			AssetType:    item.AssetType,
			AssetSubtype: item.AssetSubtype,
			Quantity:     item.Quantity,
			WeightKg:     item.WeightKg,
			Serials:      item.Serials,
			CreatedAt:    now,
		})
		switch item.BucketType {
		case entity.ReturnBucketFull:
			ret.TotalFullReturned += item.Quantity
			ret.TotalFullWeightKg += item.WeightKg
		case entity.ReturnBucketEmpty:
			ret.TotalEmptyReturned += item.Quantity
			ret.TotalEmptyWeightKg += item.WeightKg
		case entity.ReturnBucketExchange:
			ret.TotalExchanged += item.Quantity
			ret.TotalEmptyWeightKg += item.WeightKg
		case entity.ReturnBucketMissing:
			ret.TotalMissing += item.Quantity
		case entity.ReturnBucketDamaged:
			ret.TotalDamaged += item.Quantity
		}
	}
	if err := uc.returnRepo.Create(ret, items); err != nil {
		return nil, err
	}
	ret.Items = items
	return toReturnLoadResponse(ret), nil
}

// CompleteReturnLoad cierra una conciliación abierta. Al completar, cada
// serial contado decide el destino del activo: cubetas full, empty y exchange
// regresan a in_stock; damaged pasa a maintenance; los faltantes quedan
// in_route con el vehículo como dueño hasta que su discrepancia se resuelva.
// Cerrar una conciliación ya cerrada es ErrInvalidTransition.
func (uc *UseCase) CompleteReturnLoad(ctx context.Context, tenantID, userID, returnLoadID string, in dto.CompleteReturnLoadRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	if in.Status != entity.ReturnLoadStatusCompleted && in.Status != entity.ReturnLoadStatusCancelled {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunReturn(ctx, func(
		returnRepo repository.ReturnLoadRepository,
		assetRepo repository.AssetRepository,
		historyRepo repository.AssetHistoryRepository,
		_ repository.DiscrepancyRepository,
	) error {
		ret, err := returnRepo.GetByIDForUpdate(tenantID, returnLoadID)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.ErrNotFound
		}
		if !ret.IsOpen() {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		if in.Status == entity.ReturnLoadStatusCompleted {
			items, err := returnRepo.ListItems(tenantID, returnLoadID)
			if err != nil {
				return err
			}
			for _, item := range items {
				var target string
				switch item.BucketType {
				case entity.ReturnBucketFull, entity.ReturnBucketEmpty, entity.ReturnBucketExchange:
					target = entity.AssetStatusInStock
				case entity.ReturnBucketDamaged:
					target = entity.AssetStatusMaintenance
				default:
					continue
				}
				if err := settleSerials(assetRepo, historyRepo, tenantID, userID, item.Serials, target,
					"conciliación "+returnLoadID+" cubeta "+item.BucketType, now); err != nil {
					return err
				}
			}
		}

		if in.DiscrepancyNotes != "" {
			ret.DiscrepancyNotes = in.DiscrepancyNotes
		}
		ret.Status = in.Status
		ret.ResolvedBy = &userID
		ret.ResolvedAt = &now
		ret.UpdatedAt = now
		return returnRepo.Update(ret)
	})
}

// GetReturnLoad obtiene la conciliación con sus conteos.
func (uc *UseCase) GetReturnLoad(tenantID, returnLoadID string) (*dto.ReturnLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	ret, err := uc.returnRepo.GetByID(tenantID, returnLoadID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.returnRepo.ListItems(tenantID, returnLoadID)
	if err != nil {
		return nil, err
	}
	ret.Items = items
	return toReturnLoadResponse(ret), nil
}

// ListReturnLoadsByRoute lista las conciliaciones de una carga de ruta.
func (uc *UseCase) ListReturnLoadsByRoute(tenantID, routeLoadID string) ([]dto.ReturnLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.returnRepo.ListByRouteLoad(tenantID, routeLoadID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnLoadResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toReturnLoadResponse(r))
	}
	return out, nil
}

// CreateDiscrepancy levanta una discrepancia en pending. La brecha observada
// solo se vuelve pasivo rastreado mediante este acto deliberado.
func (uc *UseCase) CreateDiscrepancy(tenantID string, in dto.CreateDiscrepancyRequest) (*dto.DiscrepancyResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.ValidDiscrepancyType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	d := &entity.Discrepancy{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		ReturnLoadID:   in.ReturnLoadID,
		OrderID:        in.OrderID,
		Type:           in.Type,
		AssetType:      in.AssetType,
		Serial:         in.Serial,
		ExpectedQty:    in.ExpectedQty,
		ActualQty:      in.ActualQty,
		DiscrepancyQty: in.DiscrepancyQty,
		Status:         entity.DiscrepancyStatusPending,
		EstimatedValue: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.EstimatedValue != nil {
		d.EstimatedValue = *in.EstimatedValue
	}
	if err := uc.discrepancyRepo.Create(d); err != nil {
		return nil, err
	}
	return toDiscrepancyResponse(d), nil
}

// StartInvestigation mueve la discrepancia de pending a investigating.
func (uc *UseCase) StartInvestigation(ctx context.Context, tenantID, discrepancyID string) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.RunReturn(ctx, func(
		_ repository.ReturnLoadRepository,
		_ repository.AssetRepository,
		_ repository.AssetHistoryRepository,
		discrepancyRepo repository.DiscrepancyRepository,
	) error {
		d, err := discrepancyRepo.GetByIDForUpdate(tenantID, discrepancyID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DiscrepancyStatusPending {
			return domain.ErrInvalidTransition
		}
		d.Status = entity.DiscrepancyStatusInvestigating
		d.UpdatedAt = time.Now()
		return discrepancyRepo.Update(d)
	})
}

// Resolve cierra una discrepancia en resolved o written_off. Los cierres son
// terminales: resolver dos veces es ErrConflict, la corrección posterior es
// una discrepancia nueva. Si la discrepancia señala un serial, el activo se
// asienta en el mismo commit: resolved lo regresa a in_stock, written_off lo
// da de baja (retired).
func (uc *UseCase) Resolve(ctx context.Context, tenantID, userID, discrepancyID string, in dto.ResolveDiscrepancyRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	if in.Status != entity.DiscrepancyStatusResolved && in.Status != entity.DiscrepancyStatusWrittenOff {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunReturn(ctx, func(
		_ repository.ReturnLoadRepository,
		assetRepo repository.AssetRepository,
		historyRepo repository.AssetHistoryRepository,
		discrepancyRepo repository.DiscrepancyRepository,
	) error {
		d, err := discrepancyRepo.GetByIDForUpdate(tenantID, discrepancyID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.IsTerminal() {
			return domain.ErrConflict
		}

		now := time.Now()
		if d.Serial != "" {
			target := entity.AssetStatusInStock
			if in.Status == entity.DiscrepancyStatusWrittenOff {
				target = entity.AssetStatusRetired
			}
			if err := settleSerials(assetRepo, historyRepo, tenantID, userID, []string{d.Serial}, target,
				"resolución de discrepancia "+discrepancyID, now); err != nil {
				return err
			}
		}

		d.Status = in.Status
		d.ResolutionNotes = in.ResolutionNotes
		if in.EstimatedValue != nil {
			d.EstimatedValue = *in.EstimatedValue
		}
		d.ResolvedBy = &userID
		d.ResolvedAt = &now
		d.UpdatedAt = now
		return discrepancyRepo.Update(d)
	})
}

// GetDiscrepancy obtiene una discrepancia por ID.
func (uc *UseCase) GetDiscrepancy(tenantID, discrepancyID string) (*dto.DiscrepancyResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	d, err := uc.discrepancyRepo.GetByID(tenantID, discrepancyID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toDiscrepancyResponse(d), nil
}

// ListDiscrepancies lista discrepancias del tenant, opcionalmente por estado.
func (uc *UseCase) ListDiscrepancies(tenantID, status string, limit, offset int) (*dto.DiscrepancyListResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.discrepancyRepo.List(tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DiscrepancyResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDiscrepancyResponse(d))
	}
	return &dto.DiscrepancyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// settleSerials libera cada serial al estado destino dejando bitácora. Los
// seriales se bloquean uno a uno dentro de la transacción del caller.
func settleSerials(assetRepo repository.AssetRepository, historyRepo repository.AssetHistoryRepository,
	tenantID, userID string, serials []string, target, note string, now time.Time) error {
	for _, sn := range serials {
		asset, err := assetRepo.GetBySerialForUpdate(tenantID, sn)
		if err != nil {
			return err
		}
		if asset == nil {
			return domain.ErrNotFound
		}
		if err := assetRepo.ReleaseOwners(tenantID, []string{asset.ID}, target); err != nil {
			return err
		}
		if err := historyRepo.Append(&entity.AssetHistoryEvent{
			ID:            uuid.New().String(),
			TenantID:      tenantID,
			AssetID:       asset.ID,
			Action:        entity.AssetActionReleased,
			PreviousValue: asset.Status,
			NewValue:      target,
			Actor:         userID,
			Notes:         note,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func toReturnLoadResponse(r *entity.ReturnLoad) *dto.ReturnLoadResponse {
	if r == nil {
		return nil
	}
	resp := &dto.ReturnLoadResponse{
		ID:                 r.ID,
		TenantID:           r.TenantID,
		RouteLoadID:        r.RouteLoadID,
		VehicleID:          r.VehicleID,
		DriverID:           r.DriverID,
		ReturnDate:         r.ReturnDate,
		Status:             r.Status,
		TotalFullReturned:  r.TotalFullReturned,
		TotalEmptyReturned: r.TotalEmptyReturned,
		TotalExchanged:     r.TotalExchanged,
		TotalMissing:       r.TotalMissing,
		TotalDamaged:       r.TotalDamaged,
		TotalFullWeightKg:  r.TotalFullWeightKg,
		TotalEmptyWeightKg: r.TotalEmptyWeightKg,
		DiscrepancyNotes:   r.DiscrepancyNotes,
		ResolvedBy:         r.ResolvedBy,
		ResolvedAt:         r.ResolvedAt,
		CreatedAt:          r.CreatedAt,
	}
	for _, item := range r.Items {
		resp.Items = append(resp.Items, dto.ReturnLoadItemResponse{
			ID:           item.ID,
			BucketType:   item.BucketType,
			OrderID:      item.OrderID,
			AssetType:    item.AssetType,
			AssetSubtype: item.AssetSubtype,
			Quantity:     item.Quantity,
			WeightKg:     item.WeightKg,
			Serials:      item.Serials,
		})
	}
	return resp
}

func toDiscrepancyResponse(d *entity.Discrepancy) *dto.DiscrepancyResponse {
	if d == nil {
		return nil
	}
	return &dto.DiscrepancyResponse{
		ID:              d.ID,
		TenantID:        d.TenantID,
		ReturnLoadID:    d.ReturnLoadID,
		OrderID:         d.OrderID,
		Type:            d.Type,
		AssetType:       d.AssetType,
		Serial:          d.Serial,
		ExpectedQty:     d.ExpectedQty,
		ActualQty:       d.ActualQty,
		DiscrepancyQty:  d.DiscrepancyQty,
		Status:          d.Status,
		EstimatedValue:  d.EstimatedValue,
		ResolutionNotes: d.ResolutionNotes,
		ResolvedBy:      d.ResolvedBy,
		ResolvedAt:      d.ResolvedAt,
		CreatedAt:       d.CreatedAt,
	}
}
