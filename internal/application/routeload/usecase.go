// Package routeload implementa el ciclo de carga, despacho y retorno de un
// vehículo. Es el único lugar donde cargar un camión saca inventario del
// almacén: cada item serializado se asigna al vehículo vía el registro de
// activos, dentro de la misma transacción que actualiza la carga.
package routeload

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/load"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

// UseCase operaciones del ciclo de carga de ruta.
type UseCase struct {
	txRunner    TxRunner
	loadRepo    repository.RouteLoadRepository
	summaryRepo repository.DailyLoadSummaryRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, loadRepo repository.RouteLoadRepository, summaryRepo repository.DailyLoadSummaryRepository) *UseCase {
	return &UseCase{txRunner: txRunner, loadRepo: loadRepo, summaryRepo: summaryRepo}
}

// Create inserta una carga de ruta en pending para un vehículo y fecha.
func (uc *UseCase) Create(tenantID string, in dto.CreateRouteLoadRequest) (*dto.RouteLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.VehicleID == "" || in.LoadDate.IsZero() || in.PlannedDeliveries < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	rl := &entity.RouteLoad{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		VehicleID:         in.VehicleID,
		DriverID:          in.DriverID,
		LoadDate:          in.LoadDate,
		Status:            entity.RouteLoadStatusPending,
		PlannedDeliveries: in.PlannedDeliveries,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.loadRepo.Create(rl); err != nil {
		return nil, err
	}
	return toRouteLoadResponse(rl, nil), nil
}

// RegisterLoad registra items de carga sobre una carga en pending o loading.
// Por cada item serializado asigna los activos al vehículo (el activo debe
// estar libre: doble carga → ErrConflict) y acumula los totales por tipo.
// El estado progresa pending→loading en la primera pasada y loading→loaded
// en la siguiente, lo que permite cargar en varias pasadas de almacén.
// TODO: evaluar un FinalizeLoading explícito en lugar de inferir el cierre
// de carga del orden de llamadas.
func (uc *UseCase) RegisterLoad(ctx context.Context, tenantID, userID, routeLoadID string, in dto.RegisterLoadRequest) (*dto.RouteLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if !entity.ValidAssetType(item.AssetType) || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if len(item.Serials) > 0 && len(item.Serials) != item.Quantity {
			return nil, domain.ErrInvalidInput
		}
		if item.WeightPerUnitKg == 0 && load.DefaultWeightKg(item.AssetSubtype) == 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.RouteLoad
	var resultItems []*entity.RouteLoadItem
	err := uc.txRunner.Run(ctx, func(
		loadRepo repository.RouteLoadRepository,
		assetRepo repository.AssetRepository,
		historyRepo repository.AssetHistoryRepository,
	) error {
		rl, err := loadRepo.GetByIDForUpdate(tenantID, routeLoadID)
		if err != nil {
			return err
		}
		if rl == nil {
			return domain.ErrNotFound
		}
		if !rl.CanRegisterLoad() {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		for _, item := range in.Items {
			wpu := item.WeightPerUnitKg
			if wpu == 0 {
				wpu = load.DefaultWeightKg(item.AssetSubtype)
			}
			li := &entity.RouteLoadItem{
				ID:              uuid.New().String(),
				TenantID:        tenantID,
				RouteLoadID:     rl.ID,
				AssetType:       item.AssetType,
				AssetSubtype:    item.AssetSubtype,
				Quantity:        item.Quantity,
				WeightPerUnitKg: wpu,
				TotalWeightKg:   item.Quantity * wpu,
				Serials:         item.Serials,
				CreatedAt:       now,
			}

			// Único punto donde cargar el camión mueve inventario: cada
			// serial se bloquea, se asigna al vehículo y deja bitácora.
			for _, sn := range item.Serials {
				asset, err := assetRepo.GetBySerialForUpdate(tenantID, sn)
				if err != nil {
					return err
				}
				if asset == nil {
					return domain.ErrNotFound
				}
				if err := assetRepo.AssignOwner(tenantID, asset.ID, rl.VehicleID, entity.OwnerTypeVehicle); err != nil {
					return err
				}
				if err := historyRepo.Append(&entity.AssetHistoryEvent{
					ID:            uuid.New().String(),
					TenantID:      tenantID,
					AssetID:       asset.ID,
					Action:        entity.AssetActionAssigned,
					PreviousValue: asset.Status,
					NewValue:      entity.AssetStatusInRoute,
					Actor:         userID,
					Notes:         entity.OwnerTypeVehicle + ":" + rl.VehicleID,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
				li.AssetIDs = append(li.AssetIDs, asset.ID)
			}

			if err := loadRepo.AddItem(li); err != nil {
				return err
			}

			switch item.AssetType {
			case entity.AssetTypeCylinder:
				rl.TotalCylinders += item.Quantity
			case entity.AssetTypeTank:
				rl.TotalTanks += item.Quantity
			}
			rl.TotalWeightKg += li.TotalWeightKg
			resultItems = append(resultItems, li)
		}

		if rl.Status == entity.RouteLoadStatusPending {
			rl.Status = entity.RouteLoadStatusLoading
		} else {
			rl.Status = entity.RouteLoadStatusLoaded
		}
		rl.UpdatedAt = now
		if err := loadRepo.Update(rl); err != nil {
			return err
		}
		result = rl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRouteLoadResponse(result, resultItems), nil
}

// Dispatch despacha la carga: solo desde loaded o loading; registra la hora
// de salida (default: ahora).
func (uc *UseCase) Dispatch(ctx context.Context, tenantID, routeLoadID string, in dto.DispatchRouteLoadRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.Run(ctx, func(
		loadRepo repository.RouteLoadRepository,
		_ repository.AssetRepository,
		_ repository.AssetHistoryRepository,
	) error {
		rl, err := loadRepo.GetByIDForUpdate(tenantID, routeLoadID)
		if err != nil {
			return err
		}
		if rl == nil {
			return domain.ErrNotFound
		}
		if rl.Status != entity.RouteLoadStatusLoaded && rl.Status != entity.RouteLoadStatusLoading {
			return domain.ErrInvalidTransition
		}
		departure := time.Now()
		if in.DepartureTime != nil {
			departure = *in.DepartureTime
		}
		rl.Status = entity.RouteLoadStatusDispatched
		rl.DepartureTime = &departure
		rl.UpdatedAt = time.Now()
		return loadRepo.Update(rl)
	})
}

// Start marca el inicio de entregas del chofer (dispatched → in_progress).
func (uc *UseCase) Start(ctx context.Context, tenantID, routeLoadID string) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.Run(ctx, func(
		loadRepo repository.RouteLoadRepository,
		_ repository.AssetRepository,
		_ repository.AssetHistoryRepository,
	) error {
		rl, err := loadRepo.GetByIDForUpdate(tenantID, routeLoadID)
		if err != nil {
			return err
		}
		if rl == nil {
			return domain.ErrNotFound
		}
		if rl.Status != entity.RouteLoadStatusDispatched {
			return domain.ErrInvalidTransition
		}
		rl.Status = entity.RouteLoadStatusInProgress
		rl.UpdatedAt = time.Now()
		return loadRepo.Update(rl)
	})
}

// Complete cierra la ruta: registra hora de regreso y el conteo de entregas
// (opcionalmente corregido). No libera activos: el destino de cada unidad
// (entregada, devuelta o faltante) solo se conoce tras la conciliación.
func (uc *UseCase) Complete(ctx context.Context, tenantID, routeLoadID string, in dto.CompleteRouteLoadRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.Run(ctx, func(
		loadRepo repository.RouteLoadRepository,
		_ repository.AssetRepository,
		_ repository.AssetHistoryRepository,
	) error {
		rl, err := loadRepo.GetByIDForUpdate(tenantID, routeLoadID)
		if err != nil {
			return err
		}
		if rl == nil {
			return domain.ErrNotFound
		}
		if rl.Status != entity.RouteLoadStatusDispatched && rl.Status != entity.RouteLoadStatusInProgress {
			return domain.ErrInvalidTransition
		}
		ret := time.Now()
		if in.ReturnTime != nil {
			ret = *in.ReturnTime
		}
		if in.CompletedDeliveries != nil {
			rl.CompletedDeliveries = *in.CompletedDeliveries
		}
		if in.Notes != "" {
			rl.Notes = appendNote(rl.Notes, in.Notes)
		}
		rl.Status = entity.RouteLoadStatusCompleted
		rl.ReturnTime = &ret
		rl.UpdatedAt = time.Now()
		return loadRepo.Update(rl)
	})
}

// Cancel cancela una carga no terminal. Si ya había items cargados, libera
// todos los activos serializados de vuelta a in_stock en la misma transacción
// que marca la cancelación, así nunca quedan activos varados in_route sin
// carga dueña. Cancelar dos veces es ErrInvalidTransition, no una segunda
// liberación.
func (uc *UseCase) Cancel(ctx context.Context, tenantID, userID, routeLoadID, reason string) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.Run(ctx, func(
		loadRepo repository.RouteLoadRepository,
		assetRepo repository.AssetRepository,
		historyRepo repository.AssetHistoryRepository,
	) error {
		rl, err := loadRepo.GetByIDForUpdate(tenantID, routeLoadID)
		if err != nil {
			return err
		}
		if rl == nil {
			return domain.ErrNotFound
		}
		if rl.IsTerminal() {
			return domain.ErrInvalidTransition
		}

		if rl.Status != entity.RouteLoadStatusPending {
			items, err := loadRepo.ListItems(tenantID, routeLoadID)
			if err != nil {
				return err
			}
			var assetIDs []string
			for _, item := range items {
				assetIDs = append(assetIDs, item.AssetIDs...)
			}
			if len(assetIDs) > 0 {
				if err := assetRepo.ReleaseOwners(tenantID, assetIDs, entity.AssetStatusInStock); err != nil {
					return err
				}
				now := time.Now()
				for _, id := range assetIDs {
					if err := historyRepo.Append(&entity.AssetHistoryEvent{
						ID:            uuid.New().String(),
						TenantID:      tenantID,
						AssetID:       id,
						Action:        entity.AssetActionReleased,
						PreviousValue: entity.AssetStatusInRoute,
						NewValue:      entity.AssetStatusInStock,
						Actor:         userID,
						Notes:         "cancelación de carga " + routeLoadID,
						CreatedAt:     now,
					}); err != nil {
						return err
					}
				}
			}
		}

		if reason != "" {
			rl.Notes = appendNote(rl.Notes, reason)
		}
		rl.Status = entity.RouteLoadStatusCancelled
		rl.UpdatedAt = time.Now()
		return loadRepo.Update(rl)
	})
}

// GetByID obtiene la carga con sus items.
func (uc *UseCase) GetByID(tenantID, routeLoadID string) (*dto.RouteLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	rl, err := uc.loadRepo.GetByID(tenantID, routeLoadID)
	if err != nil {
		return nil, err
	}
	if rl == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.loadRepo.ListItems(tenantID, routeLoadID)
	if err != nil {
		return nil, err
	}
	return toRouteLoadResponse(rl, items), nil
}

// ActiveForDriver devuelve la carga activa del chofer (contrato del cliente
// móvil), o ErrNotFound si no tiene ninguna.
func (uc *UseCase) ActiveForDriver(tenantID, driverID string) (*dto.RouteLoadResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if driverID == "" {
		return nil, domain.ErrInvalidInput
	}
	rl, err := uc.loadRepo.ActiveByDriver(tenantID, driverID)
	if err != nil {
		return nil, err
	}
	if rl == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.loadRepo.ListItems(tenantID, rl.ID)
	if err != nil {
		return nil, err
	}
	return toRouteLoadResponse(rl, items), nil
}

// List lista cargas del tenant en un rango de fechas.
func (uc *UseCase) List(tenantID string, from, to time.Time, limit, offset int) (*dto.RouteLoadListResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.loadRepo.ListByDateRange(tenantID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RouteLoadResponse, 0, len(list))
	for _, rl := range list {
		items = append(items, *toRouteLoadResponse(rl, nil))
	}
	return &dto.RouteLoadListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// DailySummary deriva el resumen del día escaneando las cargas y sumando en
// memoria. La tabla daily_load_summary es solo caché: esta suma es la verdad.
func (uc *UseCase) DailySummary(tenantID string, date time.Time) (*dto.DailyLoadSummaryResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	summary, err := uc.computeDailySummary(tenantID, date)
	if err != nil {
		return nil, err
	}
	return &dto.DailyLoadSummaryResponse{
		Date:                date.Format("2006-01-02"),
		TotalRouteLoads:     summary.TotalRouteLoads,
		Dispatched:          summary.Dispatched,
		Completed:           summary.Completed,
		Cancelled:           summary.Cancelled,
		TotalCylinders:      summary.TotalCylinders,
		TotalTanks:          summary.TotalTanks,
		TotalWeightKg:       summary.TotalWeightKg,
		PlannedDeliveries:   summary.PlannedDeliveries,
		CompletedDeliveries: summary.CompletedDeliveries,
	}, nil
}

// RefreshDailySummary recalcula y reescribe el caché del día para un tenant.
// Lo invoca el job programado; un caché desfasado nunca es fuente de verdad.
func (uc *UseCase) RefreshDailySummary(tenantID string, date time.Time) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	summary, err := uc.computeDailySummary(tenantID, date)
	if err != nil {
		return err
	}
	return uc.summaryRepo.Upsert(summary)
}

// TenantsWithLoads expone los tenants con cargas en la fecha (para el job).
func (uc *UseCase) TenantsWithLoads(date time.Time) ([]string, error) {
	return uc.loadRepo.ListTenantsWithLoads(date)
}

func (uc *UseCase) computeDailySummary(tenantID string, date time.Time) (*entity.DailyLoadSummary, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	loads, err := uc.loadRepo.ListByDateRange(tenantID, dayStart, dayEnd, 10000, 0)
	if err != nil {
		return nil, err
	}
	summary := &entity.DailyLoadSummary{
		TenantID:    tenantID,
		Date:        dayStart,
		GeneratedAt: time.Now(),
	}
	for _, rl := range loads {
		summary.TotalRouteLoads++
		switch rl.Status {
		case entity.RouteLoadStatusDispatched, entity.RouteLoadStatusInProgress:
			summary.Dispatched++
		case entity.RouteLoadStatusCompleted:
			summary.Completed++
		case entity.RouteLoadStatusCancelled:
			summary.Cancelled++
		}
		summary.TotalCylinders += rl.TotalCylinders
		summary.TotalTanks += rl.TotalTanks
		summary.TotalWeightKg += rl.TotalWeightKg
		summary.PlannedDeliveries += rl.PlannedDeliveries
		summary.CompletedDeliveries += rl.CompletedDeliveries
	}
	return summary, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + " | " + note
}

func toRouteLoadResponse(rl *entity.RouteLoad, items []*entity.RouteLoadItem) *dto.RouteLoadResponse {
	if rl == nil {
		return nil
	}
	resp := &dto.RouteLoadResponse{
		ID:                  rl.ID,
		TenantID:            rl.TenantID,
		VehicleID:           rl.VehicleID,
		DriverID:            rl.DriverID,
		LoadDate:            rl.LoadDate,
		Status:              rl.Status,
		PlannedDeliveries:   rl.PlannedDeliveries,
		CompletedDeliveries: rl.CompletedDeliveries,
		TotalCylinders:      rl.TotalCylinders,
		TotalTanks:          rl.TotalTanks,
		TotalWeightKg:       rl.TotalWeightKg,
		DepartureTime:       rl.DepartureTime,
		ReturnTime:          rl.ReturnTime,
		Notes:               rl.Notes,
		CreatedAt:           rl.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.RouteLoadItemResponse{
			ID:              item.ID,
			AssetType:       item.AssetType,
			AssetSubtype:    item.AssetSubtype,
			Quantity:        item.Quantity,
			WeightPerUnitKg: item.WeightPerUnitKg,
			TotalWeightKg:   item.TotalWeightKg,
			Serials:         item.Serials,
		})
	}
	return resp
}
