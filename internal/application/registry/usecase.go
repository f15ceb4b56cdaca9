// Package registry implementa el registro de activos: identidad, estado y
// dueño actual de cada unidad física serializada. Es la dependencia hoja del
// resto del motor; toda mutación de un activo pasa por aquí y deja bitácora.
package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/serial"
)

// UseCase operaciones del registro de activos.
type UseCase struct {
	assetRepo   repository.AssetRepository
	historyRepo repository.AssetHistoryRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(assetRepo repository.AssetRepository, historyRepo repository.AssetHistoryRepository) *UseCase {
	return &UseCase{assetRepo: assetRepo, historyRepo: historyRepo}
}

// Register crea un activo en in_stock. Si no viene serial se genera uno con
// formato <prefijo>-<time36>-<rand4>; la unicidad por tenant la garantiza el
// índice de la base (ErrDuplicate). Deja evento "created" en la bitácora.
func (uc *UseCase) Register(tenantID, userID string, in dto.RegisterAssetRequest) (*dto.AssetResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.ValidAssetType(in.Type) || in.Subtype == "" {
		return nil, domain.ErrInvalidInput
	}

	sn := in.Serial
	if sn == "" {
		prefix := serial.PrefixCylinder
		if in.Type == entity.AssetTypeTank {
			prefix = serial.PrefixTank
		}
		sn = serial.Generate(prefix)
	}

	now := time.Now()
	asset := &entity.Asset{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		Serial:         sn,
		Type:           in.Type,
		Subtype:        in.Subtype,
		Status:         entity.AssetStatusInStock,
		TareWeightKg:   in.TareWeightKg,
		CapacityKg:     in.CapacityKg,
		LastInspection: in.LastInspection,
		NextInspection: in.NextInspection,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.assetRepo.Create(asset); err != nil {
		return nil, err
	}

	if err := uc.historyRepo.Append(&entity.AssetHistoryEvent{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		AssetID:   asset.ID,
		Action:    entity.AssetActionCreated,
		NewValue:  entity.AssetStatusInStock,
		Actor:     userID,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return ToAssetResponse(asset), nil
}

// ChangeStatus escribe el nuevo estado y deja evento "status_changed".
// No hay tabla de transiciones en esta capa: cualquier estado puede seguir a
// cualquier otro; las capas superiores son responsables de pedir transiciones
// sensatas.
func (uc *UseCase) ChangeStatus(tenantID, userID, assetID string, in dto.ChangeAssetStatusRequest) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	if !entity.ValidAssetStatus(in.Status) {
		return domain.ErrInvalidInput
	}
	asset, err := uc.assetRepo.GetByID(tenantID, assetID)
	if err != nil {
		return err
	}
	if asset == nil {
		return domain.ErrNotFound
	}
	if err := uc.assetRepo.UpdateStatus(tenantID, assetID, in.Status); err != nil {
		return err
	}
	return uc.historyRepo.Append(&entity.AssetHistoryEvent{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		AssetID:       assetID,
		Action:        entity.AssetActionStatusChanged,
		PreviousValue: asset.Status,
		NewValue:      in.Status,
		Actor:         userID,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
	})
}

// Delete elimina definitivamente un registro; solo para unidades dadas de
// baja o creadas por error. Un activo con dueño no se puede borrar.
func (uc *UseCase) Delete(tenantID, assetID string) error {
	if tenantID == "" {
		return domain.ErrUnauthorized
	}
	asset, err := uc.assetRepo.GetByID(tenantID, assetID)
	if err != nil {
		return err
	}
	if asset == nil {
		return domain.ErrNotFound
	}
	if asset.IsOwned() {
		return domain.ErrConflict
	}
	return uc.assetRepo.Delete(tenantID, assetID)
}

// GetByID obtiene un activo por ID.
func (uc *UseCase) GetByID(tenantID, assetID string) (*dto.AssetResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	asset, err := uc.assetRepo.GetByID(tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.ErrNotFound
	}
	return ToAssetResponse(asset), nil
}

// List lista activos del tenant con filtros opcionales por estado y tipo.
func (uc *UseCase) List(tenantID, status, assetType string, limit, offset int) (*dto.AssetListResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.assetRepo.List(tenantID, status, assetType, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AssetResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *ToAssetResponse(a))
	}
	return &dto.AssetListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// History devuelve la bitácora del activo en orden cronológico inverso.
func (uc *UseCase) History(tenantID, assetID string, limit, offset int) ([]dto.AssetHistoryEventResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	asset, err := uc.assetRepo.GetByID(tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.ErrNotFound
	}
	events, err := uc.historyRepo.ListByAsset(tenantID, assetID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssetHistoryEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.AssetHistoryEventResponse{
			ID:            e.ID,
			AssetID:       e.AssetID,
			Action:        e.Action,
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
			Actor:         e.Actor,
			Notes:         e.Notes,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}

// ToAssetResponse mapea la entidad al DTO de respuesta.
func ToAssetResponse(a *entity.Asset) *dto.AssetResponse {
	if a == nil {
		return nil
	}
	return &dto.AssetResponse{
		ID:               a.ID,
		TenantID:         a.TenantID,
		Serial:           a.Serial,
		Type:             a.Type,
		Subtype:          a.Subtype,
		Status:           a.Status,
		CurrentOwnerID:   a.CurrentOwnerID,
		CurrentOwnerType: a.CurrentOwnerType,
		TareWeightKg:     a.TareWeightKg,
		CapacityKg:       a.CapacityKg,
		LastInspection:   a.LastInspection,
		NextInspection:   a.NextInspection,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
