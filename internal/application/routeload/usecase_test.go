package routeload_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/application/routeload"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

const (
	testTenant  = "tenant-1"
	testUser    = "user-1"
	testVehicle = "veh-1"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type fakeLoadRepo struct {
	loads map[string]*entity.RouteLoad
	items []*entity.RouteLoadItem
}

func newFakeLoadRepo() *fakeLoadRepo {
	return &fakeLoadRepo{loads: make(map[string]*entity.RouteLoad)}
}

func (f *fakeLoadRepo) Create(rl *entity.RouteLoad) error {
	cp := *rl
	f.loads[rl.ID] = &cp
	return nil
}

func (f *fakeLoadRepo) GetByID(tenantID, id string) (*entity.RouteLoad, error) {
	rl, ok := f.loads[id]
	if !ok || rl.TenantID != tenantID {
		return nil, nil
	}
	cp := *rl
	return &cp, nil
}

func (f *fakeLoadRepo) GetByIDForUpdate(tenantID, id string) (*entity.RouteLoad, error) {
	return f.GetByID(tenantID, id)
}

func (f *fakeLoadRepo) Update(rl *entity.RouteLoad) error {
	cp := *rl
	f.loads[rl.ID] = &cp
	return nil
}

func (f *fakeLoadRepo) ListByDateRange(tenantID string, from, to time.Time, limit, offset int) ([]*entity.RouteLoad, error) {
	var out []*entity.RouteLoad
	for _, rl := range f.loads {
		if rl.TenantID != tenantID {
			continue
		}
		if rl.LoadDate.Before(from) || !rl.LoadDate.Before(to) {
			continue
		}
		cp := *rl
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeLoadRepo) ActiveByDriver(tenantID, driverID string) (*entity.RouteLoad, error) {
	for _, rl := range f.loads {
		if rl.TenantID == tenantID && rl.DriverID != nil && *rl.DriverID == driverID && !rl.IsTerminal() {
			cp := *rl
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLoadRepo) AddItem(item *entity.RouteLoadItem) error {
	cp := *item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeLoadRepo) ListItems(tenantID, routeLoadID string) ([]*entity.RouteLoadItem, error) {
	var out []*entity.RouteLoadItem
	for _, item := range f.items {
		if item.TenantID == tenantID && item.RouteLoadID == routeLoadID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLoadRepo) ListTenantsWithLoads(date time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, rl := range f.loads {
		day := rl.LoadDate.Format("2006-01-02")
		if day == date.Format("2006-01-02") && !seen[rl.TenantID] {
			seen[rl.TenantID] = true
			out = append(out, rl.TenantID)
		}
	}
	return out, nil
}

type fakeAssetRepo struct {
	assets map[string]*entity.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*entity.Asset)}
}

func (f *fakeAssetRepo) seed(serial string) *entity.Asset {
	a := &entity.Asset{
		ID:       "asset-" + serial,
		TenantID: testTenant,
		Serial:   serial,
		Type:     entity.AssetTypeCylinder,
		Subtype:  entity.SubtypeCylinder20,
		Status:   entity.AssetStatusInStock,
	}
	f.assets[a.ID] = a
	return a
}

func (f *fakeAssetRepo) Create(a *entity.Asset) error { f.assets[a.ID] = a; return nil }

func (f *fakeAssetRepo) GetByID(tenantID, id string) (*entity.Asset, error) {
	a, ok := f.assets[id]
	if !ok || a.TenantID != tenantID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssetRepo) GetBySerial(tenantID, serial string) (*entity.Asset, error) {
	for _, a := range f.assets {
		if a.TenantID == tenantID && a.Serial == serial {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAssetRepo) GetBySerialForUpdate(tenantID, serial string) (*entity.Asset, error) {
	return f.GetBySerial(tenantID, serial)
}

func (f *fakeAssetRepo) List(tenantID, status, assetType string, limit, offset int) ([]*entity.Asset, error) {
	return nil, nil
}

func (f *fakeAssetRepo) UpdateStatus(tenantID, id, status string) error {
	f.assets[id].Status = status
	return nil
}

func (f *fakeAssetRepo) AssignOwner(tenantID, id, ownerID, ownerType string) error {
	a, ok := f.assets[id]
	if !ok || a.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if a.CurrentOwnerID != nil && (*a.CurrentOwnerID != ownerID || a.CurrentOwnerType != ownerType) {
		return domain.ErrConflict
	}
	a.CurrentOwnerID = &ownerID
	a.CurrentOwnerType = ownerType
	a.Status = entity.AssetStatusInRoute
	return nil
}

func (f *fakeAssetRepo) ReleaseOwners(tenantID string, ids []string, newStatus string) error {
	for _, id := range ids {
		a, ok := f.assets[id]
		if !ok || a.TenantID != tenantID {
			continue
		}
		a.CurrentOwnerID = nil
		a.CurrentOwnerType = entity.OwnerTypeNone
		a.Status = newStatus
	}
	return nil
}

func (f *fakeAssetRepo) Delete(tenantID, id string) error { delete(f.assets, id); return nil }

type fakeHistoryRepo struct {
	events []*entity.AssetHistoryEvent
}

func (f *fakeHistoryRepo) Append(e *entity.AssetHistoryEvent) error {
	cp := *e
	f.events = append(f.events, &cp)
	return nil
}

func (f *fakeHistoryRepo) ListByAsset(tenantID, assetID string, limit, offset int) ([]*entity.AssetHistoryEvent, error) {
	return nil, nil
}

type fakeSummaryRepo struct {
	summaries map[string]*entity.DailyLoadSummary
}

func (f *fakeSummaryRepo) Upsert(s *entity.DailyLoadSummary) error {
	if f.summaries == nil {
		f.summaries = map[string]*entity.DailyLoadSummary{}
	}
	cp := *s
	f.summaries[s.TenantID+"|"+s.Date.Format("2006-01-02")] = &cp
	return nil
}

func (f *fakeSummaryRepo) Get(tenantID string, date time.Time) (*entity.DailyLoadSummary, error) {
	s, ok := f.summaries[tenantID+"|"+date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// fakeTxRunner invoca la función directamente sobre los fakes compartidos:
// los tests verifican semántica, no aislamiento transaccional.
type fakeTxRunner struct {
	loadRepo    *fakeLoadRepo
	assetRepo   *fakeAssetRepo
	historyRepo *fakeHistoryRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.RouteLoadRepository,
	repository.AssetRepository,
	repository.AssetHistoryRepository,
) error) error {
	return fn(f.loadRepo, f.assetRepo, f.historyRepo)
}

type fixture struct {
	uc      *routeload.UseCase
	loads   *fakeLoadRepo
	assets  *fakeAssetRepo
	history *fakeHistoryRepo
	summary *fakeSummaryRepo
}

func newFixture() *fixture {
	loads := newFakeLoadRepo()
	assets := newFakeAssetRepo()
	history := &fakeHistoryRepo{}
	summary := &fakeSummaryRepo{}
	tx := &fakeTxRunner{loadRepo: loads, assetRepo: assets, historyRepo: history}
	return &fixture{
		uc:      routeload.NewUseCase(tx, loads, summary),
		loads:   loads,
		assets:  assets,
		history: history,
		summary: summary,
	}
}

func (fx *fixture) createLoad(t *testing.T) *dto.RouteLoadResponse {
	t.Helper()
	driver := "chofer-1"
	resp, err := fx.uc.Create(testTenant, dto.CreateRouteLoadRequest{
		VehicleID:         testVehicle,
		DriverID:          &driver,
		LoadDate:          time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		PlannedDeliveries: 5,
	})
	require.NoError(t, err)
	return resp
}

// ── RegisterLoad ──────────────────────────────────────────────────────────────

func TestRegisterLoad_TotalesSonSumaDeItems(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	fx.assets.seed("CYL-0001")
	fx.assets.seed("CYL-0002")

	resp, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 2, Serials: []string{"CYL-0001", "CYL-0002"}},
			{AssetType: entity.AssetTypeTank, AssetSubtype: entity.SubtypeTank500, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalCylinders)
	assert.Equal(t, 1, resp.TotalTanks)
	// 2 × 20 kg (peso default de cil_20kg) + 1 × 275 kg (tanque_500l)
	assert.Equal(t, 315, resp.TotalWeightKg,
		"Los totales agregados deben ser la suma exacta de los items")
	assert.Equal(t, entity.RouteLoadStatusLoading, resp.Status,
		"La primera pasada de carga deja la carga en loading")
}

func TestRegisterLoad_AsignaSerialesAlVehiculo(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	seeded := fx.assets.seed("CYL-0001")

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1, Serials: []string{"CYL-0001"}},
		},
	})
	require.NoError(t, err)

	a, _ := fx.assets.GetByID(testTenant, seeded.ID)
	assert.Equal(t, entity.AssetStatusInRoute, a.Status)
	require.NotNil(t, a.CurrentOwnerID)
	assert.Equal(t, testVehicle, *a.CurrentOwnerID,
		"Cargar un serial debe dejar al vehículo como dueño")
	assert.Equal(t, entity.OwnerTypeVehicle, a.CurrentOwnerType)
}

func TestRegisterLoad_SerialYaCargadoEsConflict(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	a := fx.assets.seed("CYL-0001")
	otro := "veh-2"
	a.CurrentOwnerID = &otro
	a.CurrentOwnerType = entity.OwnerTypeVehicle
	a.Status = entity.AssetStatusInRoute

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1, Serials: []string{"CYL-0001"}},
		},
	})
	assert.ErrorIs(t, err, domain.ErrConflict,
		"Un serial ya cargado en otro vehículo debe rechazar la carga")
}

func TestRegisterLoad_SerialInexistenteEsNotFound(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1, Serials: []string{"NO-EXISTE"}},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterLoad_SubtipoDesconocidoSinPesoEsInvalido(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: "cil_7kg", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"Sin peso explícito ni default por subtipo no hay forma de calcular totales")
}

func TestRegisterLoad_SegundaPasadaCierraEnLoaded(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 3}},
	})
	require.NoError(t, err)

	resp, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder10, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RouteLoadStatusLoaded, resp.Status)
	assert.Equal(t, 5, resp.TotalCylinders)
	assert.Equal(t, 80, resp.TotalWeightKg, "3×20 + 2×10")
}

func TestRegisterLoad_SobreCargaDespachadaEsInvalidTransition(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	stored := fx.loads.loads[rl.ID]
	stored.Status = entity.RouteLoadStatusDispatched

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"No se agregan items después del despacho")
}

// ── Dispatch / Start / Complete ───────────────────────────────────────────────

func TestDispatch_SoloDesdeLoadedOLoading(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)

	err := fx.uc.Dispatch(context.Background(), testTenant, rl.ID, dto.DispatchRouteLoadRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"Despachar una carga vacía (pending) no está permitido")

	_, err = fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.Dispatch(context.Background(), testTenant, rl.ID, dto.DispatchRouteLoadRequest{}))
	stored := fx.loads.loads[rl.ID]
	assert.Equal(t, entity.RouteLoadStatusDispatched, stored.Status)
	assert.NotNil(t, stored.DepartureTime, "Despachar registra la hora de salida")
}

func TestStart_SoloDesdeDispatched(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)

	err := fx.uc.Start(context.Background(), testTenant, rl.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	fx.loads.loads[rl.ID].Status = entity.RouteLoadStatusDispatched
	require.NoError(t, fx.uc.Start(context.Background(), testTenant, rl.ID))
	assert.Equal(t, entity.RouteLoadStatusInProgress, fx.loads.loads[rl.ID].Status)
}

func TestComplete_RegistraRegresoYEntregas(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	fx.loads.loads[rl.ID].Status = entity.RouteLoadStatusInProgress

	done := 4
	require.NoError(t, fx.uc.Complete(context.Background(), testTenant, rl.ID, dto.CompleteRouteLoadRequest{
		CompletedDeliveries: &done,
	}))
	stored := fx.loads.loads[rl.ID]
	assert.Equal(t, entity.RouteLoadStatusCompleted, stored.Status)
	assert.Equal(t, 4, stored.CompletedDeliveries)
	assert.NotNil(t, stored.ReturnTime)
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func TestCancel_LiberaActivosYEsIdempotenteSeguro(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	seeded := fx.assets.seed("CYL-0001")

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1, Serials: []string{"CYL-0001"}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.Cancel(context.Background(), testTenant, testUser, rl.ID, "vehículo averiado"))

	a, _ := fx.assets.GetByID(testTenant, seeded.ID)
	assert.Equal(t, entity.AssetStatusInStock, a.Status,
		"Cancelar debe regresar los activos cargados a in_stock")
	assert.Nil(t, a.CurrentOwnerID)
	assert.Equal(t, entity.RouteLoadStatusCancelled, fx.loads.loads[rl.ID].Status)

	err = fx.uc.Cancel(context.Background(), testTenant, testUser, rl.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"La segunda cancelación no debe liberar nada dos veces")
}

func TestCancel_DespuesDelDespachoLiberaSeriales(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	seeded := fx.assets.seed("CYL-0001")

	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{
			{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 1, Serials: []string{"CYL-0001"}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, fx.uc.Dispatch(context.Background(), testTenant, rl.ID, dto.DispatchRouteLoadRequest{}))

	require.NoError(t, fx.uc.Cancel(context.Background(), testTenant, testUser, rl.ID, "ruta suspendida"))

	a, _ := fx.assets.GetByID(testTenant, seeded.ID)
	assert.Equal(t, entity.AssetStatusInStock, a.Status,
		"Cancelar una carga ya despachada también debe regresar los seriales a in_stock")
	assert.Nil(t, a.CurrentOwnerID)
	assert.Equal(t, entity.RouteLoadStatusCancelled, fx.loads.loads[rl.ID].Status)
}

func TestCancel_CompletadaEsInvalidTransition(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	fx.loads.loads[rl.ID].Status = entity.RouteLoadStatusCompleted

	err := fx.uc.Cancel(context.Background(), testTenant, testUser, rl.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ── consultas y resumen ───────────────────────────────────────────────────────

func TestActiveForDriver_SinCargaEsNotFound(t *testing.T) {
	fx := newFixture()
	_, err := fx.uc.ActiveForDriver(testTenant, "chofer-sin-ruta")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActiveForDriver_DevuelveCargaConItems(t *testing.T) {
	fx := newFixture()
	rl := fx.createLoad(t)
	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 2}},
	})
	require.NoError(t, err)

	resp, err := fx.uc.ActiveForDriver(testTenant, "chofer-1")
	require.NoError(t, err)
	assert.Equal(t, rl.ID, resp.ID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestDailySummary_DerivaDeLasCargas(t *testing.T) {
	fx := newFixture()
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	rl := fx.createLoad(t)
	_, err := fx.uc.RegisterLoad(context.Background(), testTenant, testUser, rl.ID, dto.RegisterLoadRequest{
		Items: []dto.LoadItemRequest{{AssetType: entity.AssetTypeCylinder, AssetSubtype: entity.SubtypeCylinder20, Quantity: 3}},
	})
	require.NoError(t, err)
	require.NoError(t, fx.uc.Dispatch(context.Background(), testTenant, rl.ID, dto.DispatchRouteLoadRequest{}))

	sum, err := fx.uc.DailySummary(testTenant, day)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalRouteLoads)
	assert.Equal(t, 1, sum.Dispatched)
	assert.Equal(t, 3, sum.TotalCylinders)
	assert.Equal(t, 60, sum.TotalWeightKg)
}

func TestRefreshDailySummary_ReescribeElCache(t *testing.T) {
	fx := newFixture()
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	fx.createLoad(t)

	require.NoError(t, fx.uc.RefreshDailySummary(testTenant, day))
	cached, err := fx.summary.Get(testTenant, day)
	require.NoError(t, err)
	require.NotNil(t, cached, "El refresco debe dejar el resumen en el caché")
	assert.Equal(t, 1, cached.TotalRouteLoads)
}
