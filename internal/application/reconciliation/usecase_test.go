package reconciliation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/application/reconciliation"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

const (
	testTenant = "tenant-1"
	testUser   = "supervisor-1"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type fakeReturnRepo struct {
	returns map[string]*entity.ReturnLoad
	items   []*entity.ReturnLoadItem
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{returns: make(map[string]*entity.ReturnLoad)}
}

func (f *fakeReturnRepo) Create(r *entity.ReturnLoad, items []*entity.ReturnLoadItem) error {
	cp := *r
	cp.Items = nil
	f.returns[r.ID] = &cp
	for _, item := range items {
		ic := *item
		f.items = append(f.items, &ic)
	}
	return nil
}

func (f *fakeReturnRepo) GetByID(tenantID, id string) (*entity.ReturnLoad, error) {
	r, ok := f.returns[id]
	if !ok || r.TenantID != tenantID {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReturnRepo) GetByIDForUpdate(tenantID, id string) (*entity.ReturnLoad, error) {
	return f.GetByID(tenantID, id)
}

func (f *fakeReturnRepo) Update(r *entity.ReturnLoad) error {
	cp := *r
	cp.Items = nil
	f.returns[r.ID] = &cp
	return nil
}

func (f *fakeReturnRepo) ListByRouteLoad(tenantID, routeLoadID string) ([]*entity.ReturnLoad, error) {
	var out []*entity.ReturnLoad
	for _, r := range f.returns {
		if r.TenantID == tenantID && r.RouteLoadID == routeLoadID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeReturnRepo) ListItems(tenantID, returnLoadID string) ([]*entity.ReturnLoadItem, error) {
	var out []*entity.ReturnLoadItem
	for _, item := range f.items {
		if item.TenantID == tenantID && item.ReturnLoadID == returnLoadID {
			cp := *item
			out = append(out, &cp)
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

func (f *fakeAssetRepo) seedInRoute(serial, vehicleID string) *entity.Asset {
	owner := vehicleID
	a := &entity.Asset{
		ID:               "asset-" + serial,
		TenantID:         testTenant,
		Serial:           serial,
		Type:             entity.AssetTypeCylinder,
		Subtype:          entity.SubtypeCylinder20,
		Status:           entity.AssetStatusInRoute,
		CurrentOwnerID:   &owner,
		CurrentOwnerType: entity.OwnerTypeVehicle,
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
	a := f.assets[id]
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

type fakeLoadRepo struct {
	loads map[string]*entity.RouteLoad
}

func newFakeLoadRepo() *fakeLoadRepo {
	return &fakeLoadRepo{loads: make(map[string]*entity.RouteLoad)}
}

func (f *fakeLoadRepo) seed(id, status string) *entity.RouteLoad {
	rl := &entity.RouteLoad{ID: id, TenantID: testTenant, VehicleID: "veh-1", Status: status}
	f.loads[id] = rl
	return rl
}

func (f *fakeLoadRepo) Create(rl *entity.RouteLoad) error { f.loads[rl.ID] = rl; return nil }

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

func (f *fakeLoadRepo) Update(rl *entity.RouteLoad) error { f.loads[rl.ID] = rl; return nil }

func (f *fakeLoadRepo) ListByDateRange(tenantID string, from, to time.Time, limit, offset int) ([]*entity.RouteLoad, error) {
	return nil, nil
}

func (f *fakeLoadRepo) ActiveByDriver(tenantID, driverID string) (*entity.RouteLoad, error) {
	return nil, nil
}

func (f *fakeLoadRepo) AddItem(item *entity.RouteLoadItem) error { return nil }

func (f *fakeLoadRepo) ListItems(tenantID, routeLoadID string) ([]*entity.RouteLoadItem, error) {
	return nil, nil
}

func (f *fakeLoadRepo) ListTenantsWithLoads(date time.Time) ([]string, error) { return nil, nil }

type fakeDiscrepancyRepo struct {
	discrepancies map[string]*entity.Discrepancy
}

func newFakeDiscrepancyRepo() *fakeDiscrepancyRepo {
	return &fakeDiscrepancyRepo{discrepancies: make(map[string]*entity.Discrepancy)}
}

func (f *fakeDiscrepancyRepo) Create(d *entity.Discrepancy) error {
	cp := *d
	f.discrepancies[d.ID] = &cp
	return nil
}

func (f *fakeDiscrepancyRepo) GetByID(tenantID, id string) (*entity.Discrepancy, error) {
	d, ok := f.discrepancies[id]
	if !ok || d.TenantID != tenantID {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDiscrepancyRepo) GetByIDForUpdate(tenantID, id string) (*entity.Discrepancy, error) {
	return f.GetByID(tenantID, id)
}

func (f *fakeDiscrepancyRepo) Update(d *entity.Discrepancy) error {
	cp := *d
	f.discrepancies[d.ID] = &cp
	return nil
}

func (f *fakeDiscrepancyRepo) List(tenantID, status string, limit, offset int) ([]*entity.Discrepancy, error) {
	var out []*entity.Discrepancy
	for _, d := range f.discrepancies {
		if d.TenantID != tenantID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

type fakeTxRunner struct {
	returnRepo      *fakeReturnRepo
	assetRepo       *fakeAssetRepo
	historyRepo     *fakeHistoryRepo
	discrepancyRepo *fakeDiscrepancyRepo
}

func (f *fakeTxRunner) RunReturn(ctx context.Context, fn func(
	repository.ReturnLoadRepository,
	repository.AssetRepository,
	repository.AssetHistoryRepository,
	repository.DiscrepancyRepository,
) error) error {
	return fn(f.returnRepo, f.assetRepo, f.historyRepo, f.discrepancyRepo)
}

type fixture struct {
	uc            *reconciliation.UseCase
	returns       *fakeReturnRepo
	assets        *fakeAssetRepo
	loads         *fakeLoadRepo
	discrepancies *fakeDiscrepancyRepo
}

func newFixture() *fixture {
	returns := newFakeReturnRepo()
	assets := newFakeAssetRepo()
	loads := newFakeLoadRepo()
	discrepancies := newFakeDiscrepancyRepo()
	tx := &fakeTxRunner{
		returnRepo:      returns,
		assetRepo:       assets,
		historyRepo:     &fakeHistoryRepo{},
		discrepancyRepo: discrepancies,
	}
	return &fixture{
		uc:            reconciliation.NewUseCase(tx, returns, loads, discrepancies),
		returns:       returns,
		assets:        assets,
		loads:         loads,
		discrepancies: discrepancies,
	}
}

// ── CreateReturnLoad ──────────────────────────────────────────────────────────

func TestCreateReturnLoad_DerivaAgregadosDeLosItems(t *testing.T) {
	fx := newFixture()
	fx.loads.seed("ruta-1", entity.RouteLoadStatusCompleted)

	resp, err := fx.uc.CreateReturnLoad(testTenant, dto.CreateReturnLoadRequest{
		RouteLoadID: "ruta-1",
		VehicleID:   "veh-1",
		ReturnDate:  time.Now(),
		Items: []dto.ReturnItemRequest{
			{BucketType: entity.ReturnBucketFull, Quantity: 2, WeightKg: 40},
			{BucketType: entity.ReturnBucketEmpty, Quantity: 5, WeightKg: 50},
			{BucketType: entity.ReturnBucketExchange, Quantity: 3, WeightKg: 30},
			{BucketType: entity.ReturnBucketMissing, Quantity: 1},
			{BucketType: entity.ReturnBucketDamaged, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalFullReturned)
	assert.Equal(t, 5, resp.TotalEmptyReturned)
	assert.Equal(t, 3, resp.TotalExchanged)
	assert.Equal(t, 1, resp.TotalMissing)
	assert.Equal(t, 1, resp.TotalDamaged)
	assert.Equal(t, 40, resp.TotalFullWeightKg)
	assert.Equal(t, 80, resp.TotalEmptyWeightKg, "vacíos + intercambios")
	assert.Equal(t, entity.ReturnLoadStatusPending, resp.Status)
}

func TestCreateReturnLoad_CargaQueNuncaSalioEsInvalidTransition(t *testing.T) {
	fx := newFixture()
	fx.loads.seed("ruta-1", entity.RouteLoadStatusLoaded)

	_, err := fx.uc.CreateReturnLoad(testTenant, dto.CreateReturnLoadRequest{
		RouteLoadID: "ruta-1",
		VehicleID:   "veh-1",
		Items:       []dto.ReturnItemRequest{{BucketType: entity.ReturnBucketEmpty, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"Solo se concilia una carga que salió a ruta")
}

func TestCreateReturnLoad_CubetaDesconocidaEsInvalida(t *testing.T) {
	fx := newFixture()
	fx.loads.seed("ruta-1", entity.RouteLoadStatusCompleted)

	_, err := fx.uc.CreateReturnLoad(testTenant, dto.CreateReturnLoadRequest{
		RouteLoadID: "ruta-1",
		VehicleID:   "veh-1",
		Items:       []dto.ReturnItemRequest{{BucketType: "perdido", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── CompleteReturnLoad ────────────────────────────────────────────────────────

func TestCompleteReturnLoad_AsientaElDestinoDeCadaSerial(t *testing.T) {
	fx := newFixture()
	fx.loads.seed("ruta-1", entity.RouteLoadStatusCompleted)
	lleno := fx.assets.seedInRoute("CYL-0001", "veh-1")
	danado := fx.assets.seedInRoute("CYL-0002", "veh-1")
	faltante := fx.assets.seedInRoute("CYL-0003", "veh-1")

	resp, err := fx.uc.CreateReturnLoad(testTenant, dto.CreateReturnLoadRequest{
		RouteLoadID: "ruta-1",
		VehicleID:   "veh-1",
		Items: []dto.ReturnItemRequest{
			{BucketType: entity.ReturnBucketFull, Quantity: 1, Serials: []string{"CYL-0001"}},
			{BucketType: entity.ReturnBucketDamaged, Quantity: 1, Serials: []string{"CYL-0002"}},
			{BucketType: entity.ReturnBucketMissing, Quantity: 1, Serials: []string{"CYL-0003"}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.CompleteReturnLoad(context.Background(), testTenant, testUser, resp.ID,
		dto.CompleteReturnLoadRequest{Status: entity.ReturnLoadStatusCompleted}))

	a, _ := fx.assets.GetByID(testTenant, lleno.ID)
	assert.Equal(t, entity.AssetStatusInStock, a.Status, "Lo devuelto regresa a in_stock")
	assert.Nil(t, a.CurrentOwnerID)

	a, _ = fx.assets.GetByID(testTenant, danado.ID)
	assert.Equal(t, entity.AssetStatusMaintenance, a.Status, "Lo dañado pasa a maintenance")

	a, _ = fx.assets.GetByID(testTenant, faltante.ID)
	assert.Equal(t, entity.AssetStatusInRoute, a.Status,
		"Un faltante queda in_route hasta resolver su discrepancia")
	require.NotNil(t, a.CurrentOwnerID)

	stored := fx.returns.returns[resp.ID]
	assert.Equal(t, entity.ReturnLoadStatusCompleted, stored.Status)
	require.NotNil(t, stored.ResolvedBy)
	assert.Equal(t, testUser, *stored.ResolvedBy)
	assert.NotNil(t, stored.ResolvedAt)
}

func TestCompleteReturnLoad_SegundoCierreEsInvalidTransition(t *testing.T) {
	fx := newFixture()
	fx.loads.seed("ruta-1", entity.RouteLoadStatusCompleted)
	resp, err := fx.uc.CreateReturnLoad(testTenant, dto.CreateReturnLoadRequest{
		RouteLoadID: "ruta-1",
		VehicleID:   "veh-1",
		Items:       []dto.ReturnItemRequest{{BucketType: entity.ReturnBucketEmpty, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.CompleteReturnLoad(context.Background(), testTenant, testUser, resp.ID,
		dto.CompleteReturnLoadRequest{Status: entity.ReturnLoadStatusCompleted}))

	err = fx.uc.CompleteReturnLoad(context.Background(), testTenant, testUser, resp.ID,
		dto.CompleteReturnLoadRequest{Status: entity.ReturnLoadStatusCompleted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCompleteReturnLoad_CancelarNoTocaActivos(t *testing.T) {
	fx := newFixture()
	fx.loads.seed("ruta-1", entity.RouteLoadStatusCompleted)
	seeded := fx.assets.seedInRoute("CYL-0001", "veh-1")

	resp, err := fx.uc.CreateReturnLoad(testTenant, dto.CreateReturnLoadRequest{
		RouteLoadID: "ruta-1",
		VehicleID:   "veh-1",
		Items: []dto.ReturnItemRequest{
			{BucketType: entity.ReturnBucketFull, Quantity: 1, Serials: []string{"CYL-0001"}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.CompleteReturnLoad(context.Background(), testTenant, testUser, resp.ID,
		dto.CompleteReturnLoadRequest{Status: entity.ReturnLoadStatusCancelled}))

	a, _ := fx.assets.GetByID(testTenant, seeded.ID)
	assert.Equal(t, entity.AssetStatusInRoute, a.Status,
		"Cancelar la conciliación deja los activos como estaban")
}

// ── discrepancias ─────────────────────────────────────────────────────────────

func TestCreateDiscrepancy_NaceEnPending(t *testing.T) {
	fx := newFixture()
	val := decimal.NewFromInt(850)
	resp, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type:           entity.DiscrepancyTypeMissingAsset,
		Serial:         "CYL-0003",
		ExpectedQty:    1,
		ActualQty:      0,
		DiscrepancyQty: -1,
		EstimatedValue: &val,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DiscrepancyStatusPending, resp.Status)
	assert.Equal(t, -1, resp.DiscrepancyQty, "Negativo = faltante")
	assert.True(t, resp.EstimatedValue.Equal(val))
}

func TestStartInvestigation_SoloDesdePending(t *testing.T) {
	fx := newFixture()
	resp, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type:           entity.DiscrepancyTypeOther,
		DiscrepancyQty: -1,
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.StartInvestigation(context.Background(), testTenant, resp.ID))
	assert.Equal(t, entity.DiscrepancyStatusInvestigating, fx.discrepancies.discrepancies[resp.ID].Status)

	err = fx.uc.StartInvestigation(context.Background(), testTenant, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestResolve_EsTerminal(t *testing.T) {
	fx := newFixture()
	resp, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type:           entity.DiscrepancyTypeMissingAsset,
		DiscrepancyQty: -1,
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.Resolve(context.Background(), testTenant, testUser, resp.ID,
		dto.ResolveDiscrepancyRequest{Status: entity.DiscrepancyStatusResolved, ResolutionNotes: "apareció en almacén"}))

	err = fx.uc.Resolve(context.Background(), testTenant, testUser, resp.ID,
		dto.ResolveDiscrepancyRequest{Status: entity.DiscrepancyStatusWrittenOff})
	assert.ErrorIs(t, err, domain.ErrConflict,
		"La resolución es terminal: la corrección posterior es una discrepancia nueva")
}

func TestResolve_ResolvedRegresaElSerialAInStock(t *testing.T) {
	fx := newFixture()
	seeded := fx.assets.seedInRoute("CYL-0003", "veh-1")
	resp, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type:           entity.DiscrepancyTypeMissingAsset,
		Serial:         "CYL-0003",
		DiscrepancyQty: -1,
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.Resolve(context.Background(), testTenant, testUser, resp.ID,
		dto.ResolveDiscrepancyRequest{Status: entity.DiscrepancyStatusResolved}))

	a, _ := fx.assets.GetByID(testTenant, seeded.ID)
	assert.Equal(t, entity.AssetStatusInStock, a.Status)
	assert.Nil(t, a.CurrentOwnerID)
}

func TestResolve_WrittenOffDaDeBajaElSerial(t *testing.T) {
	fx := newFixture()
	seeded := fx.assets.seedInRoute("CYL-0004", "veh-1")
	resp, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type:           entity.DiscrepancyTypeMissingAsset,
		Serial:         "CYL-0004",
		DiscrepancyQty: -1,
	})
	require.NoError(t, err)

	require.NoError(t, fx.uc.Resolve(context.Background(), testTenant, testUser, resp.ID,
		dto.ResolveDiscrepancyRequest{Status: entity.DiscrepancyStatusWrittenOff, ResolutionNotes: "pérdida asumida"}))

	a, _ := fx.assets.GetByID(testTenant, seeded.ID)
	assert.Equal(t, entity.AssetStatusRetired, a.Status,
		"Castigar la discrepancia da de baja el activo")

	d := fx.discrepancies.discrepancies[resp.ID]
	require.NotNil(t, d.ResolvedBy)
	assert.Equal(t, testUser, *d.ResolvedBy)
}

func TestListDiscrepancies_FiltraPorEstado(t *testing.T) {
	fx := newFixture()
	_, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type: entity.DiscrepancyTypeOther, DiscrepancyQty: -1,
	})
	require.NoError(t, err)
	resuelto, err := fx.uc.CreateDiscrepancy(testTenant, dto.CreateDiscrepancyRequest{
		Type: entity.DiscrepancyTypeOther, DiscrepancyQty: 1,
	})
	require.NoError(t, err)
	require.NoError(t, fx.uc.Resolve(context.Background(), testTenant, testUser, resuelto.ID,
		dto.ResolveDiscrepancyRequest{Status: entity.DiscrepancyStatusResolved}))

	pendientes, err := fx.uc.ListDiscrepancies(testTenant, entity.DiscrepancyStatusPending, 50, 0)
	require.NoError(t, err)
	assert.Len(t, pendientes.Items, 1)
}
