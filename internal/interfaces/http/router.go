package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OscarV-prog/gasera-sub000/internal/application/fulfillment"
	"github.com/OscarV-prog/gasera-sub000/internal/application/incident"
	"github.com/OscarV-prog/gasera-sub000/internal/application/reconciliation"
	"github.com/OscarV-prog/gasera-sub000/internal/application/registry"
	"github.com/OscarV-prog/gasera-sub000/internal/application/routeload"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegistryUC       *registry.UseCase
	RouteLoadUC      *routeload.UseCase
	FulfillmentUC    *fulfillment.UseCase
	ReconciliationUC *reconciliation.UseCase
	IncidentUC       *incident.UseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas las rutas del motor requieren
// Bearer Token; las operaciones de back office exigen además rol admin o
// supervisor (el chofer solo opera su propia ruta).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	backOffice := RequireRole("admin", "supervisor")

	// Assets (registro de activos)
	assets := protected.Group("/assets")
	assetHandler := NewAssetHandler(deps.RegistryUC)
	assets.Post("/", backOffice, assetHandler.Register)
	assets.Get("/", assetHandler.List)
	assets.Get("/:id", assetHandler.GetByID)
	assets.Get("/:id/history", assetHandler.History)
	assets.Put("/:id/status", backOffice, assetHandler.ChangeStatus)
	assets.Delete("/:id", RequireRole("admin"), assetHandler.Delete)

	// Route loads (ciclo de carga). Las rutas fijas van antes que /:id.
	loads := protected.Group("/route-loads")
	routeLoadHandler := NewRouteLoadHandler(deps.RouteLoadUC)
	loads.Post("/", backOffice, routeLoadHandler.Create)
	loads.Get("/", routeLoadHandler.List)
	loads.Get("/active", routeLoadHandler.ActiveForDriver)
	loads.Get("/daily-summary", routeLoadHandler.DailySummary)
	loads.Get("/:id", routeLoadHandler.GetByID)
	loads.Post("/:id/items", backOffice, routeLoadHandler.RegisterLoad)
	loads.Post("/:id/dispatch", backOffice, routeLoadHandler.Dispatch)
	loads.Post("/:id/start", routeLoadHandler.Start)
	loads.Post("/:id/complete", routeLoadHandler.Complete)
	loads.Post("/:id/cancel", backOffice, routeLoadHandler.Cancel)

	// Orders (máquina de estados de pedidos)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.FulfillmentUC)
	orders.Post("/", backOffice, orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/transition", backOffice, orderHandler.Transition)
	orders.Post("/:id/assign", backOffice, orderHandler.Assign)
	orders.Post("/:id/complete-delivery", orderHandler.CompleteDelivery)
	orders.Post("/:id/verify-location", orderHandler.VerifyLocation)

	// Return loads (conciliación de retornos)
	returns := protected.Group("/return-loads")
	reconciliationHandler := NewReconciliationHandler(deps.ReconciliationUC)
	returns.Post("/", backOffice, reconciliationHandler.CreateReturnLoad)
	returns.Get("/", reconciliationHandler.ListReturnLoadsByRoute)
	returns.Get("/:id", reconciliationHandler.GetReturnLoad)
	returns.Post("/:id/complete", backOffice, reconciliationHandler.CompleteReturnLoad)

	// Discrepancies (bitácora de pérdidas)
	discrepancies := protected.Group("/discrepancies")
	discrepancies.Post("/", backOffice, reconciliationHandler.CreateDiscrepancy)
	discrepancies.Get("/", reconciliationHandler.ListDiscrepancies)
	discrepancies.Get("/:id", reconciliationHandler.GetDiscrepancy)
	discrepancies.Post("/:id/investigate", backOffice, reconciliationHandler.StartInvestigation)
	discrepancies.Post("/:id/resolve", backOffice, reconciliationHandler.Resolve)

	// Incidents (reportes de chofer)
	incidents := protected.Group("/incidents")
	incidentHandler := NewIncidentHandler(deps.IncidentUC)
	incidents.Post("/", incidentHandler.Report)
	incidents.Get("/", incidentHandler.List)
}
