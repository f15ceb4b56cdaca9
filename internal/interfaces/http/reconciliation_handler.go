package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/application/reconciliation"
)

// ReconciliationHandler maneja las peticiones HTTP de conciliación de retornos
// y discrepancias (protegido).
type ReconciliationHandler struct {
	uc *reconciliation.UseCase
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(uc *reconciliation.UseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// CreateReturnLoad godoc
// @Summary      Registrar conteo de retorno del vehículo
// @Description  Crea la conciliación en pending con los conteos por cubeta
//
//	(full, empty, exchange, missing, damaged). La carga de ruta debe
//	estar despachada, en progreso o completada.
//
// @Tags         reconciliation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnLoadRequest  true  "route_load_id, vehicle_id, return_date, items"
// @Success      201   {object}  dto.ReturnLoadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/return-loads [post]
func (h *ReconciliationHandler) CreateReturnLoad(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateReturnLoadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ret, err := h.uc.CreateReturnLoad(tenantID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ret)
}

// CompleteReturnLoad godoc
// @Summary      Cerrar la conciliación (completed o cancelled)
// @Description  Al completar, asienta los seriales contados: full/empty/exchange
//
//	regresan a in_stock, damaged pasa a maintenance y missing queda
//	sin tocar a la espera de su discrepancia.
//
// @Tags         reconciliation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la conciliación"
// @Param        body  body  dto.CompleteReturnLoadRequest  true  "status (completed | cancelled), discrepancy_notes"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/return-loads/{id}/complete [post]
func (h *ReconciliationHandler) CompleteReturnLoad(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CompleteReturnLoadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.CompleteReturnLoad(c.Context(), tenantID, userID, c.Params("id"), in); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "conciliación cerrada"})
}

// GetReturnLoad godoc
// @Summary      Obtener conciliación por ID (con sus conteos)
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la conciliación"
// @Success      200  {object}  dto.ReturnLoadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/return-loads/{id} [get]
func (h *ReconciliationHandler) GetReturnLoad(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	ret, err := h.uc.GetReturnLoad(tenantID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(ret)
}

// ListReturnLoadsByRoute godoc
// @Summary      Conciliaciones de una carga de ruta
// @Tags         reconciliation
// @Security     Bearer
// @Produce      json
// @Param        route_load_id  query  string  true  "ID de la carga de ruta"
// @Success      200  {array}   dto.ReturnLoadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/return-loads [get]
func (h *ReconciliationHandler) ListReturnLoadsByRoute(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	routeLoadID := c.Query("route_load_id")
	if routeLoadID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "route_load_id requerido"})
	}
	list, err := h.uc.ListReturnLoadsByRoute(tenantID, routeLoadID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}

// CreateDiscrepancy godoc
// @Summary      Levantar una discrepancia
// @Tags         discrepancies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDiscrepancyRequest  true  "type, discrepancy_qty; serial y valor estimado opcionales"
// @Success      201   {object}  dto.DiscrepancyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/discrepancies [post]
func (h *ReconciliationHandler) CreateDiscrepancy(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDiscrepancyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	disc, err := h.uc.CreateDiscrepancy(tenantID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(disc)
}

// StartInvestigation godoc
// @Summary      Pasar la discrepancia a investigación
// @Tags         discrepancies
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la discrepancia"
// @Success      200  {object}  dto.MessageResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/discrepancies/{id}/investigate [post]
func (h *ReconciliationHandler) StartInvestigation(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.StartInvestigation(c.Context(), tenantID, c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "investigación iniciada"})
}

// Resolve godoc
// @Summary      Resolver la discrepancia (resolved o written_off)
// @Description  Cierre terminal. Si la discrepancia tiene serial, el activo se
//
//	asienta: resolved lo regresa a in_stock, written_off lo retira.
//
// @Tags         discrepancies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la discrepancia"
// @Param        body  body  dto.ResolveDiscrepancyRequest  true  "status (resolved | written_off), resolution_notes"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/discrepancies/{id}/resolve [post]
func (h *ReconciliationHandler) Resolve(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ResolveDiscrepancyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Resolve(c.Context(), tenantID, userID, c.Params("id"), in); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "discrepancia resuelta"})
}

// GetDiscrepancy godoc
// @Summary      Obtener discrepancia por ID
// @Tags         discrepancies
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la discrepancia"
// @Success      200  {object}  dto.DiscrepancyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/discrepancies/{id} [get]
func (h *ReconciliationHandler) GetDiscrepancy(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	disc, err := h.uc.GetDiscrepancy(tenantID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(disc)
}

// ListDiscrepancies godoc
// @Summary      Listar discrepancias del tenant
// @Tags         discrepancies
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado (pending, investigating, resolved, written_off)"
// @Param        limit   query  int     false  "Tamaño de página (default 50)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.DiscrepancyListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/discrepancies [get]
func (h *ReconciliationHandler) ListDiscrepancies(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.ListDiscrepancies(tenantID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}
