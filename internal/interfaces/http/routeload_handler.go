package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/application/routeload"
)

// RouteLoadHandler maneja las peticiones HTTP del ciclo de carga de ruta (protegido).
type RouteLoadHandler struct {
	uc *routeload.UseCase
}

// NewRouteLoadHandler construye el handler.
func NewRouteLoadHandler(uc *routeload.UseCase) *RouteLoadHandler {
	return &RouteLoadHandler{uc: uc}
}

// dateParam parsea un query param de fecha en formato YYYY-MM-DD.
// Si viene vacío devuelve def.
func dateParam(c *fiber.Ctx, key string, def time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", raw)
}

// Create godoc
// @Summary      Crear carga de ruta (estado pending)
// @Tags         route-loads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRouteLoadRequest  true  "vehicle_id, load_date, planned_deliveries; driver_id opcional"
// @Success      201   {object}  dto.RouteLoadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/route-loads [post]
func (h *RouteLoadHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateRouteLoadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	load, err := h.uc.Create(tenantID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(load)
}

// RegisterLoad godoc
// @Summary      Registrar líneas de carga en el vehículo
// @Description  Asigna los seriales al vehículo y acumula totales. Se puede llamar
//
//	varias veces mientras la carga está en pending o loading.
//
// @Tags         route-loads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la carga"
// @Param        body  body  dto.RegisterLoadRequest  true  "items con asset_type, quantity y seriales"
// @Success      200   {object}  dto.RouteLoadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/route-loads/{id}/items [post]
func (h *RouteLoadHandler) RegisterLoad(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterLoadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	load, err := h.uc.RegisterLoad(c.Context(), tenantID, userID, c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(load)
}

// Dispatch godoc
// @Summary      Despachar la carga (sale a ruta)
// @Tags         route-loads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la carga"
// @Param        body  body  dto.DispatchRouteLoadRequest  false  "departure_time opcional (default: ahora)"
// @Success      200   {object}  dto.MessageResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/route-loads/{id}/dispatch [post]
func (h *RouteLoadHandler) Dispatch(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.DispatchRouteLoadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.Dispatch(c.Context(), tenantID, c.Params("id"), in); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "carga despachada"})
}

// Start godoc
// @Summary      Iniciar las entregas de la ruta
// @Tags         route-loads
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la carga"
// @Success      200  {object}  dto.MessageResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/route-loads/{id}/start [post]
func (h *RouteLoadHandler) Start(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Start(c.Context(), tenantID, c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ruta iniciada"})
}

// Complete godoc
// @Summary      Completar la ruta (vehículo de regreso)
// @Tags         route-loads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la carga"
// @Param        body  body  dto.CompleteRouteLoadRequest  false  "completed_deliveries, return_time, notes"
// @Success      200   {object}  dto.MessageResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/route-loads/{id}/complete [post]
func (h *RouteLoadHandler) Complete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CompleteRouteLoadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.Complete(c.Context(), tenantID, c.Params("id"), in); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ruta completada"})
}

// Cancel godoc
// @Summary      Cancelar la carga y liberar sus activos
// @Tags         route-loads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la carga"
// @Param        body  body  dto.CancelRouteLoadRequest  false  "reason opcional"
// @Success      200   {object}  dto.MessageResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/route-loads/{id}/cancel [post]
func (h *RouteLoadHandler) Cancel(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CancelRouteLoadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.Cancel(c.Context(), tenantID, userID, c.Params("id"), in.Reason); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "carga cancelada"})
}

// ActiveForDriver godoc
// @Summary      Carga activa del chofer autenticado
// @Description  Devuelve la carga no terminal del chofer del token, con sus líneas.
// @Tags         route-loads
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RouteLoadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/route-loads/active [get]
func (h *RouteLoadHandler) ActiveForDriver(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	load, err := h.uc.ActiveForDriver(tenantID, userID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(load)
}

// DailySummary godoc
// @Summary      Resumen diario de cargas
// @Description  Resumen derivado de las cargas del día. Se sirve el caché si está
//
//	fresco; si no, se recalcula de las cargas reales.
//
// @Tags         route-loads
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200  {object}  dto.DailyLoadSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/route-loads/daily-summary [get]
func (h *RouteLoadHandler) DailySummary(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	date, err := dateParam(c, "date", time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato esperado YYYY-MM-DD"})
	}
	summary, err := h.uc.DailySummary(tenantID, date)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(summary)
}

// List godoc
// @Summary      Listar cargas por rango de fechas
// @Tags         route-loads
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial YYYY-MM-DD (default: hoy)"
// @Param        to      query  string  false  "Fecha final exclusiva YYYY-MM-DD (default: from + 1 día)"
// @Param        limit   query  int     false  "Tamaño de página (default 50)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RouteLoadListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/route-loads [get]
func (h *RouteLoadHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from, err := dateParam(c, "from", today)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato esperado YYYY-MM-DD"})
	}
	to, err := dateParam(c, "to", from.AddDate(0, 0, 1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato esperado YYYY-MM-DD"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.List(tenantID, from, to, page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener carga por ID (con sus líneas)
// @Tags         route-loads
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la carga"
// @Success      200  {object}  dto.RouteLoadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/route-loads/{id} [get]
func (h *RouteLoadHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	load, err := h.uc.GetByID(tenantID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(load)
}
