package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/application/incident"
)

// IncidentHandler maneja las peticiones HTTP de incidentes en ruta (protegido).
type IncidentHandler struct {
	uc *incident.UseCase
}

// NewIncidentHandler construye el handler.
func NewIncidentHandler(uc *incident.UseCase) *IncidentHandler {
	return &IncidentHandler{uc: uc}
}

// Report godoc
// @Summary      Reportar incidente en ruta
// @Description  El chofer del token queda registrado como reportante. El motor
//
//	sella y almacena el reporte sin interpretarlo.
//
// @Tags         incidents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReportIncidentRequest  true  "description; route_load_id, order_id, type opcionales"
// @Success      201   {object}  dto.IncidentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/incidents [post]
func (h *IncidentHandler) Report(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReportIncidentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inc, err := h.uc.Report(tenantID, userID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inc)
}

// List godoc
// @Summary      Listar incidentes del tenant (más recientes primero)
// @Tags         incidents
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.IncidentListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/incidents [get]
func (h *IncidentHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.List(tenantID, page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}
