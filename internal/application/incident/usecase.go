// Package incident implementa el buzón de incidentes de chofer: reportes
// fuera de banda que el motor sella con fecha y almacena sin interpretar.
package incident

import (
	"time"

	"github.com/google/uuid"

	"github.com/OscarV-prog/gasera-sub000/internal/application/dto"
	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

// UseCase operaciones del buzón de incidentes.
type UseCase struct {
	incidentRepo repository.IncidentRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(incidentRepo repository.IncidentRepository) *UseCase {
	return &UseCase{incidentRepo: incidentRepo}
}

// Report registra el incidente sellado con la hora de recepción. El chofer
// reportante sale del token, nunca del body.
func (uc *UseCase) Report(tenantID, driverID string, in dto.ReportIncidentRequest) (*dto.IncidentResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if driverID == "" || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	inc := &entity.Incident{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		DriverID:    driverID,
		RouteLoadID: in.RouteLoadID,
		OrderID:     in.OrderID,
		Type:        in.Type,
		Description: in.Description,
		ReportedAt:  now,
		CreatedAt:   now,
	}
	if err := uc.incidentRepo.Create(inc); err != nil {
		return nil, err
	}
	return toIncidentResponse(inc), nil
}

// List lista los incidentes del tenant, más recientes primero.
func (uc *UseCase) List(tenantID string, limit, offset int) (*dto.IncidentListResponse, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.incidentRepo.List(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.IncidentResponse, 0, len(list))
	for _, inc := range list {
		items = append(items, *toIncidentResponse(inc))
	}
	return &dto.IncidentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toIncidentResponse(i *entity.Incident) *dto.IncidentResponse {
	return &dto.IncidentResponse{
		ID:          i.ID,
		TenantID:    i.TenantID,
		DriverID:    i.DriverID,
		RouteLoadID: i.RouteLoadID,
		OrderID:     i.OrderID,
		Type:        i.Type,
		Description: i.Description,
		ReportedAt:  i.ReportedAt,
	}
}
