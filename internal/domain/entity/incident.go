package entity

import "time"

// Incident es un reporte fuera de banda enviado por un chofer. El motor no
// interpreta su contenido: solo lo sella con fecha y lo almacena.
type Incident struct {
	ID          string
	TenantID    string
	DriverID    string
	RouteLoadID *string
	OrderID     *string
	Type        string
	Description string
	ReportedAt  time.Time
	CreatedAt   time.Time
}
