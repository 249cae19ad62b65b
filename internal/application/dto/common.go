package dto

// Límites de paginación.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page     int `query:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
}

// DefaultPage aplica valores por defecto y recorta a los límites.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset desplazamiento SQL de la página.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return PageResponse{Page: p.Page, PageSize: p.PageSize, TotalCount: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP. Errors trae el detalle por campo en errores de validación.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
