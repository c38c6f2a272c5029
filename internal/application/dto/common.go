package dto

// PageRequest paginación 1-indexada para listados.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// DefaultPage aplica valores por defecto y topes.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset convierte página 1-indexada a offset SQL.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse envoltura estándar de listados: la forma que esperan todas las
// páginas de la aplicación.
type PageResponse struct {
	Data       any `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TotalPages calcula ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// NewPageResponse arma la envoltura de página.
func NewPageResponse(data any, page PageRequest, total int) PageResponse {
	return PageResponse{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: TotalPages(total, page.PageSize),
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
