package dto

// PageRequest paginación por número de página (0 = primera), como la usa la app.
type PageRequest struct {
	Page int `query:"page"`
}

// Offset calcula el desplazamiento para un tamaño de página.
func (p PageRequest) Offset(size int) int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * size
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ErrorResponse cuerpo de error HTTP. El cliente debe ramificar por Kind/Code, no por Message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse respuesta genérica de operaciones sin payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
