package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DateLayout formato de fechas de los registros y consultas (YYYY-MM-DD).
const DateLayout = "2006-01-02"
