package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse confirmación de alta con el id generado.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// DataResponse envoltorio de listados: {"data": [...]}.
type DataResponse[T any] struct {
	Data []T `json:"data"`
}
