package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"400"`
	Message string      `json:"message" example:"Bad Request"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"exchange_name"`
	Message string                 `json:"message,omitempty" example:"exchange_name is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
