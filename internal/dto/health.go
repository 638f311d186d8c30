package dto

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Cache   string `json:"cache,omitempty"`
}
