package dto

type HealthResponse struct {
	OK     bool `json:"ok"`
	DB     bool `json:"db"`
	DBPing bool `json:"dbPing"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
