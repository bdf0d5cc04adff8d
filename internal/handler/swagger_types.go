package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// RecordPreview documents the projection returned by view=preview.
type RecordPreview struct {
	FileName             string `json:"filename" example:"MAEU123456789.pdf"`
	BOLNumber            string `json:"bol_number" example:"MAEU123456789"`
	ShipperName          string `json:"shipper_name" example:"ACME EXPORTS LTD"`
	ConsigneeName        string `json:"consignee_name" example:"GLOBAL IMPORTS INC"`
	VesselName           string `json:"vessel_name" example:"MAERSK ESSEX"`
	ExtractionMethod     string `json:"extraction_method" example:"text"`
	ExtractionConfidence string `json:"extraction_confidence" example:"high"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
