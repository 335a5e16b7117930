package dto

import "github.com/karuteens/moderation/internal/moderation"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ListResponse represents a page of queue items
type ListResponse struct {
	Data   interface{} `json:"data"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// ScanResponse represents the scanner verdict
type ScanResponse = moderation.ScanResult

// ScannerStatusResponse represents scanner liveness info
type ScannerStatusResponse struct {
	Status    string   `json:"status"`
	Threshold float64  `json:"threshold"`
	FlagTypes []string `json:"flag_types"`
}
