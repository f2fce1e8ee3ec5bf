package api

import (
	"encoding/json"
	"net/http"

	"stayhub/internal/models"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Errors     []FieldError       `json:"errors,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// FieldError points a validation failure at the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Response{Success: true, Message: message})
}

func writePage(w http.ResponseWriter, data any, page models.Page, total int) {
	p := models.NewPagination(page, total)
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Response{Success: false, Message: message})
}

func writeFieldErrors(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}
