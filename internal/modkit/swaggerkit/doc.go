package swaggerkit

import (
	"encoding/json"
	"net/http"

	"mixtape/internal/core/version"
)

// baseURL is where versioned routes are mounted
const baseURL = "/api/v1"

// openAPI returns the OpenAPI document served next to the UI
// handler annotations feed the generated document, this is the runtime skeleton
func openAPI() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "mixtape API",
			"version": version.Info().Version,
		},
		"servers": []any{map[string]any{"url": baseURL}},
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{"ErrorResponse": errorResponse()},
		},
	}
}

// errorResponse mirrors the failed envelope written by the http package
func errorResponse() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      str,
			"code":        map[string]any{"type": "string", "example": "INVALID_INPUT"},
			"error":       str,
			"field":       str,
			"request_id":  str,
			"timestamp":   map[string]any{"type": "string", "format": "date-time"},
		},
		"required": []any{"status_code", "status", "code", "error"},
	}
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(openAPI())
	}
}
