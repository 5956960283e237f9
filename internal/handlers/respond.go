// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handler groups for the JSON API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"inkwell/internal/apperr"
	"inkwell/internal/store"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// respondError maps an error to its HTTP status and writes a JSON error
// body. Duplicate-key errors from the store are classified as conflicts
// before mapping. Unexpected errors are logged server-side and surface
// as a generic 500.
func respondError(w http.ResponseWriter, err error) {
	if store.IsDuplicate(err) {
		err = apperr.Wrap(apperr.KindConflict, "Resource already exists", err)
	}

	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	respondJSON(w, status, map[string]string{"error": apperr.Message(err)})
}

// decodeJSON parses the request body into dst, rejecting unknown fields
// and trailing garbage.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}
	// A second token means trailing content after the JSON value.
	if dec.More() {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

// errNotFound is the canonical lookup miss for API resources.
func errNotFound(resource string) error {
	return apperr.NotFound(resource + " not found")
}
