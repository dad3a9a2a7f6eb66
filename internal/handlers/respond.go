// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the directory API.
// Handlers are grouped by audience (public, auth, client, admin) and
// receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"guialocal/internal/forms"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errNotFound makes a cached builder answer 404.
var errNotFound = errors.New("not found")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldErrors answers 422 with per-field messages.
func writeFieldErrors(w http.ResponseWriter, errs forms.Errors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
}

// fieldError answers 422 for a single field.
func fieldError(w http.ResponseWriter, field, msg string) {
	writeFieldErrors(w, forms.Errors{{Field: field, Message: msg}})
}

// serverError logs err and answers 500.
func serverError(w http.ResponseWriter, msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	writeError(w, http.StatusInternalServerError, "Erro interno.")
}

type validatable interface {
	Validate() forms.Errors
}

// bind decodes the JSON body into form and validates it. On failure the
// response has been written and bind returns false.
func bind(w http.ResponseWriter, r *http.Request, form validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(form); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido.")
		return false
	}
	if errs := form.Validate(); errs != nil {
		writeFieldErrors(w, errs)
		return false
	}
	return true
}

// urlID parses the {id} route parameter, answering 404 when malformed.
func urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Registro não encontrado.")
		return uuid.Nil, false
	}
	return id, true
}
