// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"guialocal/internal/forms"
	"guialocal/internal/middleware"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/store"
)

// moderationLogLimit caps the audit entries returned per listing.
const moderationLogLimit = 100

// Listings returns every listing with its visibility flag.
func (a *Admin) Listings(w http.ResponseWriter, r *http.Request) {
	listings, err := a.lw.listings.List()
	if err != nil {
		serverError(w, "list listings failed", err)
		return
	}
	statuses, err := a.lw.statuses.List()
	if err != nil {
		serverError(w, "list listing statuses failed", err)
		return
	}
	writeJSON(w, http.StatusOK, managedListings(listings, statuses))
}

// CreateListing adds a listing owned by the admin. Admin listings start
// approved and skip the plan limit.
func (a *Admin) CreateListing(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var form forms.ListingForm
	if !bind(w, r, &form) {
		return
	}
	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		serverError(w, "load admin failed", err, "user", sess.UserID)
		return
	}
	a.lw.create(w, r, moderation.RoleAdmin, user.ID, user.ID, user.Plan(), &form)
}

// findListing loads the {id} listing, answering 404 when missing.
func (a *Admin) findListing(w http.ResponseWriter, r *http.Request) (*models.Listing, bool) {
	id, ok := urlID(w, r)
	if !ok {
		return nil, false
	}
	l, err := a.lw.listings.FindByID(id)
	if err != nil {
		serverError(w, "find listing failed", err, "id", id)
		return nil, false
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "Anúncio não encontrado.")
		return nil, false
	}
	return l, true
}

// UpdateListing edits any listing. Status fields have their own
// endpoints.
func (a *Admin) UpdateListing(w http.ResponseWriter, r *http.Request) {
	l, ok := a.findListing(w, r)
	if !ok {
		return
	}
	var form forms.ListingForm
	if !bind(w, r, &form) {
		return
	}
	a.lw.update(w, r, l, &form)
}

// DeleteListing removes any listing.
func (a *Admin) DeleteListing(w http.ResponseWriter, r *http.Request) {
	l, ok := a.findListing(w, r)
	if !ok {
		return
	}
	a.lw.remove(w, r, l)
}

// SetModeration moves a listing to another moderation status.
func (a *Admin) SetModeration(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	l, ok := a.findListing(w, r)
	if !ok {
		return
	}
	var form forms.ModerationForm
	if !bind(w, r, &form) {
		return
	}

	to := form.Moderation()
	err := moderation.Transition(models.Role(sess.Role).ModerationRole(), l.ModerationStatus, to)
	switch {
	case errors.Is(err, moderation.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "Apenas administradores moderam anúncios.")
		return
	case errors.Is(err, moderation.ErrUnknownStatus):
		fieldError(w, "status", "Status de moderação desconhecido.")
		return
	case err != nil:
		serverError(w, "check moderation transition failed", err)
		return
	}

	if err := a.lw.listings.SetModeration(l.ID, to); err != nil {
		serverError(w, "set moderation failed", err, "id", l.ID)
		return
	}
	a.lw.modLog.Log(l.ID, sess.UserID, store.LogFieldModeration, string(l.ModerationStatus), string(to))
	a.lw.respond(w, r, l.ID, http.StatusOK)
}

// SetListingStatus moves a listing to any catalog entry.
func (a *Admin) SetListingStatus(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	l, ok := a.findListing(w, r)
	if !ok {
		return
	}
	var form forms.StatusChangeForm
	if !bind(w, r, &form) {
		return
	}
	a.lw.setStatus(w, r, models.Role(sess.Role).ModerationRole(), sess.UserID, l, form.ListingStatusID)
}

// ModerationLog returns the status change history of a listing, newest
// first. ?limit= lowers the default cap.
func (a *Admin) ModerationLog(w http.ResponseWriter, r *http.Request) {
	l, ok := a.findListing(w, r)
	if !ok {
		return
	}
	limit := moderationLogLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n < limit {
		limit = n
	}

	entries, err := a.lw.modLog.ForListing(l.ID, limit)
	if err != nil {
		serverError(w, "load moderation log failed", err, "id", l.ID)
		return
	}
	if entries == nil {
		entries = []store.ModerationLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
