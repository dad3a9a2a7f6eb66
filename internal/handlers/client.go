// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"guialocal/internal/cache"
	"guialocal/internal/forms"
	"guialocal/internal/middleware"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/store"
)

// Client groups the endpoints a business owner uses to manage their own
// listings.
type Client struct {
	lw    *listingWriter
	users *store.UserStore
}

// NewClient creates a new Client handler group. policy is the moderation
// status client listings start with unless a site setting overrides it.
func NewClient(categories *store.CategoryStore, listings *store.ListingStore, statuses *store.ListingStatusStore, users *store.UserStore, settings *store.SiteSettingStore, modLog *store.ModerationLogStore, respCache *cache.ResponseCache, photos PhotoStorage, policy moderation.Status) *Client {
	return &Client{
		lw: &listingWriter{
			categories: categories,
			listings:   listings,
			statuses:   statuses,
			settings:   settings,
			modLog:     modLog,
			respCache:  respCache,
			photos:     photos,
			policy:     policy,
		},
		users: users,
	}
}

// Listings returns the client's listings with their visibility and the
// limits of the client's plan.
func (c *Client) Listings(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := c.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		serverError(w, "load client failed", err, "user", sess.UserID)
		return
	}
	listings, err := c.lw.listings.ListByOwner(sess.UserID)
	if err != nil {
		serverError(w, "list client listings failed", err)
		return
	}
	statuses, err := c.lw.statuses.List()
	if err != nil {
		serverError(w, "list listing statuses failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"listings": managedListings(listings, statuses),
		"plan":     user.Plan(),
		"policy":   c.lw.clientPolicy(),
	})
}

// CreateListing adds a listing within the client's plan limit.
func (c *Client) CreateListing(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var form forms.ListingForm
	if !bind(w, r, &form) {
		return
	}

	user, err := c.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		serverError(w, "load client failed", err, "user", sess.UserID)
		return
	}
	owned, err := c.lw.listings.CountByOwner(user.ID)
	if err != nil {
		serverError(w, "count client listings failed", err)
		return
	}
	variant := user.Plan()
	if !variant.CanAddListing(owned) {
		writeError(w, http.StatusForbidden,
			fmt.Sprintf("O plano %s permite até %d anúncio(s).", variant.Label, variant.MaxListings))
		return
	}

	c.lw.create(w, r, moderation.RoleClient, user.ID, user.ID, variant, &form)
}

// ownListing loads the {id} listing and checks it belongs to the session
// user. Other owners' listings answer 404.
func (c *Client) ownListing(w http.ResponseWriter, r *http.Request) (*models.Listing, uuid.UUID, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := urlID(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	l, err := c.lw.listings.FindByID(id)
	if err != nil {
		serverError(w, "find listing failed", err, "id", id)
		return nil, uuid.Nil, false
	}
	if l == nil || l.OwnerID != sess.UserID {
		writeError(w, http.StatusNotFound, "Anúncio não encontrado.")
		return nil, uuid.Nil, false
	}
	return l, sess.UserID, true
}

// UpdateListing edits one of the client's listings. The moderation status
// is never touched here.
func (c *Client) UpdateListing(w http.ResponseWriter, r *http.Request) {
	l, _, ok := c.ownListing(w, r)
	if !ok {
		return
	}
	var form forms.ListingForm
	if !bind(w, r, &form) {
		return
	}
	c.lw.update(w, r, l, &form)
}

// SetListingStatus switches one of the client's listings between "Ativo"
// and "Inativo".
func (c *Client) SetListingStatus(w http.ResponseWriter, r *http.Request) {
	l, userID, ok := c.ownListing(w, r)
	if !ok {
		return
	}
	var form forms.StatusChangeForm
	if !bind(w, r, &form) {
		return
	}
	c.lw.setStatus(w, r, moderation.RoleClient, userID, l, form.ListingStatusID)
}

// DeleteListing removes one of the client's listings.
func (c *Client) DeleteListing(w http.ResponseWriter, r *http.Request) {
	l, _, ok := c.ownListing(w, r)
	if !ok {
		return
	}
	c.lw.remove(w, r, l)
}
