// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"guialocal/internal/cache"
	"guialocal/internal/forms"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/plans"
	"guialocal/internal/store"
)

// listingWriter holds the write path shared by client and admin listing
// endpoints.
type listingWriter struct {
	categories *store.CategoryStore
	listings   *store.ListingStore
	statuses   *store.ListingStatusStore
	settings   *store.SiteSettingStore
	modLog     *store.ModerationLogStore
	respCache  *cache.ResponseCache
	photos     PhotoStorage      // nil when object storage is not configured
	policy     moderation.Status // client moderation default from the environment
}

// clientPolicy resolves the moderation status client-created listings
// start with. A site setting overrides the environment default.
func (lw *listingWriter) clientPolicy() moderation.Status {
	status, err := lw.settings.ClientModeration(lw.policy)
	if err != nil {
		slog.Warn("load moderation policy failed, using default", "error", err)
		return lw.policy
	}
	return status
}

// checkCategories answers 422 when any id is not a known category.
func (lw *listingWriter) checkCategories(w http.ResponseWriter, ids []uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}
	cats, err := lw.categories.List()
	if err != nil {
		serverError(w, "list categories failed", err)
		return false
	}
	known := make(map[uuid.UUID]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			fieldError(w, "category_ids", "Categoria não encontrada.")
			return false
		}
	}
	return true
}

// checkSlug answers 422 when another listing already uses slug.
func (lw *listingWriter) checkSlug(w http.ResponseWriter, slug string, except uuid.UUID) bool {
	taken, err := lw.listings.SlugTaken(slug, except)
	if err != nil {
		serverError(w, "check listing slug failed", err)
		return false
	}
	if taken {
		fieldError(w, "slug", "Já existe um anúncio com este endereço.")
		return false
	}
	return true
}

// create inserts a listing owned by ownerID. The lifecycle status starts
// at "Ativo" and the moderation status follows actor's initial policy.
func (lw *listingWriter) create(w http.ResponseWriter, r *http.Request, actor moderation.Role, actorID, ownerID uuid.UUID, variant plans.Variant, form *forms.ListingForm) {
	l := &models.Listing{OwnerID: ownerID}
	form.Apply(l)
	l.Photos = variant.Photos(l.Photos)

	if !lw.checkCategories(w, l.CategoryIDs) || !lw.checkSlug(w, l.Slug, uuid.Nil) {
		return
	}

	statuses, err := lw.statuses.List()
	if err != nil {
		serverError(w, "list listing statuses failed", err)
		return
	}
	active, ok := moderation.ActiveStatus(models.Catalog(statuses))
	if !ok {
		writeError(w, http.StatusConflict, "O catálogo de status não tem a entrada \"Ativo\".")
		return
	}
	l.ListingStatusID = active.ID
	l.ModerationStatus = moderation.InitialStatus(actor, lw.clientPolicy())

	created, err := lw.listings.Create(l)
	if errors.Is(err, store.ErrDuplicate) {
		fieldError(w, "slug", "Já existe um anúncio com este endereço.")
		return
	}
	if err != nil {
		serverError(w, "create listing failed", err)
		return
	}

	lw.modLog.Log(created.ID, actorID, store.LogFieldModeration, "", string(created.ModerationStatus))
	lw.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, managedListing{Listing: *created, Visible: created.IsPubliclyVisible(statuses)})
}

// update saves the form onto l. Both status fields are left as they are.
// Photos dropped from the listing are removed from storage.
func (lw *listingWriter) update(w http.ResponseWriter, r *http.Request, l *models.Listing, form *forms.ListingForm) {
	before := l.Photos
	form.Apply(l)
	l.Photos = l.Plan().Photos(l.Photos)

	if !lw.checkCategories(w, l.CategoryIDs) || !lw.checkSlug(w, l.Slug, l.ID) {
		return
	}

	err := lw.listings.Update(l)
	if errors.Is(err, store.ErrDuplicate) {
		fieldError(w, "slug", "Já existe um anúncio com este endereço.")
		return
	}
	if err != nil {
		serverError(w, "update listing failed", err, "id", l.ID)
		return
	}
	removePhotos(r.Context(), lw.photos, before, l.Photos)
	lw.respond(w, r, l.ID, http.StatusOK)
}

// remove deletes l together with its stored photos.
func (lw *listingWriter) remove(w http.ResponseWriter, r *http.Request, l *models.Listing) {
	if err := lw.listings.Delete(l.ID); err != nil {
		serverError(w, "delete listing failed", err, "id", l.ID)
		return
	}
	removePhotos(r.Context(), lw.photos, l.Photos, nil)
	lw.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// setStatus moves l to another lifecycle status when actor may.
func (lw *listingWriter) setStatus(w http.ResponseWriter, r *http.Request, actor moderation.Role, actorID uuid.UUID, l *models.Listing, target uuid.UUID) {
	statuses, err := lw.statuses.List()
	if err != nil {
		serverError(w, "list listing statuses failed", err)
		return
	}

	err = moderation.CanSetListingStatus(actor, l.ListingStatusID, target, models.Catalog(statuses))
	switch {
	case errors.Is(err, moderation.ErrNotInCatalog):
		fieldError(w, "listing_status_id", "Status não encontrado.")
		return
	case errors.Is(err, moderation.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "Você só pode ativar ou desativar o anúncio.")
		return
	case err != nil:
		serverError(w, "check listing status failed", err)
		return
	}

	if err := lw.listings.SetListingStatus(l.ID, target); err != nil {
		serverError(w, "set listing status failed", err, "id", l.ID)
		return
	}
	lw.modLog.Log(l.ID, actorID, store.LogFieldListingStatus, statusName(statuses, l.ListingStatusID), statusName(statuses, target))
	lw.respond(w, r, l.ID, http.StatusOK)
}

// respond invalidates cached public responses and returns the fresh
// listing.
func (lw *listingWriter) respond(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	lw.invalidate(r.Context())

	l, err := lw.listings.FindByID(id)
	if err != nil || l == nil {
		serverError(w, "reload listing failed", err, "id", id)
		return
	}
	statuses, err := lw.statuses.List()
	if err != nil {
		serverError(w, "list listing statuses failed", err)
		return
	}
	writeJSON(w, status, managedListing{Listing: *l, Visible: l.IsPubliclyVisible(statuses)})
}

func (lw *listingWriter) invalidate(ctx context.Context) {
	lw.respCache.InvalidateAll(ctx)
}

func statusName(statuses []models.ListingStatus, id uuid.UUID) string {
	for _, s := range statuses {
		if s.ID == id {
			return s.Name
		}
	}
	return id.String()
}
