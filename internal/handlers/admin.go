// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"guialocal/internal/cache"
	"guialocal/internal/forms"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/store"
	"guialocal/internal/tree"
)

// Admin groups all admin HTTP handlers and their dependencies.
type Admin struct {
	lw         *listingWriter
	categories *store.CategoryStore
	menus      *store.MenuStore
	users      *store.UserStore
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(categories *store.CategoryStore, menus *store.MenuStore, listings *store.ListingStore, statuses *store.ListingStatusStore, users *store.UserStore, settings *store.SiteSettingStore, modLog *store.ModerationLogStore, respCache *cache.ResponseCache, photos PhotoStorage, policy moderation.Status) *Admin {
	return &Admin{
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
		categories: categories,
		menus:      menus,
		users:      users,
	}
}

// --- Categories ---

// Categories returns the flat list, the forest and the orphans report.
func (a *Admin) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		serverError(w, "list categories failed", err)
		return
	}
	byID := make(map[uuid.UUID]models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	nodes := models.CategoryNodes(cats)

	orphans := make([]models.Category, 0)
	for _, id := range tree.Orphans(nodes) {
		orphans = append(orphans, byID[id])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"tree":       categoryViews(tree.Build(nodes), byID),
		"orphans":    orphans,
	})
}

// Orphans lists categories whose parent chain does not reach a root.
func (a *Admin) Orphans(w http.ResponseWriter, r *http.Request) {
	orphans, err := a.categories.Orphans()
	if err != nil {
		serverError(w, "list orphan categories failed", err)
		return
	}
	if orphans == nil {
		orphans = []models.Category{}
	}
	writeJSON(w, http.StatusOK, orphans)
}

// checkParentCategory answers 422 when parent is set but unknown.
func (a *Admin) checkParentCategory(w http.ResponseWriter, parent *uuid.UUID) bool {
	if parent == nil {
		return true
	}
	p, err := a.categories.FindByID(*parent)
	if err != nil {
		serverError(w, "find parent category failed", err)
		return false
	}
	if p == nil {
		fieldError(w, "parent_id", "Categoria pai não encontrada.")
		return false
	}
	return true
}

// CreateCategory adds a category.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var form forms.CategoryForm
	if !bind(w, r, &form) || !a.checkParentCategory(w, form.ParentID) {
		return
	}

	created, err := a.categories.Create(form.Category())
	if errors.Is(err, store.ErrDuplicate) {
		fieldError(w, "slug", "Já existe uma categoria com este endereço.")
		return
	}
	if err != nil {
		serverError(w, "create category failed", err)
		return
	}
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory edits a category, refusing parents that would close a
// cycle.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	existing, err := a.categories.FindByID(id)
	if err != nil {
		serverError(w, "find category failed", err, "id", id)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Categoria não encontrada.")
		return
	}

	form := forms.CategoryForm{ID: id}
	if !bind(w, r, &form) || !a.checkParentCategory(w, form.ParentID) {
		return
	}

	err = a.categories.Update(form.Category())
	switch {
	case errors.Is(err, store.ErrParentCycle):
		fieldError(w, "parent_id", "A categoria não pode ficar abaixo de uma subcategoria dela.")
		return
	case errors.Is(err, store.ErrDuplicate):
		fieldError(w, "slug", "Já existe uma categoria com este endereço.")
		return
	case err != nil:
		serverError(w, "update category failed", err, "id", id)
		return
	}

	updated, err := a.categories.FindByID(id)
	if err != nil {
		serverError(w, "reload category failed", err, "id", id)
		return
	}
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory removes a category and all its descendants.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	existing, err := a.categories.FindByID(id)
	if err != nil {
		serverError(w, "find category failed", err, "id", id)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Categoria não encontrada.")
		return
	}

	deleted, err := a.categories.Delete(id)
	if err != nil {
		serverError(w, "delete category failed", err, "id", id)
		return
	}
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// --- Menus ---

// Menus returns every item of a location, active or not, as a flat list.
func (a *Admin) Menus(w http.ResponseWriter, r *http.Request) {
	location := models.MenuLocation(r.URL.Query().Get("location"))
	if location == "" {
		location = models.MenuHeader
	}
	if !location.Valid() {
		fieldError(w, "location", "Use header ou footer.")
		return
	}
	items, err := a.menus.List(location)
	if err != nil {
		serverError(w, "list menu items failed", err)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// checkMenuParent answers 422 unless the parent exists in the same
// location and is not the item or one of its descendants.
func (a *Admin) checkMenuParent(w http.ResponseWriter, item *models.MenuItem) bool {
	if item.ParentID == nil {
		return true
	}
	parent, err := a.menus.FindByID(*item.ParentID)
	if err != nil {
		serverError(w, "find parent menu item failed", err)
		return false
	}
	if parent == nil || parent.Location != item.Location {
		fieldError(w, "parent_id", "Item pai não encontrado neste menu.")
		return false
	}
	if item.ID == uuid.Nil {
		return true
	}

	siblings, err := a.menus.List(item.Location)
	if err != nil {
		serverError(w, "list menu items failed", err)
		return false
	}
	if slices.Contains(tree.DescendantIDs(models.MenuNodes(siblings), item.ID), *item.ParentID) {
		fieldError(w, "parent_id", "O item não pode ficar abaixo de um subitem dele.")
		return false
	}
	return true
}

// CreateMenuItem adds a menu item.
func (a *Admin) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var form forms.MenuItemForm
	if !bind(w, r, &form) {
		return
	}
	item := form.MenuItem()
	if !a.checkMenuParent(w, item) {
		return
	}

	created, err := a.menus.Create(item)
	if err != nil {
		serverError(w, "create menu item failed", err)
		return
	}
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// UpdateMenuItem edits a menu item.
func (a *Admin) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	existing, err := a.menus.FindByID(id)
	if err != nil {
		serverError(w, "find menu item failed", err, "id", id)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Item de menu não encontrado.")
		return
	}

	form := forms.MenuItemForm{ID: id}
	if !bind(w, r, &form) {
		return
	}
	item := form.MenuItem()
	if !a.checkMenuParent(w, item) {
		return
	}

	if err := a.menus.Update(item); err != nil {
		serverError(w, "update menu item failed", err, "id", id)
		return
	}
	updated, err := a.menus.FindByID(id)
	if err != nil {
		serverError(w, "reload menu item failed", err, "id", id)
		return
	}
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMenuItem removes a menu item and its sub-items.
func (a *Admin) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := a.menus.Delete(id); err != nil {
		serverError(w, "delete menu item failed", err, "id", id)
		return
	}
	a.lw.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// --- Listing status catalog ---

// ListingStatuses returns the lifecycle catalog.
func (a *Admin) ListingStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := a.lw.statuses.List()
	if err != nil {
		serverError(w, "list listing statuses failed", err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// CreateListingStatus adds a catalog entry.
func (a *Admin) CreateListingStatus(w http.ResponseWriter, r *http.Request) {
	var form forms.ListingStatusForm
	if !bind(w, r, &form) {
		return
	}
	created, err := a.lw.statuses.Create(form.Name, form.Position)
	if errors.Is(err, store.ErrDuplicate) {
		fieldError(w, "name", "Já existe um status com este nome.")
		return
	}
	if err != nil {
		serverError(w, "create listing status failed", err)
		return
	}
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// RenameListingStatus renames a catalog entry. Visibility follows the
// name "Ativo", so renaming may publish or hide listings.
func (a *Admin) RenameListingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var form forms.ListingStatusForm
	if !bind(w, r, &form) {
		return
	}
	err := a.lw.statuses.Rename(id, form.Name)
	if errors.Is(err, store.ErrDuplicate) {
		fieldError(w, "name", "Já existe um status com este nome.")
		return
	}
	if err != nil {
		serverError(w, "rename listing status failed", err, "id", id)
		return
	}
	a.lw.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteListingStatus removes a catalog entry no listing uses.
func (a *Admin) DeleteListingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := a.lw.statuses.Delete(id)
	if errors.Is(err, store.ErrStatusInUse) {
		writeError(w, http.StatusConflict, "Este status ainda é usado por anúncios.")
		return
	}
	if err != nil {
		serverError(w, "delete listing status failed", err, "id", id)
		return
	}
	a.lw.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// --- Settings ---

// Settings returns the site settings and the moderation policy in effect.
func (a *Admin) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.lw.settings.All()
	if err != nil {
		serverError(w, "load settings failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"settings":         settings,
		"effective_policy": a.lw.clientPolicy(),
	})
}

// SaveSettings stores the settings form.
func (a *Admin) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var form forms.SettingsForm
	if !bind(w, r, &form) {
		return
	}
	if err := a.lw.settings.Save(form.Values()); err != nil {
		serverError(w, "save settings failed", err)
		return
	}
	a.lw.invalidate(r.Context())
	a.Settings(w, r)
}

// --- Users ---

// Users lists every account.
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		serverError(w, "list users failed", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// SetUserPlan moves an account to another plan tier. Existing listings
// over the new limit are kept; the limit only gates new ones.
func (a *Admin) SetUserPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var form forms.PlanForm
	if !bind(w, r, &form) {
		return
	}
	user, err := a.users.FindByID(id)
	if err != nil {
		serverError(w, "find user failed", err, "id", id)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Usuário não encontrado.")
		return
	}
	if err := a.users.SetPlan(id, form.PlanTier()); err != nil {
		serverError(w, "set user plan failed", err, "id", id)
		return
	}
	user.PlanTier = form.PlanTier()
	a.lw.invalidate(r.Context())
	writeJSON(w, http.StatusOK, user)
}
