// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/google/uuid"

	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/plans"
	"guialocal/internal/store"
)

func TestAdminCategories_CreateRejectsCycleAndDeletesSubtree(t *testing.T) {
	env := newTestEnv(t)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))

	create := func(name string, parent *uuid.UUID) models.Category {
		t.Helper()
		body := map[string]any{"name": name}
		if parent != nil {
			body["parent_id"] = parent.String()
		}
		rec := httptest.NewRecorder()
		env.Admin.CreateCategory(rec, jsonRequest(http.MethodPost, "/api/admin/categories", body, admin))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: got %d, body %s", name, rec.Code, rec.Body.String())
		}
		var c models.Category
		decodeBody(t, rec, &c)
		t.Cleanup(func() { env.Categories.Delete(c.ID) })
		return c
	}

	suffix := uuid.NewString()[:6]
	root := create("Veículos "+suffix, nil)
	child := create("Oficinas "+suffix, &root.ID)
	grandchild := create("Funilaria "+suffix, &child.ID)

	t.Run("unknown parent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.CreateCategory(rec, jsonRequest(http.MethodPost, "/", map[string]any{
			"name": "Sem pai", "parent_id": uuid.NewString(),
		}, admin))
		if rec.Code != http.StatusUnprocessableEntity || !hasFieldError(t, rec, "parent_id") {
			t.Errorf("got %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("parent below itself", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.UpdateCategory(rec, jsonRequest(http.MethodPut, "/", map[string]any{
			"name": root.Name, "slug": root.Slug, "parent_id": grandchild.ID.String(),
		}, admin, "id", root.ID.String()))
		if rec.Code != http.StatusUnprocessableEntity || !hasFieldError(t, rec, "parent_id") {
			t.Errorf("got %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("duplicate slug", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.CreateCategory(rec, jsonRequest(http.MethodPost, "/", map[string]any{
			"name": "Outra", "slug": child.Slug,
		}, admin))
		if rec.Code != http.StatusUnprocessableEntity || !hasFieldError(t, rec, "slug") {
			t.Errorf("got %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete cascades", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.DeleteCategory(rec, jsonRequest(http.MethodDelete, "/", nil, admin, "id", child.ID.String()))
		if rec.Code != http.StatusOK {
			t.Fatalf("got %d, body %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Deleted []uuid.UUID `json:"deleted"`
		}
		decodeBody(t, rec, &body)
		if !slices.Contains(body.Deleted, child.ID) || !slices.Contains(body.Deleted, grandchild.ID) {
			t.Errorf("deleted = %v, want child and grandchild", body.Deleted)
		}
		if c, _ := env.Categories.FindByID(root.ID); c == nil {
			t.Error("root was deleted with its child")
		}
		if c, _ := env.Categories.FindByID(grandchild.ID); c != nil {
			t.Error("grandchild survived")
		}
	})

	t.Run("delete unknown", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.DeleteCategory(rec, jsonRequest(http.MethodDelete, "/", nil, admin, "id", uuid.NewString()))
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})
}

// hasFieldError reports whether a 422 body names field.
func hasFieldError(t *testing.T, rec *httptest.ResponseRecorder, field string) bool {
	t.Helper()
	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	decodeBody(t, rec, &body)
	for _, e := range body.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestAdminMenus_ParentChecks(t *testing.T) {
	env := newTestEnv(t)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))

	mk := func(title string, location models.MenuLocation, parent *uuid.UUID) *models.MenuItem {
		t.Helper()
		m, err := env.Menus.Create(&models.MenuItem{
			Title: title + " " + uuid.NewString()[:6], Link: "/x",
			Location: location, ParentID: parent, IsActive: true,
		})
		if err != nil {
			t.Fatalf("create menu item: %v", err)
		}
		t.Cleanup(func() { env.Menus.Delete(m.ID) })
		return m
	}
	top := mk("Serviços", models.MenuHeader, nil)
	sub := mk("Reformas", models.MenuHeader, &top.ID)
	footer := mk("Sobre", models.MenuFooter, nil)

	tests := []struct {
		name   string
		call   func(w http.ResponseWriter, r *http.Request)
		body   map[string]any
		params []string
		want   int
	}{
		{
			name: "create under header item",
			call: env.Admin.CreateMenuItem,
			body: map[string]any{"title": "Pintura", "link": "/pintura", "location": "header", "parent_id": top.ID.String()},
			want: http.StatusCreated,
		},
		{
			name: "parent in other location",
			call: env.Admin.CreateMenuItem,
			body: map[string]any{"title": "Pintura", "link": "/pintura", "location": "header", "parent_id": footer.ID.String()},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown location",
			call: env.Admin.CreateMenuItem,
			body: map[string]any{"title": "Pintura", "link": "/pintura", "location": "sidebar"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name:   "move below own child",
			call:   env.Admin.UpdateMenuItem,
			body:   map[string]any{"title": top.Title, "link": "/x", "location": "header", "parent_id": sub.ID.String()},
			params: []string{"id", top.ID.String()},
			want:   http.StatusUnprocessableEntity,
		},
		{
			name:   "update unknown",
			call:   env.Admin.UpdateMenuItem,
			body:   map[string]any{"title": "X", "link": "/x", "location": "header"},
			params: []string{"id", uuid.NewString()},
			want:   http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.call(rec, jsonRequest(http.MethodPost, "/", tt.body, admin, tt.params...))
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Code == http.StatusCreated {
				var m models.MenuItem
				decodeBody(t, rec, &m)
				t.Cleanup(func() { env.Menus.Delete(m.ID) })
			}
		})
	}
}

func TestAdminSetModeration_LogsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	pinClientPolicy(t, env, moderation.Pending)
	client := testUser(t, env, models.RoleClient, plans.Featured)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))

	rec := createClientListing(t, env, client, listingBody("Chaveiro Central"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var l managedListing
	decodeBody(t, rec, &l)
	if l.Visible {
		t.Fatal("pending listing should not be visible")
	}

	rec = httptest.NewRecorder()
	env.Admin.SetModeration(rec, jsonRequest(http.MethodPut, "/", map[string]string{"status": string(moderation.Approved)}, admin, "id", l.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: got %d, body %s", rec.Code, rec.Body.String())
	}
	var approved managedListing
	decodeBody(t, rec, &approved)
	if approved.ModerationStatus != moderation.Approved || !approved.Visible {
		t.Errorf("after approval: moderation = %q visible = %v", approved.ModerationStatus, approved.Visible)
	}

	rec = httptest.NewRecorder()
	env.Admin.SetModeration(rec, jsonRequest(http.MethodPut, "/", map[string]string{"status": "Arquivado"}, admin, "id", l.ID.String()))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown status: got %d, want 422", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Admin.ModerationLog(rec, jsonRequest(http.MethodGet, "/?limit=10", nil, admin, "id", l.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("log: got %d", rec.Code)
	}
	var entries []store.ModerationLogEntry
	decodeBody(t, rec, &entries)
	if len(entries) < 2 {
		t.Fatalf("log entries = %d, want creation and approval", len(entries))
	}
	last := entries[0]
	if last.Field != store.LogFieldModeration || last.From != string(moderation.Pending) || last.To != string(moderation.Approved) {
		t.Errorf("newest entry = %+v", last)
	}
	if last.ActorID == nil || *last.ActorID != admin.UserID {
		t.Errorf("actor = %v, want %s", last.ActorID, admin.UserID)
	}
}

func TestAdminCreateListing_StartsApproved(t *testing.T) {
	env := newTestEnv(t)
	pinClientPolicy(t, env, moderation.Pending)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))

	rec := httptest.NewRecorder()
	env.Admin.CreateListing(rec, jsonRequest(http.MethodPost, "/", listingBody("Farmácia Popular"), admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, body %s", rec.Code, rec.Body.String())
	}
	var l managedListing
	decodeBody(t, rec, &l)
	if l.ModerationStatus != moderation.Approved || !l.Visible {
		t.Errorf("moderation = %q visible = %v", l.ModerationStatus, l.Visible)
	}
	if len(l.Photos) != 2 {
		t.Errorf("premium admin kept %d photos, want 2", len(l.Photos))
	}
}

func TestAdminListingStatuses_DeleteInUse(t *testing.T) {
	env := newTestEnv(t)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))

	name := "Em reforma " + uuid.NewString()[:6]
	rec := httptest.NewRecorder()
	env.Admin.CreateListingStatus(rec, jsonRequest(http.MethodPost, "/", map[string]any{"name": name, "position": 9}, admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var st models.ListingStatus
	decodeBody(t, rec, &st)
	t.Cleanup(func() { env.Statuses.Delete(st.ID) })

	rec = httptest.NewRecorder()
	env.Admin.CreateListingStatus(rec, jsonRequest(http.MethodPost, "/", map[string]any{"name": name}, admin))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate name: got %d, want 422", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.Admin.CreateListing(rec, jsonRequest(http.MethodPost, "/", listingBody("Marcenaria"), admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create listing: got %d", rec.Code)
	}
	var l managedListing
	decodeBody(t, rec, &l)

	rec = httptest.NewRecorder()
	env.Admin.SetListingStatus(rec, jsonRequest(http.MethodPut, "/", map[string]string{"listing_status_id": st.ID.String()}, admin, "id", l.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.Admin.DeleteListingStatus(rec, jsonRequest(http.MethodDelete, "/", nil, admin, "id", st.ID.String()))
	if rec.Code != http.StatusConflict {
		t.Errorf("delete in use: got %d, want 409", rec.Code)
	}

	if err := env.Listings.Delete(l.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	rec = httptest.NewRecorder()
	env.Admin.DeleteListingStatus(rec, jsonRequest(http.MethodDelete, "/", nil, admin, "id", st.ID.String()))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete unused: got %d, want 204", rec.Code)
	}
}

func TestAdminSettings_OverridePolicy(t *testing.T) {
	env := newTestEnv(t)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))

	before, err := env.Settings.All()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM site_settings WHERE key = $1", models.SettingClientListingModeration)
		restore := map[string]string{}
		for _, key := range []string{models.SettingSiteName, models.SettingContactWhatsApp} {
			restore[key] = before[key]
		}
		env.Settings.Save(restore)
	})

	save := func(policy string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		env.Admin.SaveSettings(rec, jsonRequest(http.MethodPut, "/", map[string]string{
			"site_name":                 before.Get(models.SettingSiteName, "Guia Local"),
			"contact_whatsapp":          before[models.SettingContactWhatsApp],
			"client_listing_moderation": policy,
		}, admin))
		return rec
	}

	rec := save(string(moderation.Approved))
	if rec.Code != http.StatusOK {
		t.Fatalf("save: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		EffectivePolicy moderation.Status `json:"effective_policy"`
	}
	decodeBody(t, rec, &body)
	if body.EffectivePolicy != moderation.Approved {
		t.Errorf("effective policy = %q, want Aprovado", body.EffectivePolicy)
	}

	if rec := save("Automático"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown policy: got %d, want 422", rec.Code)
	}

	// Clearing the override falls back to the configured default.
	rec = save("")
	decodeBody(t, rec, &body)
	if body.EffectivePolicy != moderation.Pending {
		t.Errorf("cleared policy = %q, want Em moderação", body.EffectivePolicy)
	}
}

func TestAdminSetUserPlan(t *testing.T) {
	env := newTestEnv(t)
	admin := sessionFor(testUser(t, env, models.RoleAdmin, plans.Premium))
	client := testUser(t, env, models.RoleClient, plans.Basic)

	rec := httptest.NewRecorder()
	env.Admin.SetUserPlan(rec, jsonRequest(http.MethodPut, "/", map[string]string{"tier": "Premium"}, admin, "id", client.ID.String()))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d, body %s", rec.Code, rec.Body.String())
	}
	u, err := env.Users.FindByID(client.ID)
	if err != nil || u == nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.PlanTier != plans.Premium {
		t.Errorf("tier = %q, want premium", u.PlanTier)
	}

	tests := []struct {
		name string
		id   string
		tier string
		want int
	}{
		{"unknown tier", client.ID.String(), "ouro", http.StatusUnprocessableEntity},
		{"unknown user", uuid.NewString(), "basico", http.StatusNotFound},
		{"malformed id", "abc", "basico", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Admin.SetUserPlan(rec, jsonRequest(http.MethodPut, "/", map[string]string{"tier": tt.tier}, admin, "id", tt.id))
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
