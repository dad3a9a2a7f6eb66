// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"guialocal/internal/cache"
	"guialocal/internal/database"
	"guialocal/internal/middleware"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/plans"
	"guialocal/internal/session"
	"guialocal/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL, runs migrations and
// seeds the catalog.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "guialocal")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "guialocal")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "user_sessions:*", "resp:*", "open_now"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Sessions   *session.Store
	Categories *store.CategoryStore
	Menus      *store.MenuStore
	Listings   *store.ListingStore
	Statuses   *store.ListingStatusStore
	Users      *store.UserStore
	Settings   *store.SiteSettingStore
	ModLog     *store.ModerationLogStore
	OpenNow    *cache.OpenNowIndex
	RespCache  *cache.ResponseCache
	Photos     *fakeStorage
	Public     *Public
	Auth       *Auth
	Client     *Client
	Admin      *Admin
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Client listings start pending unless a test changes the
// site setting.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	env := &testEnv{
		DB:         db,
		Valkey:     vk,
		Sessions:   session.NewStore(vk, time.Hour, false),
		Categories: store.NewCategoryStore(db),
		Menus:      store.NewMenuStore(db),
		Listings:   store.NewListingStore(db),
		Statuses:   store.NewListingStatusStore(db),
		Users:      store.NewUserStore(db),
		Settings:   store.NewSiteSettingStore(db),
		ModLog:     store.NewModerationLogStore(db),
		OpenNow:    cache.NewOpenNowIndex(vk),
		RespCache:  cache.NewResponseCache(vk, time.Minute),
		Photos:     &fakeStorage{},
	}
	env.Public = NewPublic(env.Categories, env.Menus, env.Listings, env.Statuses, env.OpenNow, env.RespCache, time.UTC)
	env.Auth = NewAuth(env.Sessions, env.Users)
	env.Client = NewClient(env.Categories, env.Listings, env.Statuses, env.Users, env.Settings, env.ModLog, env.RespCache, env.Photos, moderation.Pending)
	env.Admin = NewAdmin(env.Categories, env.Menus, env.Listings, env.Statuses, env.Users, env.Settings, env.ModLog, env.RespCache, env.Photos, moderation.Pending)
	return env
}

// testUser creates an account that is removed, with its listings, when the
// test ends.
func testUser(t *testing.T, env *testEnv, role models.Role, tier plans.Tier) *models.User {
	t.Helper()
	email := string(role) + "-" + uuid.NewString()[:8] + "@test.local"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	u, err := env.Users.Create(email, "segredo123", "Usuário Teste", role, tier)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// sessionFor builds the session data the middleware would load for u.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		TwoFADone:   true,
	}
}

// catalogEntry looks up a seeded lifecycle status by name.
func catalogEntry(t *testing.T, env *testEnv, name string) models.ListingStatus {
	t.Helper()
	statuses, err := env.Statuses.List()
	if err != nil {
		t.Fatalf("list statuses: %v", err)
	}
	for _, st := range statuses {
		if st.Name == name {
			return st
		}
	}
	t.Fatalf("status %q not seeded", name)
	return models.ListingStatus{}
}

// jsonRequest builds a request with a JSON body, an optional session and
// optional chi URL parameters given as key, value pairs.
func jsonRequest(method, target string, body any, sess *session.Data, params ...string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if sess != nil {
		ctx = middleware.WithSession(ctx, sess)
	}
	return req.WithContext(ctx)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a JSON response into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

// listingBody is a valid listing form body.
func listingBody(name string) map[string]any {
	return map[string]any{
		"name": name,
		"slug": "teste-" + uuid.NewString()[:8],
		"city": "Campinas",
		"photos": []string{
			"https://img.test/1.jpg",
			"https://img.test/2.jpg",
		},
		"opening_hours": map[string]any{
			"seg": map[string]any{"isOpen": true, "turn1": map[string]string{"open": "08:00", "close": "18:00"}},
		},
	}
}
