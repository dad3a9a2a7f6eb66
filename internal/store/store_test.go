// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"guialocal/internal/database"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
	"guialocal/internal/plans"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "guialocal")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "guialocal")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database, runs migrations and
// seeds the lifecycle catalog. If the database is unavailable, the test is
// skipped. A cleanup function is registered to close the connection when
// the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("failed to seed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Their listings cascade.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// testClient creates a client user that is removed when the test ends.
func testClient(t *testing.T, db *sql.DB, email string, tier plans.Tier) *models.User {
	t.Helper()
	t.Cleanup(func() { cleanUsers(t, db, email) })
	u, err := NewUserStore(db).Create(email, "pass", "Cliente Teste", models.RoleClient, tier)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return u
}

// catalogEntry looks up a seeded lifecycle status by name.
func catalogEntry(t *testing.T, db *sql.DB, name string) models.ListingStatus {
	t.Helper()
	statuses, err := NewListingStatusStore(db).List()
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

// newTestListing returns an unsaved listing owned by owner.
func newTestListing(owner uuid.UUID, slug string, statusID uuid.UUID, mod moderation.Status) *models.Listing {
	return &models.Listing{
		OwnerID:          owner,
		Name:             "Padaria " + slug,
		Slug:             slug,
		City:             "Campinas",
		State:            "SP",
		ListingStatusID:  statusID,
		ModerationStatus: mod,
	}
}
