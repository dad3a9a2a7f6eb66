// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"guialocal/internal/moderation"
	"guialocal/internal/slug"
)

// Default development credentials created by Seed.
const (
	SeedAdminEmail    = "admin@guialocal.local"
	SeedAdminPassword = "admin"
)

// seedCategories is the starter category forest: roots mapped to children.
var seedCategories = []struct {
	name     string
	children []string
}{
	{"Alimentação", []string{"Padarias", "Restaurantes", "Bares"}},
	{"Saúde", []string{"Farmácias", "Clínicas", "Óticas"}},
	{"Serviços", []string{"Mecânicas", "Pet Shops", "Salões de Beleza"}},
}

// Seed populates the database with initial data. The lifecycle catalog
// always gets its "Ativo" and "Inativo" entries; the admin user and starter
// categories are created only when their tables are empty.
func Seed(db *sql.DB) error {
	if err := seedListingStatuses(db); err != nil {
		return err
	}
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCategoryTree(db)
}

func seedListingStatuses(db *sql.DB) error {
	for i, name := range []string{moderation.ActiveName, moderation.InactiveName} {
		_, err := db.Exec(`
			INSERT INTO listing_statuses (name, position) VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, name, i)
		if err != nil {
			return fmt.Errorf("seed listing status %q: %w", name, err)
		}
	}
	return nil
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, plan_tier)
		VALUES ($1, $2, $3, $4, $5)
	`, SeedAdminEmail, string(hash), "Admin", "admin", "premium")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)
	return nil
}

func seedCategoryTree(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, root := range seedCategories {
		var rootID string
		err := tx.QueryRow(`
			INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id
		`, root.name, slug.Generate(root.name)).Scan(&rootID)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", root.name, err)
		}
		for _, child := range root.children {
			if _, err := tx.Exec(`
				INSERT INTO categories (name, slug, parent_id) VALUES ($1, $2, $3)
			`, child, slug.Generate(child), rootID); err != nil {
				return fmt.Errorf("seed category %q: %w", child, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed categories: %w", err)
	}
	slog.Info("database seeded with starter categories", "roots", len(seedCategories))
	return nil
}
