// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"guialocal/internal/models"
	"guialocal/internal/tree"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, icon, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories with the number of publicly visible listings
// attached to each. Row order is unspecified; use Tree for display order.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.parent_id,
		       c.created_at, c.updated_at,
		       COUNT(l.id) AS listing_count
		FROM categories c
		LEFT JOIN listing_categories lc ON lc.category_id = c.id
		LEFT JOIN listings l ON l.id = lc.listing_id AND ` + visibleClause + `
		GROUP BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
			&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&c.ListingCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns the category forest, siblings sorted by name. Categories
// whose parent chain is broken are left out; see Orphans.
func (s *CategoryStore) Tree() ([]tree.TreeNode, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return tree.Build(models.CategoryNodes(flat)), nil
}

// Orphans returns categories not reachable from any root.
func (s *CategoryStore) Orphans() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	ids := tree.Orphans(models.CategoryNodes(flat))
	var out []models.Category
	for _, c := range flat {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, icon, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Icon, c.ParentID,
	)
	result, err := scanCategory(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create category: %w", ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category. Moving a category under itself or
// one of its descendants fails with ErrParentCycle.
func (s *CategoryStore) Update(c *models.Category) error {
	if c.ParentID != nil {
		if *c.ParentID == c.ID {
			return fmt.Errorf("update category: %w", ErrParentCycle)
		}
		flat, err := s.List()
		if err != nil {
			return err
		}
		if slices.Contains(tree.DescendantIDs(models.CategoryNodes(flat), c.ID), *c.ParentID) {
			return fmt.Errorf("update category: %w", ErrParentCycle)
		}
	}

	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, icon = $4,
			parent_id = $5, updated_at = NOW()
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.Icon, c.ParentID, c.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("update category: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category and every descendant in one transaction and
// returns the ids removed.
func (s *CategoryStore) Delete(id uuid.UUID) ([]uuid.UUID, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	ids := append([]uuid.UUID{id}, tree.DescendantIDs(models.CategoryNodes(flat), id)...)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`DELETE FROM categories WHERE id = $1`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete category: %w", err)
	}
	defer stmt.Close()

	for _, cid := range ids {
		if _, err := stmt.Exec(cid); err != nil {
			return nil, fmt.Errorf("delete category %s: %w", cid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete category: %w", err)
	}
	return ids, nil
}
