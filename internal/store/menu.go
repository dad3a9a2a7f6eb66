// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"guialocal/internal/models"
	"guialocal/internal/tree"
)

// MenuStore manages header and footer navigation items.
type MenuStore struct {
	db *sql.DB
}

// NewMenuStore returns a new MenuStore.
func NewMenuStore(db *sql.DB) *MenuStore {
	return &MenuStore{db: db}
}

const menuColumns = `id, title, link, location, parent_id, order_index, is_active, created_at, updated_at`

func scanMenuItem(scanner interface{ Scan(...any) error }) (*models.MenuItem, error) {
	var m models.MenuItem
	err := scanner.Scan(
		&m.ID, &m.Title, &m.Link, &m.Location, &m.ParentID,
		&m.OrderIndex, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns every item of a location, active or not.
func (s *MenuStore) List(location models.MenuLocation) ([]models.MenuItem, error) {
	return s.query(`SELECT `+menuColumns+` FROM menu_items WHERE location = $1 ORDER BY order_index`, location)
}

// Tree returns the active items of a location as a forest ordered by
// order_index. Children of an inactive item are hidden with it.
func (s *MenuStore) Tree(location models.MenuLocation) ([]tree.TreeNode, error) {
	items, err := s.query(`
		SELECT `+menuColumns+` FROM menu_items
		WHERE location = $1 AND is_active = TRUE
		ORDER BY order_index`, location)
	if err != nil {
		return nil, err
	}
	return tree.Build(models.MenuNodes(items)), nil
}

func (s *MenuStore) query(q string, args ...any) ([]models.MenuItem, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindByID retrieves a menu item by ID. Returns nil if not found.
func (s *MenuStore) FindByID(id uuid.UUID) (*models.MenuItem, error) {
	m, err := scanMenuItem(s.db.QueryRow(`SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find menu item by id: %w", err)
	}
	return m, nil
}

// Create inserts a new menu item and returns it.
func (s *MenuStore) Create(m *models.MenuItem) (*models.MenuItem, error) {
	result, err := scanMenuItem(s.db.QueryRow(`
		INSERT INTO menu_items (title, link, location, parent_id, order_index, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+menuColumns,
		m.Title, m.Link, m.Location, m.ParentID, m.OrderIndex, m.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return result, nil
}

// Update modifies an existing menu item.
func (s *MenuStore) Update(m *models.MenuItem) error {
	_, err := s.db.Exec(`
		UPDATE menu_items SET
			title = $1, link = $2, location = $3, parent_id = $4,
			order_index = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`, m.Title, m.Link, m.Location, m.ParentID, m.OrderIndex, m.IsActive, m.ID)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

// Delete removes a menu item. Sub-items are removed by the foreign key.
func (s *MenuStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM menu_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}
