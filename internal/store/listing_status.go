// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"guialocal/internal/models"
)

// ListingStatusStore manages the administrator-defined lifecycle catalog.
type ListingStatusStore struct {
	db *sql.DB
}

// NewListingStatusStore returns a new ListingStatusStore.
func NewListingStatusStore(db *sql.DB) *ListingStatusStore {
	return &ListingStatusStore{db: db}
}

// List returns the whole catalog ordered by position.
func (s *ListingStatusStore) List() ([]models.ListingStatus, error) {
	rows, err := s.db.Query(`SELECT id, name, position, created_at FROM listing_statuses ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("list listing statuses: %w", err)
	}
	defer rows.Close()

	var out []models.ListingStatus
	for rows.Next() {
		var st models.ListingStatus
		if err := rows.Scan(&st.ID, &st.Name, &st.Position, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan listing status: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Create adds a catalog entry. Names are unique.
func (s *ListingStatusStore) Create(name string, position int) (*models.ListingStatus, error) {
	var st models.ListingStatus
	err := s.db.QueryRow(`
		INSERT INTO listing_statuses (name, position) VALUES ($1, $2)
		RETURNING id, name, position, created_at
	`, name, position).Scan(&st.ID, &st.Name, &st.Position, &st.CreatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create listing status: %w", ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create listing status: %w", err)
	}
	return &st, nil
}

// Rename changes the name of a catalog entry. Renaming "Ativo" away hides
// every listing until another entry takes the name.
func (s *ListingStatusStore) Rename(id uuid.UUID, name string) error {
	_, err := s.db.Exec(`UPDATE listing_statuses SET name = $1 WHERE id = $2`, name, id)
	if isUniqueViolation(err) {
		return fmt.Errorf("rename listing status: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("rename listing status: %w", err)
	}
	return nil
}

// Delete removes a catalog entry no listing references.
func (s *ListingStatusStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM listing_statuses WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("delete listing status: %w", ErrStatusInUse)
	}
	if err != nil {
		return fmt.Errorf("delete listing status: %w", err)
	}
	return nil
}
