// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"guialocal/internal/hours"
	"guialocal/internal/models"
	"guialocal/internal/moderation"
)

// ListingStore handles business listings and their category links.
type ListingStore struct {
	db *sql.DB
}

// NewListingStore returns a new ListingStore.
func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingSelect = `
	SELECT l.id, l.owner_id, l.name, l.slug, l.description, l.phone, l.whatsapp,
	       l.email, l.website, l.address, l.city, l.state, l.latitude, l.longitude,
	       l.photos, l.opening_hours, l.listing_status_id, l.moderation_status,
	       u.plan_tier, l.created_at, l.updated_at
	FROM listings l
	JOIN users u ON u.id = l.owner_id`

// visibleClause restricts a query on listings aliased "l" to active, approved
// rows. It is the SQL form of moderation.IsPubliclyVisible and is shared by
// every store that filters on public visibility.
const visibleClause = `
	l.moderation_status = 'Aprovado'
	AND l.listing_status_id = (SELECT id FROM listing_statuses WHERE name = 'Ativo')`

func scanListing(scanner interface{ Scan(...any) error }) (*models.Listing, error) {
	var (
		l           models.Listing
		photos, hrs []byte
	)
	err := scanner.Scan(
		&l.ID, &l.OwnerID, &l.Name, &l.Slug, &l.Description, &l.Phone, &l.WhatsApp,
		&l.Email, &l.Website, &l.Address, &l.City, &l.State, &l.Latitude, &l.Longitude,
		&photos, &hrs, &l.ListingStatusID, &l.ModerationStatus,
		&l.PlanTier, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(photos, &l.Photos); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	if err := json.Unmarshal(hrs, &l.OpeningHours); err != nil {
		return nil, fmt.Errorf("decode opening hours: %w", err)
	}
	if l.OpeningHours == nil {
		l.OpeningHours = hours.WeeklySchedule{}
	}
	return &l, nil
}

func (s *ListingStore) query(q string, args ...any) ([]models.Listing, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadCategories(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListingStore) findOne(q string, arg any) (*models.Listing, error) {
	l, err := scanListing(s.db.QueryRow(q, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	batch := []models.Listing{*l}
	if err := s.loadCategories(batch); err != nil {
		return nil, err
	}
	return &batch[0], nil
}

// loadCategories fills CategoryIDs for a batch of listings.
func (s *ListingStore) loadCategories(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(listings))
	ids := make([]string, 0, len(listings))
	for i, l := range listings {
		index[l.ID] = i
		ids = append(ids, l.ID.String())
		listings[i].CategoryIDs = []uuid.UUID{}
	}

	rows, err := s.db.Query(`
		SELECT listing_id, category_id FROM listing_categories
		WHERE listing_id = ANY($1::uuid[])
		ORDER BY category_id`, ids)
	if err != nil {
		return fmt.Errorf("load listing categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lid, cid uuid.UUID
		if err := rows.Scan(&lid, &cid); err != nil {
			return fmt.Errorf("scan listing category: %w", err)
		}
		if i, ok := index[lid]; ok {
			listings[i].CategoryIDs = append(listings[i].CategoryIDs, cid)
		}
	}
	return rows.Err()
}

// List returns every listing, newest first.
func (s *ListingStore) List() ([]models.Listing, error) {
	return s.query(listingSelect + ` ORDER BY l.created_at DESC`)
}

// ListByOwner returns the listings of one client, newest first.
func (s *ListingStore) ListByOwner(ownerID uuid.UUID) ([]models.Listing, error) {
	return s.query(listingSelect+` WHERE l.owner_id = $1 ORDER BY l.created_at DESC`, ownerID)
}

// ListVisible returns publicly visible listings. A non-empty categoryIDs
// keeps only listings linked to at least one of them. Premium owners come
// first, then names alphabetically.
func (s *ListingStore) ListVisible(categoryIDs []uuid.UUID) ([]models.Listing, error) {
	order := ` ORDER BY (u.plan_tier = 'premium') DESC, l.name`
	if len(categoryIDs) == 0 {
		return s.query(listingSelect + ` WHERE ` + visibleClause + order)
	}
	ids := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		ids = append(ids, id.String())
	}
	return s.query(listingSelect+` WHERE `+visibleClause+`
		AND EXISTS (
			SELECT 1 FROM listing_categories lc
			WHERE lc.listing_id = l.id AND lc.category_id = ANY($1::uuid[])
		)`+order, ids)
}

// FindByID retrieves a listing by ID. Returns nil if not found.
func (s *ListingStore) FindByID(id uuid.UUID) (*models.Listing, error) {
	return s.findOne(listingSelect+` WHERE l.id = $1`, id)
}

// FindBySlug retrieves a listing by slug. Returns nil if not found.
func (s *ListingStore) FindBySlug(slug string) (*models.Listing, error) {
	return s.findOne(listingSelect+` WHERE l.slug = $1`, slug)
}

// CountByOwner returns how many listings a client owns.
func (s *ListingStore) CountByOwner(ownerID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM listings WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// Create inserts a listing with its category links and returns it.
func (s *ListingStore) Create(l *models.Listing) (*models.Listing, error) {
	photos, hrs, err := encodeListingJSON(l)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO listings (owner_id, name, slug, description, phone, whatsapp, email,
			website, address, city, state, latitude, longitude, photos, opening_hours,
			listing_status_id, moderation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`,
		l.OwnerID, l.Name, l.Slug, l.Description, l.Phone, l.WhatsApp, l.Email,
		l.Website, l.Address, l.City, l.State, l.Latitude, l.Longitude, photos, hrs,
		l.ListingStatusID, l.ModerationStatus,
	).Scan(&id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create listing: %w", ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if err := replaceCategories(tx, id, l.CategoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit listing: %w", err)
	}
	return s.FindByID(id)
}

// Update saves the editable fields and category links of a listing. The
// lifecycle and moderation statuses are left untouched.
func (s *ListingStore) Update(l *models.Listing) error {
	photos, hrs, err := encodeListingJSON(l)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE listings SET
			name = $1, slug = $2, description = $3, phone = $4, whatsapp = $5,
			email = $6, website = $7, address = $8, city = $9, state = $10,
			latitude = $11, longitude = $12, photos = $13, opening_hours = $14,
			updated_at = NOW()
		WHERE id = $15`,
		l.Name, l.Slug, l.Description, l.Phone, l.WhatsApp,
		l.Email, l.Website, l.Address, l.City, l.State,
		l.Latitude, l.Longitude, photos, hrs, l.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("update listing: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}

	if err := replaceCategories(tx, l.ID, l.CategoryIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// SetModeration stores a new moderation status.
func (s *ListingStore) SetModeration(id uuid.UUID, status moderation.Status) error {
	_, err := s.db.Exec(`
		UPDATE listings SET moderation_status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set moderation: %w", err)
	}
	return nil
}

// SetListingStatus points a listing at another lifecycle catalog entry.
func (s *ListingStore) SetListingStatus(id, statusID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE listings SET listing_status_id = $1, updated_at = NOW() WHERE id = $2
	`, statusID, id)
	if err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}
	return nil
}

// Delete removes a listing and its category links.
func (s *ListingStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM listings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

// SlugTaken reports whether another listing already uses slug.
func (s *ListingStore) SlugTaken(slug string, except uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM listings WHERE slug = $1 AND id <> $2)
	`, slug, except).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check listing slug: %w", err)
	}
	return exists, nil
}

func replaceCategories(tx *sql.Tx, listingID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM listing_categories WHERE listing_id = $1`, listingID); err != nil {
		return fmt.Errorf("clear listing categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(categoryIDs))
	args := []any{listingID}
	for i, cid := range categoryIDs {
		placeholders = append(placeholders, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, cid)
	}
	_, err := tx.Exec(`
		INSERT INTO listing_categories (listing_id, category_id)
		VALUES `+strings.Join(placeholders, ", ")+`
		ON CONFLICT DO NOTHING`, args...)
	if err != nil {
		return fmt.Errorf("insert listing categories: %w", err)
	}
	return nil
}

func encodeListingJSON(l *models.Listing) (photos, hrs []byte, err error) {
	p := l.Photos
	if p == nil {
		p = []string{}
	}
	if photos, err = json.Marshal(p); err != nil {
		return nil, nil, fmt.Errorf("encode photos: %w", err)
	}
	h := l.OpeningHours
	if h == nil {
		h = hours.WeeklySchedule{}
	}
	if hrs, err = json.Marshal(h); err != nil {
		return nil, nil, fmt.Errorf("encode opening hours: %w", err)
	}
	return photos, hrs, nil
}
