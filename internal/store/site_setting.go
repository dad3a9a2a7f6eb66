// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"guialocal/internal/models"
	"guialocal/internal/moderation"
)

// SiteSettingStore persists the settings screen in the site_settings table.
type SiteSettingStore struct {
	db *sql.DB
}

func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// All loads every stored setting.
func (s *SiteSettingStore) All() (models.SiteSettings, error) {
	rows, err := s.db.Query(`SELECT key, value FROM site_settings`)
	if err != nil {
		return nil, fmt.Errorf("query site settings: %w", err)
	}
	defer rows.Close()

	settings := models.SiteSettings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan site setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate site settings: %w", err)
	}
	return settings, nil
}

// Lookup returns the stored value of key. A missing key reads as "".
func (s *SiteSettingStore) Lookup(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM site_settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup site setting %q: %w", key, err)
	}
	return value, nil
}

// Save upserts values in one statement. updated_at only moves for keys
// whose value actually changed.
func (s *SiteSettingStore) Save(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(values))
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = values[k]
	}

	_, err := s.db.Exec(`
		INSERT INTO site_settings (key, value)
		SELECT * FROM unnest($1::text[], $2::text[])
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
		WHERE site_settings.value IS DISTINCT FROM EXCLUDED.value`,
		keys, vals,
	)
	if err != nil {
		return fmt.Errorf("save site settings %v: %w", keys, err)
	}
	return nil
}

// ClientModeration reads the client moderation override, falling back to
// the configured policy.
func (s *SiteSettingStore) ClientModeration(fallback moderation.Status) (moderation.Status, error) {
	raw, err := s.Lookup(models.SettingClientListingModeration)
	if err != nil {
		return fallback, err
	}
	return models.SiteSettings{models.SettingClientListingModeration: raw}.ClientModeration(fallback), nil
}
