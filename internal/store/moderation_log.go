// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// moderation_log.go records every moderation and lifecycle status change of
// a listing for audit. Each entry captures who changed which field, from
// what and to what.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Fields tracked by the moderation log.
const (
	LogFieldModeration    = "moderation"
	LogFieldListingStatus = "listing_status"
)

// ModerationLogStore handles the listing change audit trail.
type ModerationLogStore struct {
	db *sql.DB
}

// NewModerationLogStore creates a new ModerationLogStore.
func NewModerationLogStore(db *sql.DB) *ModerationLogStore {
	return &ModerationLogStore{db: db}
}

// Log records a change. Failures are logged and swallowed so an audit
// outage never blocks moderation.
func (s *ModerationLogStore) Log(listingID, actorID uuid.UUID, field, from, to string) {
	_, err := s.db.Exec(`
		INSERT INTO moderation_log (listing_id, actor_id, field, from_value, to_value)
		VALUES ($1, $2, $3, $4, $5)
	`, listingID, actorID, field, from, to)
	if err != nil {
		slog.Warn("failed to log moderation change",
			"listing_id", listingID,
			"field", field,
			"to", to,
			"error", err,
		)
		return
	}
	slog.Debug("moderation change logged",
		"listing_id", listingID,
		"field", field,
		"from", from,
		"to", to,
	)
}

// ForListing returns the most recent changes of one listing, newest first.
func (s *ModerationLogStore) ForListing(listingID uuid.UUID, limit int) ([]ModerationLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, listing_id, actor_id, field, from_value, to_value, changed_at
		FROM moderation_log
		WHERE listing_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT $2
	`, listingID, limit)
	if err != nil {
		return nil, fmt.Errorf("query moderation log: %w", err)
	}
	defer rows.Close()

	var entries []ModerationLogEntry
	for rows.Next() {
		var e ModerationLogEntry
		if err := rows.Scan(&e.ID, &e.ListingID, &e.ActorID, &e.Field, &e.From, &e.To, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan moderation log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ModerationLogEntry represents a single recorded change.
type ModerationLogEntry struct {
	ID        int64      `json:"id"`
	ListingID uuid.UUID  `json:"listing_id"`
	ActorID   *uuid.UUID `json:"actor_id"`
	Field     string     `json:"field"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	ChangedAt time.Time  `json:"changed_at"`
}
