// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package worker runs the background jobs of the directory server.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"guialocal/internal/hours"
	"guialocal/internal/models"
)

// ListingSource returns the publicly visible listings. A nil filter means
// every category.
type ListingSource interface {
	ListVisible(categoryIDs []uuid.UUID) ([]models.Listing, error)
}

// Index stores the set of listings open right now.
type Index interface {
	Replace(ctx context.Context, ids []uuid.UUID) error
}

// OpenNow rebuilds the open-now index on a fixed interval.
type OpenNow struct {
	listings ListingSource
	index    Index
	loc      *time.Location
	interval time.Duration
}

// NewOpenNow creates the refresher. Schedules are evaluated in loc.
func NewOpenNow(listings ListingSource, index Index, loc *time.Location, interval time.Duration) *OpenNow {
	if loc == nil {
		loc = time.UTC
	}
	return &OpenNow{listings: listings, index: index, loc: loc, interval: interval}
}

// Run refreshes the index immediately and then on every tick until ctx is
// cancelled. A failed refresh is logged and retried on the next tick.
func (w *OpenNow) Run(ctx context.Context) {
	slog.Info("open-now worker started", "interval", w.interval)
	hours.Watch(ctx, w.interval, func(now time.Time) {
		n, err := w.Refresh(ctx, now)
		if err != nil {
			slog.Error("open-now refresh failed", "error", err)
			return
		}
		slog.Debug("open-now index refreshed", "open", n)
	})
	slog.Info("open-now worker stopped")
}

// Refresh evaluates every visible listing at now and replaces the index.
// It returns how many listings are open.
func (w *OpenNow) Refresh(ctx context.Context, now time.Time) (int, error) {
	listings, err := w.listings.ListVisible(nil)
	if err != nil {
		return 0, fmt.Errorf("list visible listings: %w", err)
	}

	local := now.In(w.loc)
	open := make([]uuid.UUID, 0, len(listings))
	for i := range listings {
		if hours.IsOpenAt(listings[i].OpeningHours, local) {
			open = append(open, listings[i].ID)
		}
	}

	if err := w.index.Replace(ctx, open); err != nil {
		return 0, err
	}
	return len(open), nil
}
