// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"guialocal/internal/hours"
	"guialocal/internal/moderation"
	"guialocal/internal/plans"
)

// ListingStatus is an administrator-defined lifecycle state ("Ativo",
// "Inativo", or any custom name).
type ListingStatus struct {
	moderation.LifecycleStatus
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalog strips a status list down to what the moderation rules need.
func Catalog(statuses []ListingStatus) []moderation.LifecycleStatus {
	out := make([]moderation.LifecycleStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.LifecycleStatus)
	}
	return out
}

// Listing is a business entry in the directory.
type Listing struct {
	ID               uuid.UUID            `json:"id"`
	OwnerID          uuid.UUID            `json:"owner_id"`
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	Description      string               `json:"description"`
	Phone            string               `json:"phone"`
	WhatsApp         string               `json:"whatsapp"`
	Email            string               `json:"email"`
	Website          string               `json:"website"`
	Address          string               `json:"address"`
	City             string               `json:"city"`
	State            string               `json:"state"`
	Latitude         *float64             `json:"latitude,omitempty"`
	Longitude        *float64             `json:"longitude,omitempty"`
	Photos           []string             `json:"photos"`
	OpeningHours     hours.WeeklySchedule `json:"opening_hours"`
	ListingStatusID  uuid.UUID            `json:"listing_status_id"`
	ModerationStatus moderation.Status    `json:"moderation_status"`
	CategoryIDs      []uuid.UUID          `json:"category_ids"`
	PlanTier         plans.Tier           `json:"plan_tier"` // owner's tier, joined from users
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// State returns the pair of fields that gates public visibility.
func (l *Listing) State() moderation.State {
	return moderation.State{ListingStatusID: l.ListingStatusID, ModerationStatus: l.ModerationStatus}
}

// Plan returns the presentation variant of the owner's tier.
func (l *Listing) Plan() plans.Variant {
	return plans.For(l.PlanTier)
}

// IsPubliclyVisible reports whether the listing is active and approved
// according to the given status catalog.
func (l *Listing) IsPubliclyVisible(statuses []ListingStatus) bool {
	return moderation.IsPubliclyVisible(l.State(), Catalog(statuses))
}
