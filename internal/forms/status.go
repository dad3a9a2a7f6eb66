// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"strings"

	"github.com/google/uuid"

	"guialocal/internal/moderation"
)

// ListingStatusForm adds or renames a lifecycle catalog entry.
type ListingStatusForm struct {
	Name     string `json:"name" validate:"required,max=60"`
	Position int    `json:"position" validate:"min=0"`
}

// Validate checks the form.
func (f *ListingStatusForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	return check(f).result()
}

// ModerationForm carries an admin moderation decision.
type ModerationForm struct {
	Status string `json:"status" validate:"required"`
}

// Validate checks that the status is a known moderation state.
func (f *ModerationForm) Validate() Errors {
	errs := check(f)
	if f.Status != "" {
		if _, err := moderation.ParseStatus(f.Status); err != nil {
			errs.add("status", "Status de moderação desconhecido.")
		}
	}
	return errs.result()
}

// Moderation returns the parsed status. Call after Validate.
func (f *ModerationForm) Moderation() moderation.Status {
	return moderation.Status(f.Status)
}

// StatusChangeForm points a listing at a lifecycle catalog entry.
type StatusChangeForm struct {
	ListingStatusID uuid.UUID `json:"listing_status_id" validate:"required"`
}

// Validate checks the form.
func (f *StatusChangeForm) Validate() Errors {
	return check(f).result()
}
