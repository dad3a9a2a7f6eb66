// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"strings"

	"guialocal/internal/models"
	"guialocal/internal/moderation"
)

// SettingsForm edits the platform settings.
type SettingsForm struct {
	SiteName                string `json:"site_name" validate:"max=120"`
	ContactWhatsApp         string `json:"contact_whatsapp" validate:"max=30"`
	ClientListingModeration string `json:"client_listing_moderation"`
}

// Validate checks the form. An empty moderation override clears it.
func (f *SettingsForm) Validate() Errors {
	errs := check(f)
	if f.ClientListingModeration != "" && !moderation.Status(f.ClientListingModeration).Valid() {
		errs.add("client_listing_moderation", "Status de moderação desconhecido.")
	}
	return errs.result()
}

// Values maps the form onto setting keys.
func (f *SettingsForm) Values() map[string]string {
	return map[string]string{
		models.SettingSiteName:                strings.TrimSpace(f.SiteName),
		models.SettingContactWhatsApp:         strings.TrimSpace(f.ContactWhatsApp),
		models.SettingClientListingModeration: f.ClientListingModeration,
	}
}
