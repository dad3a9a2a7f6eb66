// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "guialocal/internal/moderation"

// Keys of the platform settings admins edit on the settings screen.
const (
	SettingSiteName                = "site_name"
	SettingContactWhatsApp         = "contact_whatsapp"
	SettingClientListingModeration = "client_listing_moderation"
)

// SiteSettings holds stored settings by key. Absent and blank values are
// treated alike.
type SiteSettings map[string]string

// Get returns the value of key, or fallback when it is absent or blank.
func (s SiteSettings) Get(key, fallback string) string {
	if v := s[key]; v != "" {
		return v
	}
	return fallback
}

// ClientModeration is the status client-created listings start in: the
// stored override when it names a known status, otherwise fallback.
func (s SiteSettings) ClientModeration(fallback moderation.Status) moderation.Status {
	if st := moderation.Status(s[SettingClientListingModeration]); st.Valid() {
		return st
	}
	return fallback
}
