// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package plans maps subscription tiers to the presentation variant and
// limits of a client's listings. Each tier is one row of data; callers render
// every tier through the same code path.
package plans

import "strings"

// Tier identifies a subscription plan.
type Tier string

const (
	Basic    Tier = "basico"
	Featured Tier = "destaque"
	Premium  Tier = "premium"
)

// Unlimited as MaxListings lifts the per-client listing cap.
const Unlimited = -1

// Variant describes what a listing on a given tier may show and how many
// listings a client on that tier may own.
type Variant struct {
	Tier        Tier   `json:"tier"`
	Label       string `json:"label"`
	MaxListings int    `json:"max_listings"`
	MaxPhotos   int    `json:"max_photos"`
	ShowMap     bool   `json:"show_map"`
	ShowGallery bool   `json:"show_gallery"`
	ShowReviews bool   `json:"show_reviews"`
	ShowContact bool   `json:"show_contact"`
	Highlighted bool   `json:"highlighted"`
}

var variants = map[Tier]Variant{
	Basic: {
		Tier: Basic, Label: "Básico",
		MaxListings: 1, MaxPhotos: 1,
		ShowContact: true,
	},
	Featured: {
		Tier: Featured, Label: "Destaque",
		MaxListings: 3, MaxPhotos: 10,
		ShowMap: true, ShowGallery: true, ShowReviews: true, ShowContact: true,
	},
	Premium: {
		Tier: Premium, Label: "Premium",
		MaxListings: Unlimited, MaxPhotos: 30,
		ShowMap: true, ShowGallery: true, ShowReviews: true, ShowContact: true,
		Highlighted: true,
	},
}

// For returns the variant of tier. Unknown or empty tiers get Basic.
func For(tier Tier) Variant {
	if v, ok := variants[Tier(strings.ToLower(strings.TrimSpace(string(tier))))]; ok {
		return v
	}
	return variants[Basic]
}

// CanAddListing reports whether a client already owning owned listings may
// create another one.
func (v Variant) CanAddListing(owned int) bool {
	return v.MaxListings == Unlimited || owned < v.MaxListings
}

// Photos trims a photo list to the tier's limit.
func (v Variant) Photos(urls []string) []string {
	if len(urls) <= v.MaxPhotos {
		return urls
	}
	return urls[:v.MaxPhotos]
}
