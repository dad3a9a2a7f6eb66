// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"github.com/google/uuid"

	"guialocal/internal/hours"
	"guialocal/internal/models"
	"guialocal/internal/plans"
	"guialocal/internal/tree"
)

// listingView is the public shape of a listing. Every plan tier goes
// through newListingView; the variant decides which fields are filled.
type listingView struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html,omitempty"`
	City            string          `json:"city"`
	State           string          `json:"state"`
	CategoryIDs     []uuid.UUID     `json:"category_ids"`
	Status          hours.Status    `json:"status"`
	Highlighted     bool            `json:"highlighted"`
	Plan            plans.Variant   `json:"plan"`
	Cover           string          `json:"cover,omitempty"`
	Gallery         []string        `json:"gallery,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	WhatsApp        string          `json:"whatsapp,omitempty"`
	Email           string          `json:"email,omitempty"`
	Website         string          `json:"website,omitempty"`
	Address         string          `json:"address,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	Hours           []hours.DayLine `json:"hours,omitempty"`
}

func newListingView(l *models.Listing, status hours.Status) listingView {
	variant := l.Plan()
	v := listingView{
		ID:          l.ID,
		Name:        l.Name,
		Slug:        l.Slug,
		Description: l.Description,
		City:        l.City,
		State:       l.State,
		CategoryIDs: l.CategoryIDs,
		Status:      status,
		Highlighted: variant.Highlighted,
		Plan:        variant,
	}

	photos := variant.Photos(l.Photos)
	if len(photos) > 0 {
		v.Cover = photos[0]
	}
	if variant.ShowGallery {
		v.Gallery = photos
	}
	if variant.ShowContact {
		v.Phone = l.Phone
		v.WhatsApp = l.WhatsApp
		v.Email = l.Email
		v.Website = l.Website
		v.Address = l.Address
	}
	if variant.ShowMap {
		v.Latitude = l.Latitude
		v.Longitude = l.Longitude
	}
	return v
}

// managedListing is a listing as its owner or an admin sees it.
type managedListing struct {
	models.Listing
	Visible bool `json:"visible"`
}

func managedListings(listings []models.Listing, statuses []models.ListingStatus) []managedListing {
	out := make([]managedListing, 0, len(listings))
	for i := range listings {
		out = append(out, managedListing{
			Listing: listings[i],
			Visible: listings[i].IsPubliclyVisible(statuses),
		})
	}
	return out
}

// categoryView is one node of the public category forest.
type categoryView struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Icon         string         `json:"icon,omitempty"`
	Description  string         `json:"description,omitempty"`
	ListingCount int            `json:"listing_count"`
	Depth        int            `json:"depth"`
	Children     []categoryView `json:"children,omitempty"`
}

func categoryViews(forest []tree.TreeNode, byID map[uuid.UUID]models.Category) []categoryView {
	out := make([]categoryView, 0, len(forest))
	for _, n := range forest {
		c := byID[n.ID]
		out = append(out, categoryView{
			ID:           n.ID,
			Name:         n.Name,
			Slug:         n.Slug,
			Icon:         c.Icon,
			Description:  c.Description,
			ListingCount: c.ListingCount,
			Depth:        n.Depth,
			Children:     categoryViews(n.Children, byID),
		})
	}
	return out
}

// menuView is one node of a menu tree.
type menuView struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Link     string     `json:"link"`
	Children []menuView `json:"children,omitempty"`
}

func menuViews(forest []tree.TreeNode) []menuView {
	out := make([]menuView, 0, len(forest))
	for _, n := range forest {
		out = append(out, menuView{ID: n.ID, Title: n.Name, Link: n.Slug, Children: menuViews(n.Children)})
	}
	return out
}
