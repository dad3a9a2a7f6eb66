// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"guialocal/internal/tree"
)

// Category is a node of the business category forest. Siblings are ordered
// by name; there is no stored position.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	ParentID    *uuid.UUID `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual field populated by store methods.
	ListingCount int `json:"listing_count"`
}

// Node returns the category as a tree node.
func (c Category) Node() tree.Node {
	return tree.Node{ID: c.ID, ParentID: c.ParentID, Name: c.Name, Slug: c.Slug}
}

// CategoryNodes converts categories for the tree builder.
func CategoryNodes(cats []Category) []tree.Node {
	nodes := make([]tree.Node, 0, len(cats))
	for _, c := range cats {
		nodes = append(nodes, c.Node())
	}
	return nodes
}
