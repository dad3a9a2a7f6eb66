// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"guialocal/internal/tree"
)

// MenuLocation is where a navigation menu is rendered.
type MenuLocation string

const (
	MenuHeader MenuLocation = "header"
	MenuFooter MenuLocation = "footer"
)

// Valid reports whether l is a known location.
func (l MenuLocation) Valid() bool {
	return l == MenuHeader || l == MenuFooter
}

// MenuItem is one entry of the header or footer navigation.
type MenuItem struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Link       string       `json:"link"`
	Location   MenuLocation `json:"location"`
	ParentID   *uuid.UUID   `json:"parent_id"`
	OrderIndex int          `json:"order_index"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Node returns the item as a tree node ordered by OrderIndex. The link
// travels in Slug so renderers get it without a second lookup.
func (m MenuItem) Node() tree.Node {
	order := m.OrderIndex
	return tree.Node{ID: m.ID, ParentID: m.ParentID, Name: m.Title, Slug: m.Link, Order: &order}
}

// MenuNodes converts menu items for the tree builder.
func MenuNodes(items []MenuItem) []tree.Node {
	nodes := make([]tree.Node, 0, len(items))
	for _, m := range items {
		nodes = append(nodes, m.Node())
	}
	return nodes
}
