// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"strings"

	"github.com/google/uuid"

	"guialocal/internal/models"
)

// MenuItemForm is the admin navigation item editor.
type MenuItemForm struct {
	ID         uuid.UUID  `json:"-"`
	Title      string     `json:"title" validate:"required,max=100"`
	Link       string     `json:"link" validate:"required,max=500"`
	Location   string     `json:"location" validate:"required,oneof=header footer"`
	ParentID   *uuid.UUID `json:"parent_id"`
	OrderIndex int        `json:"order_index" validate:"min=0"`
	IsActive   *bool      `json:"is_active"`
}

// Validate checks the form.
func (f *MenuItemForm) Validate() Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.Link = strings.TrimSpace(f.Link)
	errs := check(f)
	if f.ParentID != nil && f.ID != uuid.Nil && *f.ParentID == f.ID {
		errs.add("parent_id", "O item não pode ser pai de si mesmo.")
	}
	if f.Link != "" && !strings.HasPrefix(f.Link, "/") && !strings.HasPrefix(f.Link, "http://") && !strings.HasPrefix(f.Link, "https://") {
		errs.add("link", "Use um caminho iniciado por / ou uma URL http(s).")
	}
	return errs.result()
}

// MenuItem builds the model the form describes. Items are active unless
// the form says otherwise.
func (f *MenuItemForm) MenuItem() *models.MenuItem {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	return &models.MenuItem{
		ID:         f.ID,
		Title:      f.Title,
		Link:       f.Link,
		Location:   models.MenuLocation(f.Location),
		ParentID:   f.ParentID,
		OrderIndex: f.OrderIndex,
		IsActive:   active,
	}
}
