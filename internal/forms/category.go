// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"strings"

	"github.com/google/uuid"

	"guialocal/internal/models"
	"guialocal/internal/slug"
)

// CategoryForm is the admin category editor.
type CategoryForm struct {
	ID          uuid.UUID  `json:"-"` // set on edit, zero on create
	Name        string     `json:"name" validate:"required,max=120"`
	Slug        string     `json:"slug" validate:"max=140"`
	Description string     `json:"description" validate:"max=1000"`
	Icon        string     `json:"icon" validate:"max=60"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// Validate checks the form. A category may not be its own parent; deeper
// cycles are caught by the store.
func (f *CategoryForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	errs := check(f)
	if f.ParentID != nil && f.ID != uuid.Nil && *f.ParentID == f.ID {
		errs.add("parent_id", "A categoria não pode ser pai de si mesma.")
	}
	if f.Name != "" && f.slug() == "" {
		errs.add("slug", "Não foi possível gerar um endereço a partir do nome.")
	}
	return errs.result()
}

func (f *CategoryForm) slug() string {
	if s := slug.Generate(f.Slug); s != "" {
		return s
	}
	return slug.Generate(f.Name)
}

// Category builds the model the form describes.
func (f *CategoryForm) Category() *models.Category {
	return &models.Category{
		ID:          f.ID,
		Name:        f.Name,
		Slug:        f.slug(),
		Description: strings.TrimSpace(f.Description),
		Icon:        strings.TrimSpace(f.Icon),
		ParentID:    f.ParentID,
	}
}
