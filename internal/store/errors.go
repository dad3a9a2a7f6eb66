// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when a unique column (slug, email, name)
	// already holds the value.
	ErrDuplicate = errors.New("duplicate value")
	// ErrParentCycle is returned when a category would become its own
	// ancestor.
	ErrParentCycle = errors.New("parent would create a cycle")
	// ErrStatusInUse is returned when deleting a lifecycle status that
	// listings still reference.
	ErrStatusInUse = errors.New("listing status in use")
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == pgerrcode.UniqueViolation }

func isForeignKeyViolation(err error) bool { return pgCode(err) == pgerrcode.ForeignKeyViolation }
