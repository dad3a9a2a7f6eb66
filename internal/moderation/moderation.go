// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package moderation decides whether a listing is publicly visible. A
// listing carries two independent fields: a lifecycle status picked from an
// administrator-defined catalog, and a moderation status only admins change.
package moderation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Status is the admin-controlled moderation state of a listing.
type Status string

const (
	Approved Status = "Aprovado"
	Rejected Status = "Reprovado"
	Pending  Status = "Em moderação"
)

// Statuses lists every moderation state.
var Statuses = []Status{Approved, Rejected, Pending}

// Lifecycle status names with special meaning. Any other catalog name is an
// opaque label.
const (
	ActiveName   = "Ativo"
	InactiveName = "Inativo"
)

// Role is the kind of actor changing a listing.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

var (
	// ErrUnknownStatus is returned for a moderation value outside Statuses.
	ErrUnknownStatus = errors.New("unknown moderation status")
	// ErrNotAllowed is returned when the actor may not make the change.
	ErrNotAllowed = errors.New("change not allowed for this role")
	// ErrNotInCatalog is returned for a lifecycle status id the catalog lacks.
	ErrNotInCatalog = errors.New("listing status not in catalog")
)

// Valid reports whether s is one of the known moderation states.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw moderation value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// LifecycleStatus is one entry of the administrator-defined status catalog.
type LifecycleStatus struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// State is the pair of fields that gates a listing's visibility.
type State struct {
	ListingStatusID  uuid.UUID `json:"listing_status_id"`
	ModerationStatus Status    `json:"moderation_status"`
}

// ActiveStatus finds the catalog entry named exactly "Ativo".
func ActiveStatus(catalog []LifecycleStatus) (LifecycleStatus, bool) {
	return findByName(catalog, ActiveName)
}

// InactiveStatus finds the catalog entry named exactly "Inativo".
func InactiveStatus(catalog []LifecycleStatus) (LifecycleStatus, bool) {
	return findByName(catalog, InactiveName)
}

func findByName(catalog []LifecycleStatus, name string) (LifecycleStatus, bool) {
	for _, st := range catalog {
		if st.Name == name {
			return st, true
		}
	}
	return LifecycleStatus{}, false
}

// IsPubliclyVisible reports whether the listing is active and approved. A
// catalog without an "Ativo" entry makes every listing invisible.
func IsPubliclyVisible(s State, catalog []LifecycleStatus) bool {
	active, ok := ActiveStatus(catalog)
	if !ok {
		return false
	}
	return s.ListingStatusID == active.ID && s.ModerationStatus == Approved
}

// Transition validates a moderation change. Only admins may moderate, and
// any state may move to any other.
func Transition(actor Role, from, to Status) error {
	if actor != RoleAdmin {
		return ErrNotAllowed
	}
	if !from.Valid() && from != "" {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	return nil
}

// InitialStatus is the moderation status a new listing starts with. Admin
// creations are approved; client creations follow clientPolicy, falling
// back to Pending when the policy is not a known status.
func InitialStatus(actor Role, clientPolicy Status) Status {
	if actor == RoleAdmin {
		return Approved
	}
	if !clientPolicy.Valid() {
		return Pending
	}
	return clientPolicy
}

// CanSetListingStatus checks moving a listing from current to target.
// Admins may choose any catalog entry. Clients may only toggle between
// "Ativo" and "Inativo", so a listing an admin parked in a custom status
// stays there until an admin moves it.
func CanSetListingStatus(actor Role, current, target uuid.UUID, catalog []LifecycleStatus) error {
	to, ok := findByID(catalog, target)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInCatalog, target)
	}

	switch actor {
	case RoleAdmin:
		return nil
	case RoleClient:
		from, ok := findByID(catalog, current)
		if ok && clientToggle(from.Name) && clientToggle(to.Name) {
			return nil
		}
	}
	return ErrNotAllowed
}

func clientToggle(name string) bool {
	return name == ActiveName || name == InactiveName
}

func findByID(catalog []LifecycleStatus, id uuid.UUID) (LifecycleStatus, bool) {
	for _, st := range catalog {
		if st.ID == id {
			return st, true
		}
	}
	return LifecycleStatus{}, false
}
