// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"strings"

	"guialocal/internal/plans"
)

// PlanForm moves an account to another subscription tier.
type PlanForm struct {
	Tier string `json:"tier" validate:"required,oneof=basico destaque premium"`
}

func (f *PlanForm) Validate() Errors {
	f.Tier = strings.ToLower(strings.TrimSpace(f.Tier))
	return check(f).result()
}

func (f *PlanForm) PlanTier() plans.Tier {
	return plans.Tier(f.Tier)
}
