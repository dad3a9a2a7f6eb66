// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import "strings"

// LoginForm is the email and password sign-in.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=200"`
}

// Validate checks the form. Emails are compared lowercase.
func (f *LoginForm) Validate() Errors {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return check(f).result()
}

// TwoFAForm carries the six-digit code from an authenticator app.
type TwoFAForm struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// Validate checks the form. Spaces some apps insert are dropped.
func (f *TwoFAForm) Validate() Errors {
	f.Code = strings.ReplaceAll(strings.TrimSpace(f.Code), " ", "")
	return check(f).result()
}
