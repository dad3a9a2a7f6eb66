// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package forms holds one typed record per admin and client form. Each form
// validates itself with struct tags plus domain checks and reports problems
// as field errors with user-facing Portuguese messages.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one problem with one submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field errors; it satisfies error so handlers can pass
// it around like any other failure.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tags of form and translates failures.
func check(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "", Message: "Formulário inválido."}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Máximo de %s itens.", fe.Param())
		}
		return fmt.Sprintf("Deve ter no máximo %s caracteres.", fe.Param())
	case "min":
		return fmt.Sprintf("Deve ser no mínimo %s.", fe.Param())
	case "len":
		return fmt.Sprintf("Deve ter exatamente %s caracteres.", fe.Param())
	case "email":
		return "E-mail inválido."
	case "url", "http_url":
		return "URL inválida."
	case "oneof":
		return "Valor inválido."
	case "latitude":
		return "Latitude inválida."
	case "longitude":
		return "Longitude inválida."
	}
	return "Valor inválido."
}

// add appends a domain check failure.
func (e *Errors) add(field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg})
}

// result turns an empty list into nil so callers can test with len or nil.
func (e Errors) result() Errors {
	if len(e) == 0 {
		return nil
	}
	return e
}
