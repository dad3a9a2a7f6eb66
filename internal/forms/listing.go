// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"guialocal/internal/hours"
	"guialocal/internal/models"
	"guialocal/internal/slug"
)

// ListingForm is the listing editor shared by clients and admins. Status
// fields are not part of it; they change through their own endpoints.
type ListingForm struct {
	Name         string               `json:"name" validate:"required,max=150"`
	Slug         string               `json:"slug" validate:"max=160"`
	Description  string               `json:"description" validate:"max=5000"`
	Phone        string               `json:"phone" validate:"max=30"`
	WhatsApp     string               `json:"whatsapp" validate:"max=30"`
	Email        string               `json:"email" validate:"omitempty,email,max=200"`
	Website      string               `json:"website" validate:"omitempty,http_url,max=300"`
	Address      string               `json:"address" validate:"max=300"`
	City         string               `json:"city" validate:"max=100"`
	State        string               `json:"state" validate:"omitempty,len=2"`
	Latitude     *float64             `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64             `json:"longitude" validate:"omitempty,longitude"`
	Photos       []string             `json:"photos" validate:"max=30,dive,http_url"`
	OpeningHours hours.WeeklySchedule `json:"opening_hours"`
	CategoryIDs  []uuid.UUID          `json:"category_ids" validate:"max=10"`
}

// Validate checks the form, including every turn of the weekly schedule:
// a turn is either blank or a complete pair of valid times.
func (f *ListingForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	f.State = strings.ToUpper(strings.TrimSpace(f.State))
	errs := check(f)

	if (f.Latitude == nil) != (f.Longitude == nil) {
		errs.add("latitude", "Informe latitude e longitude juntas.")
	}
	if f.Name != "" && f.slug() == "" {
		errs.add("slug", "Não foi possível gerar um endereço a partir do nome.")
	}

	for key, day := range f.OpeningHours {
		if !key.Valid() {
			errs.add("opening_hours."+string(key), "Dia da semana desconhecido.")
			continue
		}
		for i, turn := range []hours.TimeRange{day.Turn1, day.Turn2} {
			field := fmt.Sprintf("opening_hours.%s.turn%d", key, i+1)
			checkTurn(&errs, field, turn)
		}
	}
	return errs.result()
}

func checkTurn(errs *Errors, field string, t hours.TimeRange) {
	from, to := strings.TrimSpace(t.Open), strings.TrimSpace(t.Close)
	if from == "" && to == "" {
		return
	}
	if from == "" || to == "" {
		errs.add(field, "Informe abertura e fechamento.")
		return
	}
	if _, ok := hours.ParseMinutes(from); !ok {
		errs.add(field+".open", "Horário inválido (use HH:MM).")
	}
	if _, ok := hours.ParseMinutes(to); !ok {
		errs.add(field+".close", "Horário inválido (use HH:MM).")
	}
}

func (f *ListingForm) slug() string {
	if s := slug.Generate(f.Slug); s != "" {
		return s
	}
	return slug.Generate(f.Name)
}

// Apply copies the form onto l, leaving ownership and statuses alone.
func (f *ListingForm) Apply(l *models.Listing) {
	l.Name = f.Name
	l.Slug = f.slug()
	l.Description = strings.TrimSpace(f.Description)
	l.Phone = strings.TrimSpace(f.Phone)
	l.WhatsApp = strings.TrimSpace(f.WhatsApp)
	l.Email = strings.TrimSpace(f.Email)
	l.Website = strings.TrimSpace(f.Website)
	l.Address = strings.TrimSpace(f.Address)
	l.City = strings.TrimSpace(f.City)
	l.State = f.State
	l.Latitude = f.Latitude
	l.Longitude = f.Longitude
	l.Photos = f.Photos
	l.OpeningHours = f.OpeningHours
	if l.OpeningHours == nil {
		l.OpeningHours = hours.WeeklySchedule{}
	}
	l.CategoryIDs = f.CategoryIDs
}
