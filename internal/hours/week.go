// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hours

import (
	"context"
	"time"
)

// Status is the presentation-level opening state of a listing.
type Status string

const (
	StatusOpen        Status = "open"
	StatusClosed      Status = "closed"
	StatusNotInformed Status = "not_informed"
)

// StatusAt distinguishes a schedule that was never filled in from one that
// is simply closed at now.
func StatusAt(schedule WeeklySchedule, now time.Time) Status {
	if schedule.IsEmpty() {
		return StatusNotInformed
	}
	if IsOpenAt(schedule, now) {
		return StatusOpen
	}
	return StatusClosed
}

// DayLine is one formatted row of the weekly hours table.
type DayLine struct {
	Key   DayKey `json:"key"`
	Label string `json:"label"`
	Hours string `json:"hours"`
	Today bool   `json:"today"`
}

// weekOrder lists days Monday first, as displayed on listing pages.
var weekOrder = []DayKey{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayLabels = map[DayKey]string{
	Sunday:    "Domingo",
	Monday:    "Segunda-feira",
	Tuesday:   "Terça-feira",
	Wednesday: "Quarta-feira",
	Thursday:  "Quinta-feira",
	Friday:    "Sexta-feira",
	Saturday:  "Sábado",
}

// Label returns the Portuguese name of the day.
func (k DayKey) Label() string {
	return dayLabels[k]
}

// Valid reports whether k is one of the seven known day keys.
func (k DayKey) Valid() bool {
	_, ok := dayLabels[k]
	return ok
}

// FormatWeek renders all seven days, Monday first, marking the day of now.
func FormatWeek(schedule WeeklySchedule, now time.Time) []DayLine {
	today := KeyFor(now.Weekday())
	lines := make([]DayLine, 0, len(weekOrder))
	for _, key := range weekOrder {
		var day *DaySchedule
		if d, ok := schedule[key]; ok {
			day = &d
		}
		lines = append(lines, DayLine{
			Key:   key,
			Label: key.Label(),
			Hours: FormatDaySchedule(day),
			Today: key == today,
		})
	}
	return lines
}

// MaxInterval is the longest allowed gap between two evaluations of a
// schedule by Watch.
const MaxInterval = time.Minute

// Watch calls fn with the current time immediately and then every interval
// until ctx is done. Intervals longer than MaxInterval, or not positive, are
// replaced by MaxInterval.
func Watch(ctx context.Context, interval time.Duration, fn func(now time.Time)) {
	if interval <= 0 || interval > MaxInterval {
		interval = MaxInterval
	}

	fn(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}
