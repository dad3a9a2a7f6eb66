// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hours evaluates weekly opening-hours schedules. A schedule maps a
// Portuguese day key to up to two turns per day; a turn whose close time is
// earlier than its open time runs past midnight into the next day.
package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKey identifies a weekday in the stored schedule.
type DayKey string

const (
	Sunday    DayKey = "dom"
	Monday    DayKey = "seg"
	Tuesday   DayKey = "ter"
	Wednesday DayKey = "qua"
	Thursday  DayKey = "qui"
	Friday    DayKey = "sex"
	Saturday  DayKey = "sab"
)

// dayKeys is indexed by time.Weekday (0 = Sunday).
var dayKeys = [7]DayKey{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// minutesPerDay bounds a minute-of-day value to [0, 1439].
const minutesPerDay = 24 * 60

// KeyFor returns the day key for a weekday.
func KeyFor(d time.Weekday) DayKey {
	return dayKeys[int(d)%7]
}

// TimeRange is one turn of a day. Either bound may be empty.
type TimeRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// DaySchedule holds the opening turns of a single day. When IsOpen is false
// the turns are ignored.
type DaySchedule struct {
	IsOpen bool      `json:"isOpen"`
	Turn1  TimeRange `json:"turn1"`
	Turn2  TimeRange `json:"turn2"`
}

// WeeklySchedule maps day keys to their schedule. Missing keys are closed.
type WeeklySchedule map[DayKey]DaySchedule

// ParseMinutes converts "H:MM", "HH:MM" or "HH:MM:SS" into minutes since
// midnight. Seconds are ignored. The second result is false for anything
// that is not a valid time of day.
func ParseMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || len(parts[2]) != 2 || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// bounds returns the parsed open and close minutes of the range. ok is false
// unless both parse and differ; open == close is not a 24h turn.
func (r TimeRange) bounds() (from, to int, ok bool) {
	from, okOpen := ParseMinutes(r.Open)
	to, okClose := ParseMinutes(r.Close)
	if !okOpen || !okClose || from == to {
		return 0, 0, false
	}
	return from, to, true
}

// Valid reports whether both bounds parse to distinct times of day.
func (r TimeRange) Valid() bool {
	_, _, ok := r.bounds()
	return ok
}

// Overnight reports whether the range is valid and wraps past midnight.
func (r TimeRange) Overnight() bool {
	from, to, ok := r.bounds()
	return ok && to < from
}

// contains reports whether minute falls inside the range as evaluated on
// the day the range belongs to.
func (r TimeRange) contains(minute int) bool {
	from, to, ok := r.bounds()
	if !ok {
		return false
	}
	if to > from {
		return minute >= from && minute < to
	}
	return minute >= from || minute < to
}

// carriesInto reports whether an overnight range from the previous day is
// still running at minute. Only the close bound is consulted.
func (r TimeRange) carriesInto(minute int) bool {
	from, to, ok := r.bounds()
	if !ok || to > from {
		return false
	}
	return minute < to
}

func (r TimeRange) String() string {
	from, to, ok := r.bounds()
	if !ok {
		return ""
	}
	return formatMinutes(from) + " - " + formatMinutes(to)
}

func (d DaySchedule) turns() [2]TimeRange {
	return [2]TimeRange{d.Turn1, d.Turn2}
}

// IsEmpty reports whether the schedule carries no day at all.
func (s WeeklySchedule) IsEmpty() bool {
	return len(s) == 0
}

// IsOpenAt reports whether the schedule is open at now, evaluated in now's
// own location. Only one day of overnight carry-over is considered.
func IsOpenAt(schedule WeeklySchedule, now time.Time) bool {
	if schedule.IsEmpty() {
		return false
	}

	weekday := now.Weekday()
	today := KeyFor(weekday)
	yesterday := KeyFor((weekday + 6) % 7)
	minute := now.Hour()*60 + now.Minute()

	if day, ok := schedule[today]; ok && day.IsOpen {
		for _, turn := range day.turns() {
			if turn.contains(minute) {
				return true
			}
		}
	}

	if day, ok := schedule[yesterday]; ok && day.IsOpen {
		for _, turn := range day.turns() {
			if turn.carriesInto(minute) {
				return true
			}
		}
	}

	return false
}

// FormatDaySchedule renders the valid turns of a day joined by ", ". A day
// marked open without any usable turn is rendered as closed.
func FormatDaySchedule(day *DaySchedule) string {
	if day == nil || !day.IsOpen {
		return Closed
	}
	var parts []string
	for _, turn := range day.turns() {
		if s := turn.String(); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return Closed
	}
	return strings.Join(parts, ", ")
}

// Closed is the label shown for a day without opening hours.
const Closed = "Fechado"

func formatMinutes(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
