package hours

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// at returns a time on the week of 2026-10-12 (a Monday) in UTC.
func at(day time.Weekday, hour, minute int) time.Time {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	offset := (int(day) + 6) % 7 // days after Monday
	return monday.AddDate(0, 0, offset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestAtHelper(t *testing.T) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if got := at(d, 0, 0).Weekday(); got != d {
			t.Errorf("at(%v).Weekday() = %v", d, got)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"08:30", 510, true},
		{"8:30", 510, true},
		{"23:59", 1439, true},
		{"18:00:00", 1080, true},
		{" 09:15 ", 555, true},
		{"", 0, false},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"12:5", 0, false},
		{"ab:cd", 0, false},
		{"-1:00", 0, false},
		{"12:00:99", 0, false},
		{"1:2:3:4", 0, false},
		{"123:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMinutes(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseMinutes(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeRangeValid(t *testing.T) {
	tests := []struct {
		name      string
		r         TimeRange
		valid     bool
		overnight bool
	}{
		{"same day", TimeRange{"08:00", "18:00"}, true, false},
		{"overnight", TimeRange{"22:00", "02:00"}, true, true},
		{"degenerate", TimeRange{"10:00", "10:00"}, false, false},
		{"empty open", TimeRange{"", "10:00"}, false, false},
		{"empty close", TimeRange{"10:00", ""}, false, false},
		{"garbage", TimeRange{"abc", "10:00"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.r.Overnight(); got != tt.overnight {
				t.Errorf("Overnight() = %v, want %v", got, tt.overnight)
			}
		})
	}
}

func TestIsOpenAtSameDayTurn(t *testing.T) {
	s := WeeklySchedule{
		Monday: {IsOpen: true, Turn1: TimeRange{Open: "08:00", Close: "18:00"}},
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"monday noon", at(time.Monday, 12, 0), true},
		{"monday at opening", at(time.Monday, 8, 0), true},
		{"monday at closing", at(time.Monday, 18, 0), false},
		{"monday evening", at(time.Monday, 19, 0), false},
		{"monday before opening", at(time.Monday, 7, 59), false},
		{"tuesday noon", at(time.Tuesday, 12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpenAt(s, tt.now); got != tt.want {
				t.Errorf("IsOpenAt(%s) = %v, want %v", tt.now.Format(time.RFC1123), got, tt.want)
			}
		})
	}
}

func TestIsOpenAtOvernightTurn(t *testing.T) {
	s := WeeklySchedule{
		Friday: {IsOpen: true, Turn1: TimeRange{Open: "22:00", Close: "02:00"}},
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"friday late night", at(time.Friday, 23, 30), true},
		{"friday at opening", at(time.Friday, 22, 0), true},
		{"friday evening", at(time.Friday, 21, 59), false},
		// Friday's own early hours match the overnight turn on the same day.
		{"friday early morning", at(time.Friday, 1, 0), true},
		{"saturday carry-over", at(time.Saturday, 1, 0), true},
		{"saturday at close", at(time.Saturday, 2, 0), false},
		{"saturday after close", at(time.Saturday, 3, 0), false},
		{"sunday early morning", at(time.Sunday, 1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpenAt(s, tt.now); got != tt.want {
				t.Errorf("IsOpenAt(%s) = %v, want %v", tt.now.Format(time.RFC1123), got, tt.want)
			}
		})
	}
}

func TestIsOpenAtCarryOverRequiresOpenYesterday(t *testing.T) {
	s := WeeklySchedule{
		Friday: {IsOpen: false, Turn1: TimeRange{Open: "22:00", Close: "02:00"}},
	}
	if IsOpenAt(s, at(time.Saturday, 1, 0)) {
		t.Error("closed day must not carry over into the next day")
	}
}

func TestIsOpenAtCarryOverFromSecondTurn(t *testing.T) {
	s := WeeklySchedule{
		Saturday: {
			IsOpen: true,
			Turn1:  TimeRange{Open: "11:00", Close: "15:00"},
			Turn2:  TimeRange{Open: "19:00", Close: "01:30"},
		},
	}
	if !IsOpenAt(s, at(time.Sunday, 1, 0)) {
		t.Error("expected sunday 01:00 open via saturday turn2")
	}
	if IsOpenAt(s, at(time.Sunday, 1, 30)) {
		t.Error("expected sunday 01:30 closed")
	}
	if IsOpenAt(s, at(time.Saturday, 16, 0)) {
		t.Error("expected lunch gap closed")
	}
}

func TestIsOpenAtWeekWrap(t *testing.T) {
	// Sunday night into Monday morning crosses the end of the day table.
	s := WeeklySchedule{
		Sunday: {IsOpen: true, Turn1: TimeRange{Open: "20:00", Close: "03:00"}},
	}
	if !IsOpenAt(s, at(time.Monday, 2, 0)) {
		t.Error("expected monday 02:00 open via sunday overnight turn")
	}
}

func TestIsOpenAtDegenerateTurn(t *testing.T) {
	s := WeeklySchedule{
		Monday: {IsOpen: true, Turn1: TimeRange{Open: "10:00", Close: "10:00"}},
	}
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 30, 59} {
			if IsOpenAt(s, at(time.Monday, h, m)) {
				t.Fatalf("degenerate turn matched at %02d:%02d", h, m)
			}
			if IsOpenAt(s, at(time.Tuesday, h, m)) {
				t.Fatalf("degenerate turn carried over at %02d:%02d", h, m)
			}
		}
	}
}

func TestIsOpenAtClosedDayOverridesTurns(t *testing.T) {
	s := WeeklySchedule{
		Wednesday: {IsOpen: false, Turn1: TimeRange{Open: "08:00", Close: "20:00"}},
	}
	for h := 0; h < 24; h++ {
		if IsOpenAt(s, at(time.Wednesday, h, 15)) {
			t.Fatalf("closed day reported open at %02d:15", h)
		}
	}
}

func TestIsOpenAtEmptyAndMalformed(t *testing.T) {
	now := at(time.Monday, 12, 0)

	if IsOpenAt(nil, now) {
		t.Error("nil schedule must be closed")
	}
	if IsOpenAt(WeeklySchedule{}, now) {
		t.Error("empty schedule must be closed")
	}

	s := WeeklySchedule{
		Monday: {IsOpen: true, Turn1: TimeRange{Open: "oito", Close: "18:00"}},
	}
	if IsOpenAt(s, now) {
		t.Error("malformed open time must not match")
	}
}

func TestIsOpenAtOnlyOneDayOfCarryOver(t *testing.T) {
	s := WeeklySchedule{
		Thursday: {IsOpen: true, Turn1: TimeRange{Open: "23:00", Close: "05:00"}},
	}
	if IsOpenAt(s, at(time.Saturday, 1, 0)) {
		t.Error("overnight turn from two days prior must not be considered")
	}
}

func TestIsOpenAtUsesLocation(t *testing.T) {
	s := WeeklySchedule{
		Monday: {IsOpen: true, Turn1: TimeRange{Open: "08:00", Close: "18:00"}},
	}
	loc := time.FixedZone("BRT", -3*60*60)
	// 20:00 UTC is 17:00 in BRT.
	now := time.Date(2026, 10, 12, 20, 0, 0, 0, time.UTC)
	if IsOpenAt(s, now) {
		t.Error("expected closed when evaluated in UTC")
	}
	if !IsOpenAt(s, now.In(loc)) {
		t.Error("expected open when evaluated in BRT")
	}
}

func TestFormatDaySchedule(t *testing.T) {
	tests := []struct {
		name string
		day  *DaySchedule
		want string
	}{
		{"absent", nil, "Fechado"},
		{"closed", &DaySchedule{IsOpen: false, Turn1: TimeRange{"08:00", "12:00"}}, "Fechado"},
		{"one turn", &DaySchedule{IsOpen: true, Turn1: TimeRange{"08:00", "12:00"}}, "08:00 - 12:00"},
		{"two turns", &DaySchedule{
			IsOpen: true,
			Turn1:  TimeRange{"08:00", "12:00"},
			Turn2:  TimeRange{"14:00", "18:00"},
		}, "08:00 - 12:00, 14:00 - 18:00"},
		{"only second turn", &DaySchedule{IsOpen: true, Turn2: TimeRange{"14:00", "18:00"}}, "14:00 - 18:00"},
		{"overnight", &DaySchedule{IsOpen: true, Turn1: TimeRange{"22:00", "02:00"}}, "22:00 - 02:00"},
		{"normalizes short hours", &DaySchedule{IsOpen: true, Turn1: TimeRange{"8:00", "18:00:00"}}, "08:00 - 18:00"},
		{"open without usable turns", &DaySchedule{IsOpen: true, Turn1: TimeRange{"10:00", "10:00"}}, "Fechado"},
		{"open with empty turns", &DaySchedule{IsOpen: true}, "Fechado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDaySchedule(tt.day); got != tt.want {
				t.Errorf("FormatDaySchedule() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWeek(t *testing.T) {
	s := WeeklySchedule{
		Monday: {IsOpen: true, Turn1: TimeRange{"08:00", "18:00"}},
		Sunday: {IsOpen: false},
	}
	lines := FormatWeek(s, at(time.Monday, 9, 0))

	if len(lines) != 7 {
		t.Fatalf("len = %d, want 7", len(lines))
	}
	if lines[0].Key != Monday || lines[6].Key != Sunday {
		t.Errorf("order: first %q last %q, want seg..dom", lines[0].Key, lines[6].Key)
	}
	if lines[0].Hours != "08:00 - 18:00" {
		t.Errorf("monday hours = %q", lines[0].Hours)
	}
	if !lines[0].Today {
		t.Error("monday should be marked today")
	}
	if lines[1].Hours != Closed || lines[1].Today {
		t.Errorf("tuesday line = %+v", lines[1])
	}
	if lines[5].Label != "Sábado" {
		t.Errorf("saturday label = %q", lines[5].Label)
	}
}

func TestStatusAt(t *testing.T) {
	now := at(time.Monday, 12, 0)
	open := WeeklySchedule{Monday: {IsOpen: true, Turn1: TimeRange{"08:00", "18:00"}}}
	closed := WeeklySchedule{Tuesday: {IsOpen: true, Turn1: TimeRange{"08:00", "18:00"}}}

	if got := StatusAt(nil, now); got != StatusNotInformed {
		t.Errorf("nil: got %q", got)
	}
	if got := StatusAt(open, now); got != StatusOpen {
		t.Errorf("open: got %q", got)
	}
	if got := StatusAt(closed, now); got != StatusClosed {
		t.Errorf("closed: got %q", got)
	}
}

func TestDayKey(t *testing.T) {
	if KeyFor(time.Sunday) != Sunday || KeyFor(time.Saturday) != Saturday {
		t.Error("KeyFor mapping broken")
	}
	if !Monday.Valid() || DayKey("mon").Valid() {
		t.Error("Valid mapping broken")
	}
}

func TestWatchCallsImmediatelyAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		Watch(ctx, 10*time.Millisecond, func(time.Time) {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if calls.Load() < 3 {
		t.Errorf("calls = %d, want >= 3", calls.Load())
	}
}

func TestWatchReturnsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	Watch(ctx, time.Hour, func(time.Time) { calls++ })
	if calls != 1 {
		t.Errorf("calls = %d, want exactly the initial evaluation", calls)
	}
}
