package service

import (
	"testing"
	"time"
)

func TestSameDayUsesCalendarDate(t *testing.T) {
	morning := time.Date(2026, 3, 10, 0, 5, 0, 0, time.Local)
	night := time.Date(2026, 3, 10, 23, 55, 0, 0, time.Local)

	if !sameDay(morning, night) {
		t.Fatal("expected same calendar day")
	}

	// 相隔不足 24 小时但跨了日历日
	nextMorning := time.Date(2026, 3, 11, 0, 10, 0, 0, time.Local)
	if sameDay(night, nextMorning) {
		t.Fatal("expected different calendar days")
	}
}

func TestDayDiff(t *testing.T) {
	base := time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)

	cases := []struct {
		other time.Time
		want  int
	}{
		{time.Date(2026, 3, 10, 2, 0, 0, 0, time.Local), 0},
		{time.Date(2026, 3, 9, 23, 59, 0, 0, time.Local), 1},
		{time.Date(2026, 3, 8, 1, 0, 0, 0, time.Local), 2},
		{time.Date(2026, 3, 12, 1, 0, 0, 0, time.Local), -2},
	}

	for _, tc := range cases {
		if got := dayDiff(base, tc.other); got != tc.want {
			t.Fatalf("dayDiff(%v, %v) = %d, want %d", base, tc.other, got, tc.want)
		}
	}
}

func TestWithinDaysInclusive(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 7, 8, 0, 0, 0, time.Local)

	if !withinDays(time.Date(2026, 3, 1, 0, 1, 0, 0, time.Local), start, end) {
		t.Fatal("expected start day to be included")
	}
	if !withinDays(time.Date(2026, 3, 7, 23, 0, 0, 0, time.Local), start, end) {
		t.Fatal("expected end day to be included")
	}
	if withinDays(time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local), start, end) {
		t.Fatal("expected day after range to be excluded")
	}
}
