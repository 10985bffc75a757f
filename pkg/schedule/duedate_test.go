/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package schedule

import (
	"testing"
	"time"

	"gotest.tools/assert"
)

// The calendar policy is a pinned contract; these cases are golden outputs.
func TestDueDateFor(t *testing.T) {
	calendar := NewCalendar()
	createdAt := time.Date(2026, 8, 3, 14, 45, 12, 0, time.UTC)

	cases := []struct {
		name  string
		cycle *int
		want  time.Time
	}{
		{"nil cycle is first cycle", nil, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{"cycle 1", ptr(1), time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{"cycle 2", ptr(2), time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)},
		{"cycle 5 crosses month", ptr(5), time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)},
		{"non-positive cycle clamps to 1", ptr(0), time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, calendar.DueDateFor(createdAt, tc.cycle), tc.want)
		})
	}
}

func TestDueDateForNormalizesZone(t *testing.T) {
	calendar := NewCalendar()
	loc := time.FixedZone("UTC+6", 6*3600)
	// 2026-08-03 02:30 +06:00 is 2026-08-02 20:30 UTC; the cycle counts from
	// the UTC day.
	createdAt := time.Date(2026, 8, 3, 2, 30, 0, 0, loc)

	got := calendar.DueDateFor(createdAt, ptr(1))

	assert.Equal(t, got, time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, got.Location(), time.UTC)
}

func TestCycleNumberOf(t *testing.T) {
	calendar := NewCalendar()

	n, ok := calendar.CycleNumberOf("Instagram Post -4")
	assert.Assert(t, ok)
	assert.Equal(t, n, 4)

	_, ok = calendar.CycleNumberOf("Instagram Post")
	assert.Assert(t, !ok)
}

func TestDueDateForYearBoundary(t *testing.T) {
	calendar := NewCalendar()
	createdAt := time.Date(2026, 12, 28, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, calendar.DueDateFor(createdAt, ptr(1)), time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC))
}

func ptr(n int) *int {
	return &n
}
