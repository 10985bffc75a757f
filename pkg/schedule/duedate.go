/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package schedule implements the posting calendar policy. Its outputs are
// pinned by golden tests; change the policy only together with them.
package schedule

import (
	"time"

	"github.com/brightmark/postdash/pkg/generation"
)

const daysPerCycle = 7

// Calendar maps a source task's creation time and a copy's cycle number to
// the copy's due date.
type Calendar struct{}

func NewCalendar() *Calendar {
	return &Calendar{}
}

// CycleNumberOf parses the cycle suffix off a generated copy name. It
// delegates to the single authoritative suffix parser.
func (c *Calendar) CycleNumberOf(name string) (int, bool) {
	return generation.CycleNumber(name)
}

// DueDateFor returns the due date of the cycleNumber-th posting copy derived
// from a source created at sourceCreatedAt. Each cycle is one week; a nil
// cycle number is treated as the first cycle. The result is truncated to
// midnight UTC so equal cycles always collapse to the same calendar day.
func (c *Calendar) DueDateFor(sourceCreatedAt time.Time, cycleNumber *int) time.Time {
	cycle := 1
	if cycleNumber != nil && *cycleNumber > 0 {
		cycle = *cycleNumber
	}
	due := sourceCreatedAt.UTC().AddDate(0, 0, cycle*daysPerCycle)
	return time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
}
