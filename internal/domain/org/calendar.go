package org

import (
	"context"
	"time"
)

type TimezoneSource interface {
	Timezone(ctx context.Context, orgID string) (string, error)
}

// Calendar resolves "now" as an organisation-local calendar date with the
// time-of-day stripped. The default timezone is injected at construction
// and used when an organisation has none configured.
type Calendar struct {
	source    TimezoneSource
	defaultTZ string
	now       func() time.Time
}

func NewCalendar(source TimezoneSource, defaultTZ string) *Calendar {
	return &Calendar{source: source, defaultTZ: defaultTZ, now: time.Now}
}

func (c *Calendar) CurrentDate(ctx context.Context, orgID string) (time.Time, error) {
	tz, err := c.source.Timezone(ctx, orgID)
	if err != nil || tz == "" {
		tz = c.defaultTZ
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	now := c.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}
