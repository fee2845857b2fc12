package status

import (
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
)

const (
	day = 24 * time.Hour

	// MaxSchedulingHorizon bounds how far ahead any schedule timestamp may be
	MaxSchedulingHorizon = 365 * day

	MinApplicationWindow = 7 * day
	MaxApplicationWindow = 21 * day

	MinEventOffset = 2 * time.Hour
	MaxEventOffset = 21 * day

	MinEventDuration = 2 * time.Hour
	MaxEventDuration = 9 * time.Hour

	EarliestStartHour = 8
	LatestStartHour   = 20
	EarliestEndHour   = 10
	LatestEndHour     = 22
)

const (
	FieldStartDatetime        = "start_datetime"
	FieldEndDatetime          = "end_datetime"
	FieldStartDateApplication = "start_date_application"
	FieldEndDateApplication   = "end_date_application"
)

// Policy holds the location used for hour-of-day checks
type Policy struct {
	Location *time.Location
}

// NewPolicy creates a schedule policy evaluating business hours in loc (UTC when nil)
func NewPolicy(loc *time.Location) *Policy {
	if loc == nil {
		loc = time.UTC
	}
	return &Policy{Location: loc}
}

type scheduleCheck struct {
	field string
	check func(p *Policy, s schedule, now time.Time) []string
}

var scheduleChecks = []scheduleCheck{
	{
		field: FieldStartDateApplication,
		check: func(p *Policy, s schedule, now time.Time) []string {
			var msgs []string
			if s.startApp.Before(now) {
				msgs = append(msgs, "applications cannot open in the past")
			}
			if s.startApp.After(now.Add(MaxSchedulingHorizon)) {
				msgs = append(msgs, "applications must open within 365 days")
			}
			return msgs
		},
	},
	{
		field: FieldEndDateApplication,
		check: func(p *Policy, s schedule, now time.Time) []string {
			var msgs []string
			if s.endApp.Before(s.startApp.Add(MinApplicationWindow)) {
				msgs = append(msgs, "application window must last at least 7 days")
			}
			if s.endApp.After(s.startApp.Add(MaxApplicationWindow)) {
				msgs = append(msgs, "application window must not exceed 21 days")
			}
			if s.endApp.After(now.Add(MaxSchedulingHorizon)) {
				msgs = append(msgs, "applications must close within 365 days")
			}
			return msgs
		},
	},
	{
		field: FieldStartDatetime,
		check: func(p *Policy, s schedule, now time.Time) []string {
			var msgs []string
			if s.startDT.Before(s.endApp) {
				msgs = append(msgs, "event cannot start before applications close")
			}
			if s.startDT.After(now.Add(MaxSchedulingHorizon)) {
				msgs = append(msgs, "event must start within 365 days")
			}
			if h := s.startDT.In(p.Location).Hour(); h < EarliestStartHour || h > LatestStartHour {
				msgs = append(msgs, "event must start between 08:00 and 20:00")
			}
			return msgs
		},
	},
	{
		field: FieldEndDatetime,
		check: func(p *Policy, s schedule, now time.Time) []string {
			var msgs []string
			if h := s.endDT.In(p.Location).Hour(); h < EarliestEndHour || h > LatestEndHour {
				msgs = append(msgs, "event must end between 10:00 and 22:00")
			}
			if s.endDT.Before(s.startDT.Add(MinEventOffset)) {
				msgs = append(msgs, "event must end at least 2 hours after it starts")
			}
			if s.endDT.After(s.startDT.Add(MaxEventOffset)) {
				msgs = append(msgs, "event must end within 21 days of its start")
			}
			if s.endDT.After(now.Add(MaxSchedulingHorizon)) {
				msgs = append(msgs, "event must end within 365 days")
			}
			if d := s.endDT.Sub(s.startDT); d < MinEventDuration || d > MaxEventDuration {
				msgs = append(msgs, "event must last between 2 and 9 hours")
			}
			return msgs
		},
	},
}

// ValidateSchedule checks every scheduling bound and returns all violations keyed by field.
// An empty result means the schedule is valid.
func (p *Policy) ValidateSchedule(startDT, endDT, startApp, endApp, now time.Time) errs.FieldErrors {
	s := schedule{startDT: startDT, endDT: endDT, startApp: startApp, endApp: endApp}
	fields := errs.FieldErrors{}
	for _, c := range scheduleChecks {
		for _, msg := range c.check(p, s, now) {
			fields.Add(c.field, "%s", msg)
		}
	}
	return fields
}
