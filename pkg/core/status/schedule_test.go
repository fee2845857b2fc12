package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleInput struct {
	startDT, endDT, startApp, endApp time.Time
}

func validSchedule() scheduleInput {
	return scheduleInput{
		startApp: *at("2025-03-02T09:00:00Z"),
		endApp:   *at("2025-03-12T09:00:00Z"),
		startDT:  *at("2025-03-15T10:00:00Z"),
		endDT:    *at("2025-03-15T14:00:00Z"),
	}
}

var scheduleNow = *at("2025-03-01T09:00:00Z")

func validate(p *Policy, s scheduleInput) map[string][]string {
	return p.ValidateSchedule(s.startDT, s.endDT, s.startApp, s.endApp, scheduleNow)
}

func TestValidateSchedule_Valid(t *testing.T) {
	fields := validate(NewPolicy(nil), validSchedule())
	assert.Empty(t, fields)
}

func TestValidateSchedule_StartBeforeBusinessHours(t *testing.T) {
	s := validSchedule()
	s.startDT = *at("2025-03-15T07:00:00Z")
	s.endDT = *at("2025-03-15T11:00:00Z")

	fields := validate(NewPolicy(nil), s)

	require.Len(t, fields, 1)
	require.Len(t, fields[FieldStartDatetime], 1)
	assert.Contains(t, fields[FieldStartDatetime][0], "08:00")
}

func TestValidateSchedule_HourBoundsInclusive(t *testing.T) {
	s := validSchedule()
	s.startDT = *at("2025-03-15T20:30:00Z")
	s.endDT = *at("2025-03-15T22:45:00Z")

	assert.Empty(t, validate(NewPolicy(nil), s))
}

func TestValidateSchedule_UsesPolicyLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s := validSchedule()
	// 06:00 UTC is 09:00 in UTC+3
	s.startDT = *at("2025-03-15T06:00:00Z")
	s.endDT = *at("2025-03-15T10:00:00Z")

	assert.Empty(t, validate(NewPolicy(loc), s))
	assert.Contains(t, validate(NewPolicy(nil), s), FieldStartDatetime)
}

func TestValidateSchedule_ApplicationWindowBounds(t *testing.T) {
	tests := []struct {
		name   string
		endApp string
		valid  bool
	}{
		{"six days", "2025-03-08T09:00:00Z", false},
		{"exactly seven days", "2025-03-09T09:00:00Z", true},
		{"exactly twenty-one days", "2025-03-23T09:00:00Z", true},
		{"twenty-two days", "2025-03-24T09:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			s.endApp = *at(tt.endApp)
			s.startDT = *at("2025-03-25T10:00:00Z")
			s.endDT = *at("2025-03-25T14:00:00Z")

			fields := validate(NewPolicy(nil), s)
			if tt.valid {
				assert.Empty(t, fields)
			} else {
				assert.Contains(t, fields, FieldEndDateApplication)
			}
		})
	}
}

func TestValidateSchedule_CollectsAllViolations(t *testing.T) {
	s := scheduleInput{
		startApp: *at("2025-02-20T09:00:00Z"), // in the past
		endApp:   *at("2025-02-22T09:00:00Z"), // window too short
		startDT:  *at("2025-02-21T06:00:00Z"), // before applications close, too early
		endDT:    *at("2025-02-21T23:30:00Z"), // too late in the day, too long
	}

	fields := validate(NewPolicy(nil), s)

	assert.Contains(t, fields, FieldStartDateApplication)
	assert.Contains(t, fields, FieldEndDateApplication)
	require.Contains(t, fields, FieldStartDatetime)
	require.Contains(t, fields, FieldEndDatetime)
	assert.Len(t, fields[FieldStartDatetime], 2)
	assert.Len(t, fields[FieldEndDatetime], 2)
}

func TestValidateSchedule_DurationBounds(t *testing.T) {
	s := validSchedule()
	s.endDT = s.startDT.Add(90 * time.Minute)
	fields := validate(NewPolicy(nil), s)
	assert.Contains(t, fields, FieldEndDatetime)

	s = validSchedule()
	s.endDT = s.startDT.Add(9*time.Hour + time.Minute)
	fields = validate(NewPolicy(nil), s)
	require.Contains(t, fields, FieldEndDatetime)
	assert.Contains(t, fields[FieldEndDatetime], "event must last between 2 and 9 hours")

	s = validSchedule()
	s.endDT = s.startDT.Add(2 * time.Hour)
	assert.Empty(t, validate(NewPolicy(nil), s))
}

func TestValidateSchedule_Horizon(t *testing.T) {
	s := scheduleInput{
		startApp: scheduleNow.Add(366 * 24 * time.Hour),
	}
	s.endApp = s.startApp.Add(10 * 24 * time.Hour)
	s.startDT = time.Date(s.endApp.Year(), s.endApp.Month(), s.endApp.Day()+1, 10, 0, 0, 0, time.UTC)
	s.endDT = s.startDT.Add(4 * time.Hour)

	fields := validate(NewPolicy(nil), s)

	assert.Contains(t, fields[FieldStartDateApplication], "applications must open within 365 days")
	assert.Contains(t, fields[FieldEndDateApplication], "applications must close within 365 days")
	assert.Contains(t, fields[FieldStartDatetime], "event must start within 365 days")
	assert.Contains(t, fields[FieldEndDatetime], "event must end within 365 days")
}
