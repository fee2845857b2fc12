package status

import (
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

type schedule struct {
	startDT  time.Time
	endDT    time.Time
	startApp time.Time
	endApp   time.Time
}

// displayRule maps a window of the schedule to the status shown while now is inside it
type displayRule struct {
	matches func(s schedule, now time.Time) bool
	status  model.DisplayStatus
}

// displayRules are evaluated in order and the first match wins, so overlapping windows
// from malformed schedules still resolve deterministically. Windows are half-open.
var displayRules = []displayRule{
	{
		matches: func(s schedule, now time.Time) bool {
			return !now.Before(s.startDT) && now.Before(s.startApp)
		},
		status: model.DisplayOpen,
	},
	{
		matches: func(s schedule, now time.Time) bool {
			return !now.Before(s.startApp) && now.Before(s.endApp)
		},
		status: model.DisplayReadyForFeedback,
	},
	{
		matches: func(s schedule, now time.Time) bool {
			return !now.Before(s.endApp) && now.Before(s.endDT)
		},
		status: model.DisplayReceptionOfResponsesClosed,
	},
	{
		matches: func(s schedule, now time.Time) bool {
			return !now.Before(s.endDT)
		},
		status: model.DisplayProjectCompleted,
	},
}

// DeriveDisplayStatus computes the public status of a project at the given instant
func DeriveDisplayStatus(p *model.Project, now time.Time) model.DisplayStatus {
	switch p.StatusApprove {
	case model.StatusCanceledByOrganizer:
		return model.DisplayCanceledByOrganizer
	case model.StatusApproved:
	default:
		return model.DisplayEditing
	}

	if !p.HasSchedule() {
		return model.DisplayEditing
	}

	s := schedule{
		startDT:  *p.StartDatetime,
		endDT:    *p.EndDatetime,
		startApp: *p.StartDateApplication,
		endApp:   *p.EndDateApplication,
	}
	for _, rule := range displayRules {
		if rule.matches(s, now) {
			return rule.status
		}
	}

	// Published but applications have not opened yet
	return model.DisplayOpen
}

// AcceptsApplications reports whether volunteers can apply to the project right now:
// strictly after the window opens and before it closes.
func AcceptsApplications(p *model.Project, now time.Time) bool {
	if p.StatusApprove != model.StatusApproved || DeriveDisplayStatus(p, now) != model.DisplayReadyForFeedback {
		return false
	}
	return now.After(*p.StartDateApplication)
}
