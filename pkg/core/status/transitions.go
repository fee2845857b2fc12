package status

import (
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

// allowedTransitions maps the current approval status to every status it may move to.
// canceled_by_organizer has no entry and is terminal.
var allowedTransitions = map[model.ApprovalStatus][]model.ApprovalStatus{
	model.StatusEditing:  {model.StatusEditing, model.StatusPending},
	model.StatusPending:  {model.StatusApproved, model.StatusRejected},
	model.StatusRejected: {model.StatusEditing, model.StatusPending},
	model.StatusApproved: {model.StatusApproved, model.StatusCanceledByOrganizer},
}

// moderatorTransitions can only be performed by an admin
var moderatorTransitions = map[model.ApprovalStatus]map[model.ApprovalStatus]bool{
	model.StatusPending: {
		model.StatusApproved: true,
		model.StatusRejected: true,
	},
}

// CanTransition reports whether a project may move from current to requested
func CanTransition(current, requested model.ApprovalStatus) bool {
	for _, allowed := range allowedTransitions[current] {
		if allowed == requested {
			return true
		}
	}
	return false
}

// CheckTransition returns a validation error naming the transition when it is not allowed
func CheckTransition(current, requested model.ApprovalStatus) error {
	if !requested.IsValid() {
		e := errs.New(errs.CodeIllegalTransition, "unknown approval status %q", requested)
		e.Fields = errs.FieldErrors{}
		e.Fields.Add("status_approve", "unknown status %q", requested)
		return e
	}
	if !CanTransition(current, requested) {
		e := errs.New(errs.CodeIllegalTransition, "cannot change status from %s to %s", current, requested)
		e.Fields = errs.FieldErrors{}
		e.Fields.Add("status_approve", "transition %s -> %s is not allowed", current, requested)
		return e
	}
	return nil
}

// CheckTransitionRole verifies the actor holds the role a transition requires.
// Moderation decisions belong to admins; every other change belongs to the owning organizer.
func CheckTransitionRole(actor model.Actor, project *model.Project, requested model.ApprovalStatus) error {
	if moderatorTransitions[project.StatusApprove][requested] {
		if !actor.IsAdmin() {
			return errs.New(errs.CodeNotAuthorized, "only an admin can move a project from %s to %s", project.StatusApprove, requested)
		}
		return nil
	}
	if !actor.CanManage(project) {
		return errs.New(errs.CodeNotAuthorized, "only the project's organizer can change its status")
	}
	return nil
}
