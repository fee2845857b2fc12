package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

// SaveDraft creates a new draft, or updates an existing project that is still being edited.
// Only the provided fields are validated. Saving a rejected project moves it back to editing.
func SaveDraft(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, in ProjectInput, existingID string, now time.Time) (*model.Project, error) {
	fields := validateStruct(in)
	if existingID == "" && in.Name == nil {
		fields.Add(fieldName, "this field is required")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}
	if err := rejectPhotos(in); err != nil {
		return nil, err
	}

	var project *model.Project
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		if existingID == "" {
			p, err := newProject(actor, now)
			if err != nil {
				return err
			}
			in.apply(p)
			if err := tx.InsertProject(ctx, p); err != nil {
				return projectWriteError(err)
			}
			project = p
			return nil
		}

		p, err := loadManagedProject(ctx, tx, actor, existingID)
		if err != nil {
			return err
		}
		if p.StatusApprove != model.StatusEditing && p.StatusApprove != model.StatusRejected {
			return errs.New(errs.CodeCannotDraftFromStatus, "cannot save a draft of a project in status %s", p.StatusApprove)
		}

		in.apply(p)
		p.StatusApprove = model.StatusEditing
		p.UpdatedAt = now
		if err := tx.UpdateProject(ctx, p); err != nil {
			return projectWriteError(err)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Project draft saved",
		zap.String("project_id", project.ID),
		zap.String("organization_id", project.OrganizationID),
		zap.Bool("created", existingID == ""))

	return project, nil
}

// SubmitForReview sends a new or existing project to moderation. The merged project must be
// complete and its schedule valid; every problem is reported in one validation error.
func SubmitForReview(ctx context.Context, store db.Store, logger *zap.Logger, policy *status.Policy, actor model.Actor, in ProjectInput, existingID string, now time.Time) (*model.Project, error) {
	if err := validateStruct(in).Err(); err != nil {
		return nil, err
	}
	if err := rejectPhotos(in); err != nil {
		return nil, err
	}

	var project *model.Project
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		var p *model.Project
		if existingID == "" {
			var err error
			if p, err = newProject(actor, now); err != nil {
				return err
			}
		} else {
			var err error
			if p, err = loadManagedProject(ctx, tx, actor, existingID); err != nil {
				return err
			}
			if err := status.CheckTransition(p.StatusApprove, model.StatusPending); err != nil {
				return err
			}
		}

		in.apply(p)
		if err := checkComplete(policy, p, now).Err(); err != nil {
			return err
		}

		p.StatusApprove = model.StatusPending
		p.UpdatedAt = now

		var err error
		if existingID == "" {
			err = tx.InsertProject(ctx, p)
		} else {
			err = tx.UpdateProject(ctx, p)
		}
		if err != nil {
			return projectWriteError(err)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Project submitted for review",
		zap.String("project_id", project.ID),
		zap.String("organization_id", project.OrganizationID))

	return project, nil
}

// UpdateProject applies an organizer's changes and optional status request to a project.
// While approved, the descriptive and schedule fields are frozen; photos may only be
// added once the project has completed, and a completed project can no longer be canceled.
func UpdateProject(ctx context.Context, store db.Store, logger *zap.Logger, policy *status.Policy, actor model.Actor, id string, in ProjectInput, requested *model.ApprovalStatus, now time.Time) (*model.Project, error) {
	if err := validateStruct(in).Err(); err != nil {
		return nil, err
	}

	var project *model.Project
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		current, err := loadManagedProject(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		display := status.DeriveDisplayStatus(current, now)

		p := current.Clone()
		changed := in.apply(p)

		if err := checkLocks(current, display, changed); err != nil {
			return err
		}

		if requested != nil && *requested != current.StatusApprove {
			if *requested == model.StatusCanceledByOrganizer && display == model.DisplayProjectCompleted {
				return errs.New(errs.CodeProjectLocked, "a completed project cannot be canceled")
			}
			if err := status.CheckTransition(current.StatusApprove, *requested); err != nil {
				return err
			}
			if err := status.CheckTransitionRole(actor, current, *requested); err != nil {
				return err
			}
			p.StatusApprove = *requested
		}

		if p.StatusApprove == model.StatusPending && (len(changed) > 0 || p.StatusApprove != current.StatusApprove) {
			if err := checkComplete(policy, p, now).Err(); err != nil {
				return err
			}
		}

		if len(changed) == 0 && p.StatusApprove == current.StatusApprove {
			project = current
			return nil
		}

		p.UpdatedAt = now
		if err := tx.UpdateProject(ctx, p); err != nil {
			return projectWriteError(err)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Project updated",
		zap.String("project_id", project.ID),
		zap.String("status", string(project.StatusApprove)))

	return project, nil
}

// checkLocks rejects changes a project's current state does not allow
func checkLocks(current *model.Project, display model.DisplayStatus, changed []string) error {
	var locked []string
	photosChanged := false
	for _, field := range changed {
		if field == fieldPhotos {
			photosChanged = true
			continue
		}
		if lockedFields[field] {
			locked = append(locked, field)
		}
	}

	frozen := current.StatusApprove == model.StatusApproved || current.StatusApprove == model.StatusCanceledByOrganizer
	if frozen && len(locked) > 0 {
		sort.Strings(locked)
		e := errs.New(errs.CodeProjectLocked, "project is %s and these fields can no longer change: %s",
			current.StatusApprove, strings.Join(locked, ", "))
		e.Fields = errs.FieldErrors{}
		for _, field := range locked {
			e.Fields.Add(field, "field is locked")
		}
		return e
	}

	if photosChanged && display != model.DisplayProjectCompleted {
		return errs.New(errs.CodeProjectLocked, photosLockedMsg)
	}
	return nil
}

const photosLockedMsg = "photos can only be added once the project is completed"

// rejectPhotos refuses photos on drafts and submissions, which are never completed
func rejectPhotos(in ProjectInput) error {
	if in.Photos != nil {
		return errs.New(errs.CodeProjectLocked, photosLockedMsg)
	}
	return nil
}

// ReviewRequest is an admin's moderation decision
type ReviewRequest struct {
	Decision      model.ApprovalStatus `yaml:"decision" validate:"required,oneof=approved rejected"`
	AdminComments string               `yaml:"admin_comments" validate:"omitempty,min=2,max=750"`
}

// ReviewProject records an admin's moderation decision on a pending project
func ReviewProject(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, id string, req ReviewRequest, now time.Time) (*model.Project, error) {
	if !actor.IsAdmin() {
		return nil, errs.New(errs.CodeNotAuthorized, "only admins can review projects")
	}
	if err := validateStruct(req).Err(); err != nil {
		return nil, err
	}

	var project *model.Project
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		p, err := tx.GetProjectForUpdate(ctx, id)
		if err != nil {
			return storeError(err, "load project %s", id)
		}
		if err := status.CheckTransition(p.StatusApprove, req.Decision); err != nil {
			return err
		}
		if err := status.CheckTransitionRole(actor, p, req.Decision); err != nil {
			return err
		}

		p.StatusApprove = req.Decision
		p.AdminComments = req.AdminComments
		p.UpdatedAt = now
		if err := tx.UpdateProject(ctx, p); err != nil {
			return projectWriteError(err)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Project reviewed",
		zap.String("project_id", project.ID),
		zap.String("decision", string(project.StatusApprove)),
		zap.String("admin_id", actor.UserID))

	return project, nil
}

// DeleteProject removes a project with its applications and roster. Organizers cannot
// delete a project once it is approved; they cancel it instead.
func DeleteProject(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, id string) error {
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		p, err := loadManagedProject(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && p.StatusApprove == model.StatusApproved {
			return errs.New(errs.CodeProjectLocked, "an approved project cannot be deleted, cancel it instead")
		}
		if err := tx.DeleteProject(ctx, id); err != nil {
			return storeError(err, "delete project %s", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Project deleted", zap.String("project_id", id), zap.String("user_id", actor.UserID))
	return nil
}

func newProject(actor model.Actor, now time.Time) (*model.Project, error) {
	if actor.Role != model.RoleOrganizer || actor.OrganizationID == "" {
		return nil, errs.New(errs.CodeNotAuthorized, "only organizers can create projects")
	}
	return &model.Project{
		ID:             newID(),
		OrganizationID: actor.OrganizationID,
		StatusApprove:  model.StatusEditing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// loadManagedProject locks a project and checks the actor may manage it
func loadManagedProject(ctx context.Context, tx db.Tx, actor model.Actor, id string) (*model.Project, error) {
	p, err := tx.GetProjectForUpdate(ctx, id)
	if err != nil {
		return nil, storeError(err, "load project %s", id)
	}
	if !actor.CanManage(p) {
		return nil, errs.New(errs.CodeNotAuthorized, "only the project's organizer can change it")
	}
	return p, nil
}

// projectWriteError reports a duplicate name against the name field
func projectWriteError(err error) error {
	if db.IsUniqueViolation(err, db.ConstraintProjectName) {
		fields := errs.FieldErrors{}
		fields.Add(fieldName, "a project with this name already exists")
		e := errs.Validation(fields)
		e.Err = err
		return e
	}
	return storeError(err, "save project")
}
