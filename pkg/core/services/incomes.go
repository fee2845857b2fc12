package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

// SubmitIncomeRequest is a volunteer's application to a project
type SubmitIncomeRequest struct {
	ProjectID   string `yaml:"project_id" validate:"required"`
	Phone       string `yaml:"phone" validate:"required,ruphone"`
	Telegram    string `yaml:"telegram" validate:"omitempty,min=5,max=32,telegram"`
	CoverLetter string `yaml:"cover_letter" validate:"omitempty,min=10,max=530"`
}

// SubmitIncome records a volunteer's application to a project that is currently
// accepting applications. The checks run in order and the first failure wins:
// project eligibility, an active application, a previous rejection.
func SubmitIncome(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, req SubmitIncomeRequest, now time.Time) (*model.ProjectIncome, error) {
	if actor.Role != model.RoleVolunteer || actor.VolunteerID == "" {
		return nil, errs.New(errs.CodeNotAuthorized, "only volunteers can apply to projects")
	}
	if err := validateStruct(req).Err(); err != nil {
		return nil, err
	}

	logger.Debug("Submitting income",
		zap.String("project_id", req.ProjectID),
		zap.String("volunteer_id", actor.VolunteerID))

	var income *model.ProjectIncome
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		project, err := tx.GetProjectForUpdate(ctx, req.ProjectID)
		if err != nil {
			return storeError(err, "load project %s", req.ProjectID)
		}

		if !status.AcceptsApplications(project, now) {
			return errs.New(errs.CodeIneligibleProject, "project %s is not accepting applications (%s)",
				project.ID, status.DeriveDisplayStatus(project, now))
		}

		existing, err := tx.FindIncomes(ctx, project.ID, actor.VolunteerID)
		if err != nil {
			return storeError(err, "load incomes for project %s", project.ID)
		}
		if err := checkReapplication(existing); err != nil {
			return err
		}

		income = &model.ProjectIncome{
			ID:          newID(),
			ProjectID:   project.ID,
			VolunteerID: actor.VolunteerID,
			Status:      model.IncomeSubmitted,
			Phone:       req.Phone,
			Telegram:    req.Telegram,
			CoverLetter: req.CoverLetter,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.InsertIncome(ctx, income); err != nil {
			if db.IsUniqueViolation(err, db.ConstraintIncomeStatus) {
				return errs.Wrap(errs.CodeDuplicateApplication, err, "volunteer has already applied to project %s", project.ID)
			}
			return storeError(err, "insert income")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Income submitted",
		zap.String("income_id", income.ID),
		zap.String("project_id", income.ProjectID),
		zap.String("volunteer_id", income.VolunteerID))

	return income, nil
}

// checkReapplication rejects a new application when an active one exists, then when a rejected one exists
func checkReapplication(existing []model.ProjectIncome) error {
	for _, i := range existing {
		if i.Status != model.IncomeRejected {
			return errs.New(errs.CodeDuplicateApplication, "volunteer already has an application in status %s", i.Status)
		}
	}
	if len(existing) > 0 {
		return errs.New(errs.CodeReapplicationBlocked, "volunteer was rejected from this project and cannot apply again")
	}
	return nil
}

// AcceptIncome accepts an application and adds the volunteer to the project roster.
// The income row stays locked for the whole transaction, so concurrent accepts of the
// same income are serialised and the loser sees ALREADY_PARTICIPANT.
func AcceptIncome(ctx context.Context, store db.Store, notifier Notifier, logger *zap.Logger, actor model.Actor, incomeID string, site model.SiteContext, now time.Time) (*model.Participant, error) {
	logger.Debug("Accepting income", zap.String("income_id", incomeID))

	var participant *model.Participant
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		income, project, err := loadManagedIncome(ctx, tx, actor, incomeID)
		if err != nil {
			return err
		}

		_, err = tx.GetParticipant(ctx, project.ID, income.VolunteerID)
		switch {
		case err == nil:
			return errs.New(errs.CodeAlreadyParticipant, "volunteer is already a participant of project %s", project.ID)
		case !errors.Is(err, db.ErrNotFound):
			return storeError(err, "load participant")
		}

		if income.Status == model.IncomeRejected {
			return errs.New(errs.CodeAlreadyRejected, "income %s has already been rejected", income.ID)
		}

		if err := tx.UpdateIncomeStatus(ctx, income.ID, model.IncomeAccepted, now); err != nil {
			return storeError(err, "update income %s", income.ID)
		}

		participant = &model.Participant{
			ID:          newID(),
			ProjectID:   project.ID,
			VolunteerID: income.VolunteerID,
			CreatedAt:   now,
		}
		if err := tx.InsertParticipant(ctx, participant); err != nil {
			if db.IsUniqueViolation(err, db.ConstraintParticipantUnique) {
				return errs.Wrap(errs.CodeAlreadyParticipant, err, "volunteer is already a participant of project %s", project.ID)
			}
			return storeError(err, "insert participant")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Income accepted",
		zap.String("income_id", incomeID),
		zap.String("participant_id", participant.ID),
		zap.String("project_id", participant.ProjectID))

	enqueueNotification(ctx, notifier, logger, model.NotificationAccepted, model.ParticipantRef{
		ParticipantID: participant.ID,
		ProjectID:     participant.ProjectID,
		VolunteerID:   participant.VolunteerID,
	}, site, now)

	return participant, nil
}

// RejectIncome rejects an application. Rejecting an accepted income also removes the
// volunteer from the roster and notifies them; rejecting a fresh application is silent.
func RejectIncome(ctx context.Context, store db.Store, notifier Notifier, logger *zap.Logger, actor model.Actor, incomeID string, site model.SiteContext, now time.Time) (*model.ProjectIncome, error) {
	logger.Debug("Rejecting income", zap.String("income_id", incomeID))

	var (
		income  *model.ProjectIncome
		removed *model.Participant
	)
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		var err error
		income, _, err = loadManagedIncome(ctx, tx, actor, incomeID)
		if err != nil {
			return err
		}

		switch income.Status {
		case model.IncomeRejected:
			return errs.New(errs.CodeAlreadyRejected, "income %s has already been rejected", income.ID)

		case model.IncomeAccepted:
			participant, err := tx.GetParticipant(ctx, income.ProjectID, income.VolunteerID)
			if err != nil && !errors.Is(err, db.ErrNotFound) {
				return storeError(err, "load participant")
			}
			if participant != nil {
				if err := tx.DeleteParticipant(ctx, participant.ID); err != nil {
					return storeError(err, "delete participant %s", participant.ID)
				}
				removed = participant
			}
		}

		if err := tx.UpdateIncomeStatus(ctx, income.ID, model.IncomeRejected, now); err != nil {
			if db.IsUniqueViolation(err, db.ConstraintIncomeStatus) {
				return errs.Wrap(errs.CodeAlreadyRejected, err, "volunteer already has a rejected application for project %s", income.ProjectID)
			}
			return storeError(err, "update income %s", income.ID)
		}
		income.Status = model.IncomeRejected
		income.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Income rejected",
		zap.String("income_id", income.ID),
		zap.String("project_id", income.ProjectID),
		zap.Bool("participant_removed", removed != nil))

	if removed != nil {
		enqueueNotification(ctx, notifier, logger, model.NotificationRejected, model.ParticipantRef{
			ParticipantID: removed.ID,
			ProjectID:     removed.ProjectID,
			VolunteerID:   removed.VolunteerID,
		}, site, now)
	}

	return income, nil
}

// WithdrawIncome lets a volunteer take back an application that has not been decided yet
func WithdrawIncome(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, incomeID string) error {
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		income, err := tx.GetIncomeForUpdate(ctx, incomeID)
		if err != nil {
			return storeError(err, "load income %s", incomeID)
		}
		if actor.Role != model.RoleVolunteer || actor.VolunteerID != income.VolunteerID {
			return errs.New(errs.CodeNotAuthorized, "only the applicant can withdraw an application")
		}
		if income.Status != model.IncomeSubmitted {
			return errs.New(errs.CodeCannotWithdraw, "cannot withdraw an application in status %s", income.Status)
		}
		if err := tx.DeleteIncome(ctx, income.ID); err != nil {
			return storeError(err, "delete income %s", income.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Income withdrawn", zap.String("income_id", incomeID), zap.String("volunteer_id", actor.VolunteerID))
	return nil
}

// loadManagedIncome locks the income and loads its project, checking the actor may decide on it
func loadManagedIncome(ctx context.Context, tx db.Tx, actor model.Actor, incomeID string) (*model.ProjectIncome, *model.Project, error) {
	income, err := tx.GetIncomeForUpdate(ctx, incomeID)
	if err != nil {
		return nil, nil, storeError(err, "load income %s", incomeID)
	}
	project, err := tx.GetProjectForUpdate(ctx, income.ProjectID)
	if err != nil {
		return nil, nil, storeError(err, "load project %s", income.ProjectID)
	}
	if !actor.CanManage(project) {
		return nil, nil, errs.New(errs.CodeNotAuthorized, "only the project's organizer can decide on its applications")
	}
	return income, project, nil
}

// enqueueNotification hands the notification to the notifier after the transaction committed.
// The caller's cancellation does not reach the queue.
func enqueueNotification(ctx context.Context, notifier Notifier, logger *zap.Logger, kind model.NotificationKind, ref model.ParticipantRef, site model.SiteContext, now time.Time) {
	if notifier == nil {
		logger.Warn("No notifier configured, notification dropped",
			zap.String("kind", string(kind)),
			zap.String("participant_id", ref.ParticipantID))
		return
	}

	n := model.Notification{
		ID:          newID(),
		Kind:        kind,
		Participant: ref,
		Site:        site,
		CreatedAt:   now,
	}
	notifier.Enqueue(context.WithoutCancel(ctx), n)

	logger.Debug("Notification enqueued",
		zap.String("notification_id", n.ID),
		zap.String("kind", string(kind)),
		zap.String("participant_id", ref.ParticipantID))
}
