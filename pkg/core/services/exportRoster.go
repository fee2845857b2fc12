package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/clients/sheetsclient"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

// RosterStore defines the reads needed to build a roster
type RosterStore interface {
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListParticipants(ctx context.Context, projectID string) ([]model.Participant, error)
	ListIncomesByProject(ctx context.Context, projectID string) ([]model.ProjectIncome, error)
	GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error)
}

// RosterWriter publishes a roster to a spreadsheet
type RosterWriter interface {
	PublishRoster(ctx context.Context, spreadsheetID string, roster *sheetsclient.Roster) error
}

// BuildRoster collects a project's participants with the contact details they gave when applying.
// Removed volunteer accounts stay on the roster without personal data.
func BuildRoster(ctx context.Context, store RosterStore, logger *zap.Logger, actor model.Actor, projectID string, loc *time.Location) (*sheetsclient.Roster, error) {
	project, err := store.GetProject(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "load project %s", projectID)
	}
	if !actor.CanManage(project) {
		return nil, errs.New(errs.CodeNotAuthorized, "only the project's organizer can export its roster")
	}
	if loc == nil {
		loc = time.UTC
	}

	participants, err := store.ListParticipants(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "list participants of %s", projectID)
	}

	incomes, err := store.ListIncomesByProject(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "list incomes of %s", projectID)
	}
	accepted := make(map[string]model.ProjectIncome)
	for _, i := range incomes {
		if i.Status == model.IncomeAccepted {
			accepted[i.VolunteerID] = i
		}
	}

	logger.Debug("Building roster",
		zap.String("project_id", projectID),
		zap.Int("participants", len(participants)))

	roster := &sheetsclient.Roster{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Rows:        make([]sheetsclient.RosterRow, 0, len(participants)),
	}
	for _, p := range participants {
		row := sheetsclient.RosterRow{JoinedAt: p.CreatedAt.In(loc).Format("2006-01-02 15:04")}

		volunteer, err := store.GetVolunteer(ctx, p.VolunteerID)
		switch {
		case errors.Is(err, db.ErrNotFound):
			logger.Warn("Participant references unknown volunteer", zap.String("volunteer_id", p.VolunteerID))
			row.Name = "unknown volunteer"
		case err != nil:
			return nil, storeError(err, "load volunteer %s", p.VolunteerID)
		case volunteer.IsDeleted():
			row.Name = volunteer.DisplayName()
		default:
			row.Name = volunteer.DisplayName()
			row.Email = volunteer.Email
			row.Phone = volunteer.Phone
			row.Telegram = volunteer.Telegram
			if income, ok := accepted[p.VolunteerID]; ok {
				row.Phone = income.Phone
				if income.Telegram != "" {
					row.Telegram = income.Telegram
				}
			}
		}
		roster.Rows = append(roster.Rows, row)
	}

	return roster, nil
}

// ExportRoster builds a project's roster and publishes it to the given spreadsheet
func ExportRoster(ctx context.Context, store RosterStore, writer RosterWriter, logger *zap.Logger, actor model.Actor, projectID, spreadsheetID string, loc *time.Location) (*sheetsclient.Roster, error) {
	roster, err := BuildRoster(ctx, store, logger, actor, projectID, loc)
	if err != nil {
		return nil, err
	}

	if err := writer.PublishRoster(ctx, spreadsheetID, roster); err != nil {
		return nil, errs.Wrap(errs.CodeInternal, err, "failed to publish roster for %s", projectID)
	}

	logger.Info("Roster exported",
		zap.String("project_id", projectID),
		zap.String("tab", roster.TabTitle()),
		zap.Int("rows", len(roster.Rows)))

	return roster, nil
}
