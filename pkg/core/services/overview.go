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

// OverviewStore defines the reads used by the overview and profile views
type OverviewStore interface {
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListIncomesByProject(ctx context.Context, projectID string) ([]model.ProjectIncome, error)
	ListIncomesByVolunteer(ctx context.Context, volunteerID string) ([]model.ProjectIncome, error)
	ListParticipants(ctx context.Context, projectID string) ([]model.Participant, error)
	ListParticipationsByVolunteer(ctx context.Context, volunteerID string) ([]model.Participant, error)
	GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error)
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
}

// IncomeView is an application with the applicant's name resolved
type IncomeView struct {
	Income        model.ProjectIncome
	VolunteerName string
}

// ParticipantView is a roster entry with the volunteer's name resolved
type ParticipantView struct {
	Participant   model.Participant
	VolunteerName string
}

// Overview is a project as seen at a given instant
type Overview struct {
	Project             *model.Project
	OrganizationName    string
	DisplayStatus       model.DisplayStatus
	AcceptsApplications bool
	Participants        []ParticipantView
	// Incomes is only filled for the project's organizer and admins
	Incomes []IncomeView
}

// ProjectOverview returns a project with its derived status, roster and, for those managing it,
// its applications.
func ProjectOverview(ctx context.Context, store OverviewStore, logger *zap.Logger, actor model.Actor, projectID string, now time.Time) (*Overview, error) {
	project, err := store.GetProject(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "load project %s", projectID)
	}

	overview := &Overview{
		Project:             project,
		DisplayStatus:       status.DeriveDisplayStatus(project, now),
		AcceptsApplications: status.AcceptsApplications(project, now),
	}

	org, err := store.GetOrganization(ctx, project.OrganizationID)
	switch {
	case err == nil:
		overview.OrganizationName = org.DisplayName()
	case errors.Is(err, db.ErrNotFound):
		overview.OrganizationName = "unknown organization"
	default:
		return nil, storeError(err, "load organization %s", project.OrganizationID)
	}

	participants, err := store.ListParticipants(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "list participants of %s", projectID)
	}
	names := newNameResolver(store, logger)
	for _, p := range participants {
		name, err := names.resolve(ctx, p.VolunteerID)
		if err != nil {
			return nil, err
		}
		overview.Participants = append(overview.Participants, ParticipantView{Participant: p, VolunteerName: name})
	}

	if actor.CanManage(project) {
		incomes, err := store.ListIncomesByProject(ctx, projectID)
		if err != nil {
			return nil, storeError(err, "list incomes of %s", projectID)
		}
		overview.Incomes = make([]IncomeView, 0, len(incomes))
		for _, i := range incomes {
			name, err := names.resolve(ctx, i.VolunteerID)
			if err != nil {
				return nil, err
			}
			overview.Incomes = append(overview.Incomes, IncomeView{Income: i, VolunteerName: name})
		}
	}

	return overview, nil
}

// ApplicationView is one of a volunteer's applications with the project's current state
type ApplicationView struct {
	Income        model.ProjectIncome
	ProjectName   string
	DisplayStatus model.DisplayStatus
}

// ParticipationView is a project a volunteer takes part in
type ParticipationView struct {
	Participant   model.Participant
	ProjectName   string
	DisplayStatus model.DisplayStatus
}

// Profile is a volunteer's applications and participations
type Profile struct {
	Volunteer      *model.Volunteer
	Applications   []ApplicationView
	Participations []ParticipationView
}

// VolunteerProfile lists a volunteer's applications and the projects they take part in.
// Volunteers see their own profile; admins see anyone's.
func VolunteerProfile(ctx context.Context, store OverviewStore, logger *zap.Logger, actor model.Actor, volunteerID string, now time.Time) (*Profile, error) {
	if !actor.IsAdmin() && (actor.Role != model.RoleVolunteer || actor.VolunteerID != volunteerID) {
		return nil, errs.New(errs.CodeNotAuthorized, "volunteers can only view their own profile")
	}

	volunteer, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, storeError(err, "load volunteer %s", volunteerID)
	}

	incomes, err := store.ListIncomesByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, storeError(err, "list incomes of volunteer %s", volunteerID)
	}
	participations, err := store.ListParticipationsByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, storeError(err, "list participations of volunteer %s", volunteerID)
	}

	projects := make(map[string]*model.Project)
	loadProject := func(id string) (*model.Project, error) {
		if p, ok := projects[id]; ok {
			return p, nil
		}
		p, err := store.GetProject(ctx, id)
		if err != nil {
			return nil, storeError(err, "load project %s", id)
		}
		projects[id] = p
		return p, nil
	}

	profile := &Profile{Volunteer: volunteer}
	for _, i := range incomes {
		p, err := loadProject(i.ProjectID)
		if err != nil {
			return nil, err
		}
		profile.Applications = append(profile.Applications, ApplicationView{
			Income:        i,
			ProjectName:   p.Name,
			DisplayStatus: status.DeriveDisplayStatus(p, now),
		})
	}
	for _, part := range participations {
		p, err := loadProject(part.ProjectID)
		if err != nil {
			return nil, err
		}
		profile.Participations = append(profile.Participations, ParticipationView{
			Participant:   part,
			ProjectName:   p.Name,
			DisplayStatus: status.DeriveDisplayStatus(p, now),
		})
	}

	logger.Debug("Volunteer profile loaded",
		zap.String("volunteer_id", volunteerID),
		zap.Int("applications", len(profile.Applications)),
		zap.Int("participations", len(profile.Participations)))

	return profile, nil
}

// nameResolver caches volunteer display names for one view
type nameResolver struct {
	store  OverviewStore
	logger *zap.Logger
	names  map[string]string
}

func newNameResolver(store OverviewStore, logger *zap.Logger) *nameResolver {
	return &nameResolver{store: store, logger: logger, names: make(map[string]string)}
}

func (r *nameResolver) resolve(ctx context.Context, volunteerID string) (string, error) {
	if name, ok := r.names[volunteerID]; ok {
		return name, nil
	}

	v, err := r.store.GetVolunteer(ctx, volunteerID)
	var name string
	switch {
	case err == nil:
		name = v.DisplayName()
	case errors.Is(err, db.ErrNotFound):
		r.logger.Warn("Unknown volunteer referenced", zap.String("volunteer_id", volunteerID))
		name = "unknown volunteer"
	default:
		return "", storeError(err, "load volunteer %s", volunteerID)
	}

	r.names[volunteerID] = name
	return name, nil
}
