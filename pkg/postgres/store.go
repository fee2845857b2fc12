package postgres

import (
	"context"
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

func (d *DB) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return getProject(ctx, d.pool, id, false)
}

func (d *DB) GetIncome(ctx context.Context, id string) (*model.ProjectIncome, error) {
	return getIncome(ctx, d.pool, id, false)
}

func (d *DB) ListIncomesByProject(ctx context.Context, projectID string) ([]model.ProjectIncome, error) {
	return listIncomes(ctx, d.pool, `project_id = $1`, projectID)
}

func (d *DB) ListIncomesByVolunteer(ctx context.Context, volunteerID string) ([]model.ProjectIncome, error) {
	return listIncomes(ctx, d.pool, `volunteer_id = $1`, volunteerID)
}

func (d *DB) ListParticipants(ctx context.Context, projectID string) ([]model.Participant, error) {
	return listParticipants(ctx, d.pool, `project_id = $1`, projectID)
}

func (d *DB) ListParticipationsByVolunteer(ctx context.Context, volunteerID string) ([]model.Participant, error) {
	return listParticipants(ctx, d.pool, `volunteer_id = $1`, volunteerID)
}

func (d *DB) GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error) {
	return getVolunteer(ctx, d.pool, id)
}

func (d *DB) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	return getOrganization(ctx, d.pool, id)
}

// pgTx implements db.Tx on an open pgx transaction
type pgTx struct {
	q querier
}

var _ db.Tx = (*pgTx)(nil)

func (t *pgTx) GetProjectForUpdate(ctx context.Context, id string) (*model.Project, error) {
	return getProject(ctx, t.q, id, true)
}

func (t *pgTx) InsertProject(ctx context.Context, p *model.Project) error {
	return insertProject(ctx, t.q, p)
}

func (t *pgTx) UpdateProject(ctx context.Context, p *model.Project) error {
	return updateProject(ctx, t.q, p)
}

func (t *pgTx) DeleteProject(ctx context.Context, id string) error {
	return deleteProject(ctx, t.q, id)
}

func (t *pgTx) GetIncomeForUpdate(ctx context.Context, id string) (*model.ProjectIncome, error) {
	return getIncome(ctx, t.q, id, true)
}

func (t *pgTx) FindIncomes(ctx context.Context, projectID, volunteerID string) ([]model.ProjectIncome, error) {
	return listIncomes(ctx, t.q, `project_id = $1 AND volunteer_id = $2`, projectID, volunteerID)
}

func (t *pgTx) InsertIncome(ctx context.Context, income *model.ProjectIncome) error {
	return insertIncome(ctx, t.q, income)
}

func (t *pgTx) UpdateIncomeStatus(ctx context.Context, id string, status model.IncomeStatus, at time.Time) error {
	return updateIncomeStatus(ctx, t.q, id, status, at)
}

func (t *pgTx) DeleteIncome(ctx context.Context, id string) error {
	return deleteIncome(ctx, t.q, id)
}

func (t *pgTx) GetParticipant(ctx context.Context, projectID, volunteerID string) (*model.Participant, error) {
	return getParticipant(ctx, t.q, projectID, volunteerID)
}

func (t *pgTx) InsertParticipant(ctx context.Context, p *model.Participant) error {
	return insertParticipant(ctx, t.q, p)
}

func (t *pgTx) DeleteParticipant(ctx context.Context, id string) error {
	return deleteParticipant(ctx, t.q, id)
}

func (t *pgTx) UpsertVolunteer(ctx context.Context, v *model.Volunteer) error {
	return upsertVolunteer(ctx, t.q, v)
}

func (t *pgTx) UpsertOrganization(ctx context.Context, o *model.Organization) error {
	return upsertOrganization(ctx, t.q, o)
}
