package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

const projectColumns = `
	id, name, description, event_purpose, project_tasks, project_events, organizer_provides,
	address_line, street, house, block, building, city_id, categories, skills, organization_id,
	start_datetime, end_datetime, start_date_application, end_date_application,
	status_approve, admin_comments, photos, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	var addressLine, street, house, block, building *string
	var status string

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.EventPurpose, &p.ProjectTasks, &p.ProjectEvents, &p.OrganizerProvides,
		&addressLine, &street, &house, &block, &building, &p.CityID, &p.Categories, &p.Skills, &p.OrganizationID,
		&p.StartDatetime, &p.EndDatetime, &p.StartDateApplication, &p.EndDateApplication,
		&status, &p.AdminComments, &p.Photos, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.StatusApprove = model.ApprovalStatus(status)
	if addressLine != nil {
		p.Address = &model.Address{
			AddressLine: *addressLine,
			Street:      deref(street),
			House:       deref(house),
			Block:       deref(block),
			Building:    deref(building),
		}
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// addressArgs flattens an optional address into the five nullable columns
func addressArgs(a *model.Address) []any {
	if a == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{a.AddressLine, a.Street, a.House, a.Block, a.Building}
}

func getProject(ctx context.Context, q querier, id string, forUpdate bool) (*model.Project, error) {
	sql := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	p, err := scanProject(q.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, translateError(err, "get project")
	}
	return p, nil
}

func insertProject(ctx context.Context, q querier, p *model.Project) error {
	args := []any{p.ID, p.Name, p.Description, p.EventPurpose, p.ProjectTasks, p.ProjectEvents, p.OrganizerProvides}
	args = append(args, addressArgs(p.Address)...)
	args = append(args,
		p.CityID, nonNil(p.Categories), nonNil(p.Skills), p.OrganizationID,
		p.StartDatetime, p.EndDatetime, p.StartDateApplication, p.EndDateApplication,
		string(p.StatusApprove), p.AdminComments, nonNil(p.Photos), p.CreatedAt, p.UpdatedAt,
	)

	_, err := q.Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25)
	`, args...)
	if err != nil {
		return translateError(err, "insert project")
	}
	return nil
}

func updateProject(ctx context.Context, q querier, p *model.Project) error {
	args := []any{p.ID, p.Name, p.Description, p.EventPurpose, p.ProjectTasks, p.ProjectEvents, p.OrganizerProvides}
	args = append(args, addressArgs(p.Address)...)
	args = append(args,
		p.CityID, nonNil(p.Categories), nonNil(p.Skills),
		p.StartDatetime, p.EndDatetime, p.StartDateApplication, p.EndDateApplication,
		string(p.StatusApprove), p.AdminComments, nonNil(p.Photos), p.UpdatedAt,
	)

	tag, err := q.Exec(ctx, `
		UPDATE projects SET
			name = $2, description = $3, event_purpose = $4, project_tasks = $5,
			project_events = $6, organizer_provides = $7,
			address_line = $8, street = $9, house = $10, block = $11, building = $12,
			city_id = $13, categories = $14, skills = $15,
			start_datetime = $16, end_datetime = $17, start_date_application = $18, end_date_application = $19,
			status_approve = $20, admin_comments = $21, photos = $22, updated_at = $23
		WHERE id = $1
	`, args...)
	if err != nil {
		return translateError(err, "update project")
	}
	return requireRow(tag)
}

func deleteProject(ctx context.Context, q querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "delete project")
	}
	return requireRow(tag)
}

// nonNil keeps NOT NULL array columns from receiving NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
