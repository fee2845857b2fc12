package postgres

import (
	"context"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

func listParticipants(ctx context.Context, q querier, where string, args ...any) ([]model.Participant, error) {
	rows, err := q.Query(ctx, `
		SELECT id, project_id, volunteer_id, created_at
		FROM project_participants
		WHERE `+where+`
		ORDER BY created_at, id
	`, args...)
	if err != nil {
		return nil, translateError(err, "query participants")
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.VolunteerID, &p.CreatedAt); err != nil {
			return nil, translateError(err, "scan participant")
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate participants")
	}
	return participants, nil
}

func getParticipant(ctx context.Context, q querier, projectID, volunteerID string) (*model.Participant, error) {
	var p model.Participant
	err := q.QueryRow(ctx, `
		SELECT id, project_id, volunteer_id, created_at
		FROM project_participants
		WHERE project_id = $1 AND volunteer_id = $2
	`, projectID, volunteerID).Scan(&p.ID, &p.ProjectID, &p.VolunteerID, &p.CreatedAt)
	if err != nil {
		return nil, translateError(err, "get participant")
	}
	return &p, nil
}

func insertParticipant(ctx context.Context, q querier, p *model.Participant) error {
	_, err := q.Exec(ctx, `
		INSERT INTO project_participants (id, project_id, volunteer_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.ProjectID, p.VolunteerID, p.CreatedAt)
	if err != nil {
		return translateError(err, "insert participant")
	}
	return nil
}

func deleteParticipant(ctx context.Context, q querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM project_participants WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "delete participant")
	}
	return requireRow(tag)
}
