package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

const incomeColumns = `id, project_id, volunteer_id, status, phone, telegram, cover_letter, created_at, updated_at`

func scanIncome(row pgx.Row) (*model.ProjectIncome, error) {
	var i model.ProjectIncome
	var status string
	if err := row.Scan(&i.ID, &i.ProjectID, &i.VolunteerID, &status, &i.Phone, &i.Telegram, &i.CoverLetter, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.Status = model.IncomeStatus(status)
	return &i, nil
}

func getIncome(ctx context.Context, q querier, id string, forUpdate bool) (*model.ProjectIncome, error) {
	sql := `SELECT ` + incomeColumns + ` FROM project_incomes WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	i, err := scanIncome(q.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, translateError(err, "get income")
	}
	return i, nil
}

// listIncomes runs a query selecting incomeColumns, ordered by creation
func listIncomes(ctx context.Context, q querier, where string, args ...any) ([]model.ProjectIncome, error) {
	rows, err := q.Query(ctx, `SELECT `+incomeColumns+` FROM project_incomes WHERE `+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, translateError(err, "query incomes")
	}
	defer rows.Close()

	var incomes []model.ProjectIncome
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, translateError(err, "scan income")
		}
		incomes = append(incomes, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate incomes")
	}
	return incomes, nil
}

func insertIncome(ctx context.Context, q querier, i *model.ProjectIncome) error {
	_, err := q.Exec(ctx, `
		INSERT INTO project_incomes (`+incomeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, i.ID, i.ProjectID, i.VolunteerID, string(i.Status), i.Phone, i.Telegram, i.CoverLetter, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return translateError(err, "insert income")
	}
	return nil
}

func updateIncomeStatus(ctx context.Context, q querier, id string, status model.IncomeStatus, at time.Time) error {
	tag, err := q.Exec(ctx, `UPDATE project_incomes SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return translateError(err, "update income status")
	}
	return requireRow(tag)
}

func deleteIncome(ctx context.Context, q querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM project_incomes WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "delete income")
	}
	return requireRow(tag)
}
