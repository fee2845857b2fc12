package postgres

import (
	"context"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

func getVolunteer(ctx context.Context, q querier, id string) (*model.Volunteer, error) {
	var v model.Volunteer
	err := q.QueryRow(ctx, `
		SELECT id, user_id, first_name, last_name, email, phone, telegram, city_id, deleted_at
		FROM volunteers
		WHERE id = $1
	`, id).Scan(&v.ID, &v.UserID, &v.FirstName, &v.LastName, &v.Email, &v.Phone, &v.Telegram, &v.CityID, &v.DeletedAt)
	if err != nil {
		return nil, translateError(err, "get volunteer")
	}
	return &v, nil
}

func upsertVolunteer(ctx context.Context, q querier, v *model.Volunteer) error {
	_, err := q.Exec(ctx, `
		INSERT INTO volunteers (id, user_id, first_name, last_name, email, phone, telegram, city_id, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			telegram = EXCLUDED.telegram,
			city_id = EXCLUDED.city_id,
			deleted_at = EXCLUDED.deleted_at
	`, v.ID, v.UserID, v.FirstName, v.LastName, v.Email, v.Phone, v.Telegram, v.CityID, v.DeletedAt)
	if err != nil {
		return translateError(err, "upsert volunteer")
	}
	return nil
}

func getOrganization(ctx context.Context, q querier, id string) (*model.Organization, error) {
	var o model.Organization
	err := q.QueryRow(ctx, `
		SELECT id, contact_person_id, title, phone, city_id, deleted_at
		FROM organizations
		WHERE id = $1
	`, id).Scan(&o.ID, &o.ContactPersonID, &o.Title, &o.Phone, &o.CityID, &o.DeletedAt)
	if err != nil {
		return nil, translateError(err, "get organization")
	}
	return &o, nil
}

func upsertOrganization(ctx context.Context, q querier, o *model.Organization) error {
	_, err := q.Exec(ctx, `
		INSERT INTO organizations (id, contact_person_id, title, phone, city_id, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			contact_person_id = EXCLUDED.contact_person_id,
			title = EXCLUDED.title,
			phone = EXCLUDED.phone,
			city_id = EXCLUDED.city_id,
			deleted_at = EXCLUDED.deleted_at
	`, o.ID, o.ContactPersonID, o.Title, o.Phone, o.CityID, o.DeletedAt)
	if err != nil {
		return translateError(err, "upsert organization")
	}
	return nil
}
