package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

// VolunteerInput is a volunteer profile as received from the account service
type VolunteerInput struct {
	ID        string `yaml:"id" validate:"required"`
	UserID    string `yaml:"user_id" validate:"required"`
	FirstName string `yaml:"first_name" validate:"required,min=2,max=40"`
	LastName  string `yaml:"last_name" validate:"required,min=2,max=40"`
	Email     string `yaml:"email" validate:"required,email"`
	Phone     string `yaml:"phone" validate:"omitempty,ruphone"`
	Telegram  string `yaml:"telegram" validate:"omitempty,min=5,max=32,telegram"`
	CityID    string `yaml:"city_id"`
}

// OrganizationInput is an organization as received from the account service
type OrganizationInput struct {
	ID              string `yaml:"id" validate:"required"`
	ContactPersonID string `yaml:"contact_person_id" validate:"required"`
	Title           string `yaml:"title" validate:"required,min=2,max=150"`
	Phone           string `yaml:"phone" validate:"omitempty,ruphone"`
	CityID          string `yaml:"city_id"`
}

// RegisterVolunteer creates or refreshes a volunteer profile
func RegisterVolunteer(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, in VolunteerInput) (*model.Volunteer, error) {
	if !actor.IsAdmin() {
		return nil, errs.New(errs.CodeNotAuthorized, "only admins can register volunteers")
	}
	if err := validateStruct(in).Err(); err != nil {
		return nil, err
	}

	v := &model.Volunteer{
		ID:        in.ID,
		UserID:    in.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Telegram:  in.Telegram,
		CityID:    in.CityID,
	}
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := tx.UpsertVolunteer(ctx, v); err != nil {
			return storeError(err, "save volunteer %s", v.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Volunteer registered", zap.String("volunteer_id", v.ID))
	return v, nil
}

// RegisterOrganization creates or refreshes an organization
func RegisterOrganization(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, in OrganizationInput) (*model.Organization, error) {
	if !actor.IsAdmin() {
		return nil, errs.New(errs.CodeNotAuthorized, "only admins can register organizations")
	}
	if err := validateStruct(in).Err(); err != nil {
		return nil, err
	}

	o := &model.Organization{
		ID:              in.ID,
		ContactPersonID: in.ContactPersonID,
		Title:           in.Title,
		Phone:           in.Phone,
		CityID:          in.CityID,
	}
	err := store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := tx.UpsertOrganization(ctx, o); err != nil {
			return storeError(err, "save organization %s", o.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Organization registered", zap.String("organization_id", o.ID))
	return o, nil
}

// SoftDeleteVolunteer turns a volunteer into a tombstone: personal data is cleared and the
// row is kept so applications and roster entries still resolve.
func SoftDeleteVolunteer(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, volunteerID string, now time.Time) error {
	if !actor.IsAdmin() && actor.VolunteerID != volunteerID {
		return errs.New(errs.CodeNotAuthorized, "volunteers can only delete their own account")
	}

	v, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return storeError(err, "load volunteer %s", volunteerID)
	}
	if v.IsDeleted() {
		return nil
	}

	tombstone := &model.Volunteer{ID: v.ID, UserID: v.UserID, CityID: v.CityID, DeletedAt: &now}
	err = store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := tx.UpsertVolunteer(ctx, tombstone); err != nil {
			return storeError(err, "delete volunteer %s", volunteerID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Volunteer deleted", zap.String("volunteer_id", volunteerID))
	return nil
}

// SoftDeleteOrganization turns an organization into a tombstone; its projects stay in place
func SoftDeleteOrganization(ctx context.Context, store db.Store, logger *zap.Logger, actor model.Actor, organizationID string, now time.Time) error {
	if !actor.IsAdmin() && !(actor.Role == model.RoleOrganizer && actor.OrganizationID == organizationID) {
		return errs.New(errs.CodeNotAuthorized, "organizers can only delete their own organization")
	}

	o, err := store.GetOrganization(ctx, organizationID)
	if err != nil {
		return storeError(err, "load organization %s", organizationID)
	}
	if o.IsDeleted() {
		return nil
	}

	tombstone := &model.Organization{ID: o.ID, ContactPersonID: o.ContactPersonID, CityID: o.CityID, DeletedAt: &now}
	err = store.InTx(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := tx.UpsertOrganization(ctx, tombstone); err != nil {
			return storeError(err, "delete organization %s", organizationID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Organization deleted", zap.String("organization_id", organizationID))
	return nil
}
