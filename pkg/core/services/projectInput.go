package services

import (
	"slices"
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
)

// ProjectInput is a partial project. Nil fields are left untouched when applied.
type ProjectInput struct {
	Name                 *string       `yaml:"name" validate:"omitnil,min=2,max=150"`
	Description          *string       `yaml:"description" validate:"omitnil,min=10,max=750"`
	EventPurpose         *string       `yaml:"event_purpose" validate:"omitnil,min=10,max=750"`
	ProjectTasks         *string       `yaml:"project_tasks" validate:"omitnil,min=2,max=750"`
	ProjectEvents        *string       `yaml:"project_events" validate:"omitnil,min=2,max=750"`
	OrganizerProvides    *string       `yaml:"organizer_provides" validate:"omitnil,min=2,max=750"`
	Address              *AddressInput `yaml:"address"`
	CityID               *string       `yaml:"city_id" validate:"omitnil,min=1"`
	Categories           []string      `yaml:"categories" validate:"omitempty,dive,required"`
	Skills               []string      `yaml:"skills" validate:"omitempty,dive,required"`
	StartDatetime        *time.Time    `yaml:"start_datetime"`
	EndDatetime          *time.Time    `yaml:"end_datetime"`
	StartDateApplication *time.Time    `yaml:"start_date_application"`
	EndDateApplication   *time.Time    `yaml:"end_date_application"`
	Photos               []string      `yaml:"photos" validate:"omitempty,dive,url"`
}

// AddressInput is merged into the stored address field by field
type AddressInput struct {
	AddressLine *string `yaml:"address_line" validate:"omitnil,min=1,max=100"`
	Street      *string `yaml:"street" validate:"omitnil,min=1,max=75"`
	House       *string `yaml:"house" validate:"omitnil,min=1,max=5"`
	Block       *string `yaml:"block" validate:"omitnil,max=5"`
	Building    *string `yaml:"building" validate:"omitnil,max=5"`
}

// Field names reported by lock and completeness checks
const (
	fieldName              = "name"
	fieldDescription       = "description"
	fieldEventPurpose      = "event_purpose"
	fieldProjectTasks      = "project_tasks"
	fieldProjectEvents     = "project_events"
	fieldOrganizerProvides = "organizer_provides"
	fieldAddress           = "address"
	fieldCityID            = "city_id"
	fieldCategories        = "categories"
	fieldSkills            = "skills"
	fieldPhotos            = "photos"
)

// lockedFields cannot change once a project is approved
var lockedFields = map[string]bool{
	fieldName:                        true,
	fieldDescription:                 true,
	fieldEventPurpose:                true,
	fieldProjectTasks:                true,
	fieldProjectEvents:               true,
	fieldOrganizerProvides:           true,
	fieldAddress:                     true,
	fieldCityID:                      true,
	fieldCategories:                  true,
	fieldSkills:                      true,
	status.FieldStartDatetime:        true,
	status.FieldEndDatetime:          true,
	status.FieldStartDateApplication: true,
	status.FieldEndDateApplication:   true,
}

// apply writes every provided field into p and returns the names of the fields whose value changed
func (in ProjectInput) apply(p *model.Project) []string {
	var changed []string

	setString := func(field string, dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = append(changed, field)
		}
	}
	setTime := func(field string, dst **time.Time, src *time.Time) {
		if src == nil {
			return
		}
		if *dst == nil || !(*dst).Equal(*src) {
			t := *src
			*dst = &t
			changed = append(changed, field)
		}
	}
	setList := func(field string, dst *[]string, src []string) {
		if src != nil && !slices.Equal(*dst, src) {
			*dst = append([]string(nil), src...)
			changed = append(changed, field)
		}
	}

	setString(fieldName, &p.Name, in.Name)
	setString(fieldDescription, &p.Description, in.Description)
	setString(fieldEventPurpose, &p.EventPurpose, in.EventPurpose)
	setString(fieldProjectTasks, &p.ProjectTasks, in.ProjectTasks)
	setString(fieldProjectEvents, &p.ProjectEvents, in.ProjectEvents)
	setString(fieldOrganizerProvides, &p.OrganizerProvides, in.OrganizerProvides)
	setString(fieldCityID, &p.CityID, in.CityID)
	setList(fieldCategories, &p.Categories, in.Categories)
	setList(fieldSkills, &p.Skills, in.Skills)
	setList(fieldPhotos, &p.Photos, in.Photos)
	setTime(status.FieldStartDatetime, &p.StartDatetime, in.StartDatetime)
	setTime(status.FieldEndDatetime, &p.EndDatetime, in.EndDatetime)
	setTime(status.FieldStartDateApplication, &p.StartDateApplication, in.StartDateApplication)
	setTime(status.FieldEndDateApplication, &p.EndDateApplication, in.EndDateApplication)

	if in.Address != nil && in.Address.mergeInto(p) {
		changed = append(changed, fieldAddress)
	}

	return changed
}

// mergeInto overlays the provided address parts onto p.Address, creating it when missing
func (a *AddressInput) mergeInto(p *model.Project) bool {
	var current model.Address
	if p.Address != nil {
		current = *p.Address
	}
	merged := current

	for _, part := range []struct {
		dst *string
		src *string
	}{
		{&merged.AddressLine, a.AddressLine},
		{&merged.Street, a.Street},
		{&merged.House, a.House},
		{&merged.Block, a.Block},
		{&merged.Building, a.Building},
	} {
		if part.src != nil {
			*part.dst = *part.src
		}
	}

	if p.Address != nil && merged == current {
		return false
	}
	if p.Address == nil && merged == (model.Address{}) {
		return false
	}
	p.Address = &merged
	return true
}

// checkComplete lists every field a project needs before it can go to moderation,
// then checks the schedule bounds when all four timestamps are present.
func checkComplete(policy *status.Policy, p *model.Project, now time.Time) errs.FieldErrors {
	fields := errs.FieldErrors{}

	if p.Name == "" {
		fields.Add(fieldName, "this field is required")
	}
	for field, ts := range map[string]*time.Time{
		status.FieldStartDatetime:        p.StartDatetime,
		status.FieldEndDatetime:          p.EndDatetime,
		status.FieldStartDateApplication: p.StartDateApplication,
		status.FieldEndDateApplication:   p.EndDateApplication,
	} {
		if ts == nil {
			fields.Add(field, "this field is required")
		}
	}
	if p.Address == nil {
		fields.Add(fieldAddress, "this field is required")
	} else {
		for field, msgs := range validateStruct(*p.Address) {
			for _, msg := range msgs {
				fields.Add(fieldAddress+"."+field, "%s", msg)
			}
		}
	}
	if len(p.Skills) == 0 {
		fields.Add(fieldSkills, "at least one skill is required")
	}

	if p.HasSchedule() {
		fields.Merge(policy.ValidateSchedule(*p.StartDatetime, *p.EndDatetime, *p.StartDateApplication, *p.EndDateApplication, now))
	}

	return fields
}
