package model

import (
	"fmt"
	"time"
)

// ApprovalStatus is the moderation state of a project, controlled by its organizer and admins
type ApprovalStatus string

const (
	StatusEditing             ApprovalStatus = "editing"
	StatusPending             ApprovalStatus = "pending"
	StatusApproved            ApprovalStatus = "approved"
	StatusRejected            ApprovalStatus = "rejected"
	StatusCanceledByOrganizer ApprovalStatus = "canceled_by_organizer"
)

// ApprovalStatuses lists every approval status in declaration order
var ApprovalStatuses = []ApprovalStatus{
	StatusEditing,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCanceledByOrganizer,
}

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusEditing, StatusPending, StatusApproved, StatusRejected, StatusCanceledByOrganizer:
		return true
	}
	return false
}

// ParseApprovalStatus converts a raw value into an ApprovalStatus
func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	s := ApprovalStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown approval status %q", raw)
	}
	return s, nil
}

// DisplayStatus is the time-derived status shown to end users. It is never persisted.
type DisplayStatus string

const (
	DisplayEditing                    DisplayStatus = "editing"
	DisplayOpen                       DisplayStatus = "open"
	DisplayReadyForFeedback           DisplayStatus = "ready_for_feedback"
	DisplayReceptionOfResponsesClosed DisplayStatus = "reception_of_responses_closed"
	DisplayProjectCompleted           DisplayStatus = "project_completed"
	DisplayCanceledByOrganizer        DisplayStatus = "canceled_by_organizer"
)

// IncomeStatus is the state of a volunteer's application to a project
type IncomeStatus string

const (
	IncomeSubmitted IncomeStatus = "application_submitted"
	IncomeRejected  IncomeStatus = "rejected"
	IncomeAccepted  IncomeStatus = "accepted"
)

func (s IncomeStatus) IsValid() bool {
	return s == IncomeSubmitted || s == IncomeRejected || s == IncomeAccepted
}

func ParseIncomeStatus(raw string) (IncomeStatus, error) {
	s := IncomeStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown income status %q", raw)
	}
	return s, nil
}

// Address is where a project takes place
type Address struct {
	AddressLine string `yaml:"address_line" validate:"required,max=100"`
	Street      string `yaml:"street" validate:"required,max=75"`
	House       string `yaml:"house" validate:"required,max=5"`
	Block       string `yaml:"block,omitempty" validate:"omitempty,max=5"`
	Building    string `yaml:"building,omitempty" validate:"omitempty,max=5"`
}

// Project is a volunteering event posted by an organization
type Project struct {
	ID                   string
	Name                 string
	Description          string
	EventPurpose         string
	ProjectTasks         string
	ProjectEvents        string
	OrganizerProvides    string
	Address              *Address
	CityID               string
	Categories           []string
	Skills               []string
	OrganizationID       string
	StartDatetime        *time.Time
	EndDatetime          *time.Time
	StartDateApplication *time.Time
	EndDateApplication   *time.Time
	StatusApprove        ApprovalStatus
	AdminComments        string
	Photos               []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasSchedule reports whether all four schedule timestamps are set
func (p *Project) HasSchedule() bool {
	return p.StartDatetime != nil && p.EndDatetime != nil &&
		p.StartDateApplication != nil && p.EndDateApplication != nil
}

// Clone returns a deep copy so callers can mutate it without touching stored state
func (p *Project) Clone() *Project {
	c := *p
	if p.Address != nil {
		addr := *p.Address
		c.Address = &addr
	}
	c.Categories = append([]string(nil), p.Categories...)
	c.Skills = append([]string(nil), p.Skills...)
	c.Photos = append([]string(nil), p.Photos...)
	c.StartDatetime = cloneTime(p.StartDatetime)
	c.EndDatetime = cloneTime(p.EndDatetime)
	c.StartDateApplication = cloneTime(p.StartDateApplication)
	c.EndDateApplication = cloneTime(p.EndDateApplication)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ProjectIncome is a volunteer's application to take part in a project
type ProjectIncome struct {
	ID          string
	ProjectID   string
	VolunteerID string
	Status      IncomeStatus
	Phone       string
	Telegram    string
	CoverLetter string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Participant is a confirmed roster entry for an accepted volunteer
type Participant struct {
	ID          string
	ProjectID   string
	VolunteerID string
	CreatedAt   time.Time
}

// Volunteer is the profile of a user with the volunteer role.
// Removed accounts are kept as tombstones so incomes and participants stay resolvable.
type Volunteer struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Telegram  string
	CityID    string
	DeletedAt *time.Time
}

func (v *Volunteer) IsDeleted() bool {
	return v.DeletedAt != nil
}

// DisplayName returns the volunteer's full name, or a placeholder for removed accounts
func (v *Volunteer) DisplayName() string {
	if v.IsDeleted() {
		return "deleted volunteer"
	}
	return v.FirstName + " " + v.LastName
}

// Organization is the owner of projects
type Organization struct {
	ID              string
	ContactPersonID string
	Title           string
	Phone           string
	CityID          string
	DeletedAt       *time.Time
}

func (o *Organization) IsDeleted() bool {
	return o.DeletedAt != nil
}

func (o *Organization) DisplayName() string {
	if o.IsDeleted() {
		return "deleted organization"
	}
	return o.Title
}
