package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrUniqueViolation is returned when a write breaks a unique constraint
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// Constraint names shared by every backend
const (
	ConstraintProjectName       = "projects_name_key"
	ConstraintIncomeStatus      = "project_incomes_project_volunteer_status_key"
	ConstraintParticipantUnique = "project_participants_project_volunteer_key"
)

// ConstraintError is a unique violation on a named constraint. It matches ErrUniqueViolation.
type ConstraintError struct {
	Constraint string
	Cause      error
}

// UniqueViolation creates a ConstraintError for the named constraint
func UniqueViolation(constraint string, cause error) error {
	return &ConstraintError{Constraint: constraint, Cause: cause}
}

func (e *ConstraintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s on %s: %s", ErrUniqueViolation, e.Constraint, e.Cause)
	}
	return fmt.Sprintf("%s on %s", ErrUniqueViolation, e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return ErrUniqueViolation
}

// IsUniqueViolation reports whether err is a unique violation on the named constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		return constraint == "" && errors.Is(err, ErrUniqueViolation)
	}
	return constraint == "" || ce.Constraint == constraint
}

// Reader defines the read operations available outside a transaction
type Reader interface {
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetIncome(ctx context.Context, id string) (*model.ProjectIncome, error)
	ListIncomesByProject(ctx context.Context, projectID string) ([]model.ProjectIncome, error)
	ListIncomesByVolunteer(ctx context.Context, volunteerID string) ([]model.ProjectIncome, error)
	ListParticipants(ctx context.Context, projectID string) ([]model.Participant, error)
	ListParticipationsByVolunteer(ctx context.Context, volunteerID string) ([]model.Participant, error)
	GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error)
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
}

// Tx defines the operations available inside a transaction.
// The ForUpdate reads lock the row until the transaction ends.
type Tx interface {
	GetProjectForUpdate(ctx context.Context, id string) (*model.Project, error)
	InsertProject(ctx context.Context, p *model.Project) error
	UpdateProject(ctx context.Context, p *model.Project) error
	// DeleteProject removes the project together with its incomes and participants
	DeleteProject(ctx context.Context, id string) error

	GetIncomeForUpdate(ctx context.Context, id string) (*model.ProjectIncome, error)
	FindIncomes(ctx context.Context, projectID, volunteerID string) ([]model.ProjectIncome, error)
	InsertIncome(ctx context.Context, income *model.ProjectIncome) error
	UpdateIncomeStatus(ctx context.Context, id string, status model.IncomeStatus, at time.Time) error
	DeleteIncome(ctx context.Context, id string) error

	GetParticipant(ctx context.Context, projectID, volunteerID string) (*model.Participant, error)
	InsertParticipant(ctx context.Context, p *model.Participant) error
	DeleteParticipant(ctx context.Context, id string) error

	UpsertVolunteer(ctx context.Context, v *model.Volunteer) error
	UpsertOrganization(ctx context.Context, o *model.Organization) error
}

// Store is the persistence collaborator of the workflow core.
// Both the in-memory MemoryDB and postgres.DB implement it.
type Store interface {
	Reader
	// InTx runs fn inside one atomic transaction. Any error returned by fn rolls back
	// every write made through tx.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
