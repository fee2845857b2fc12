package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

var (
	// Schedule of the seeded approved project
	appOpens   = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	appCloses  = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	eventStart = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	eventEnd   = time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)

	beforeWindow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	windowOpen   = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	afterWindow  = time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC)
	afterEvent   = time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)

	site = model.SiteContext{Name: "Volunteers", Domain: "volunteers.example.org", Protocol: "https"}

	admin      = model.Actor{UserID: "u-admin", Role: model.RoleAdmin}
	organizer  = model.Actor{UserID: "u-org", Role: model.RoleOrganizer, OrganizationID: "org-1"}
	stranger   = model.Actor{UserID: "u-org-2", Role: model.RoleOrganizer, OrganizationID: "org-2"}
	volunteer1 = model.Actor{UserID: "u-vol-1", Role: model.RoleVolunteer, VolunteerID: "vol-1"}
	volunteer2 = model.Actor{UserID: "u-vol-2", Role: model.RoleVolunteer, VolunteerID: "vol-2"}
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func approvedProject(id, name string) *model.Project {
	return &model.Project{
		ID:                   id,
		Name:                 name,
		Description:          "Cleaning up the riverside park",
		EventPurpose:         "Keep the park clean for everyone",
		OrganizationID:       "org-1",
		Address:              &model.Address{AddressLine: "Moscow, Lenina 1", Street: "Lenina", House: "1"},
		Skills:               []string{"skill-1"},
		StartDateApplication: timePtr(appOpens),
		EndDateApplication:   timePtr(appCloses),
		StartDatetime:        timePtr(eventStart),
		EndDatetime:          timePtr(eventEnd),
		StatusApprove:        model.StatusApproved,
		CreatedAt:            beforeWindow,
		UpdatedAt:            beforeWindow,
	}
}

// newStore returns a MemoryDB holding one approved project "p1" and two volunteers
func newStore(t *testing.T) *db.MemoryDB {
	t.Helper()
	store := db.NewMemoryDB()
	err := store.InTx(context.Background(), func(ctx context.Context, tx db.Tx) error {
		if err := tx.InsertProject(ctx, approvedProject("p1", "Park cleanup")); err != nil {
			return err
		}
		if err := tx.UpsertOrganization(ctx, &model.Organization{ID: "org-1", Title: "Green City"}); err != nil {
			return err
		}
		if err := tx.UpsertVolunteer(ctx, &model.Volunteer{
			ID: "vol-1", FirstName: "Anna", LastName: "Petrova", Email: "anna@example.com", Phone: "+79990000001",
		}); err != nil {
			return err
		}
		return tx.UpsertVolunteer(ctx, &model.Volunteer{
			ID: "vol-2", FirstName: "Ivan", LastName: "Sidorov", Email: "ivan@example.com",
		})
	})
	require.NoError(t, err)
	return store
}

func putProject(t *testing.T, store *db.MemoryDB, p *model.Project) {
	t.Helper()
	err := store.InTx(context.Background(), func(ctx context.Context, tx db.Tx) error {
		return tx.InsertProject(ctx, p)
	})
	require.NoError(t, err)
}

func contact(projectID string) SubmitIncomeRequest {
	return SubmitIncomeRequest{
		ProjectID:   projectID,
		Phone:       "+79991234567",
		Telegram:    "@volunteer",
		CoverLetter: "I would love to help out",
	}
}

func requireCode(t *testing.T, err error, code errs.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errs.CodeOf(err), "unexpected error: %v", err)
}

// recordingNotifier collects every enqueued notification
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []model.Notification
	onQueue func(n model.Notification)
}

func (r *recordingNotifier) Enqueue(ctx context.Context, n model.Notification) {
	if r.onQueue != nil {
		r.onQueue(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) notifications() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.sent...)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}
