package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
)

var policy = status.NewPolicy(time.UTC)

func completeInput(name string) ProjectInput {
	return ProjectInput{
		Name:                 strPtr(name),
		Description:          strPtr("Planting trees along the embankment"),
		EventPurpose:         strPtr("Make the embankment greener"),
		Address:              &AddressInput{AddressLine: strPtr("Moscow, Naberezhnaya 5"), Street: strPtr("Naberezhnaya"), House: strPtr("5")},
		Skills:               []string{"skill-1"},
		StartDateApplication: timePtr(appOpens),
		EndDateApplication:   timePtr(appCloses),
		StartDatetime:        timePtr(eventStart),
		EndDatetime:          timePtr(eventEnd),
	}
}

func statusPtr(s model.ApprovalStatus) *model.ApprovalStatus { return &s }

func TestSaveDraft_Create(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	p, err := SaveDraft(ctx, store, zap.NewNop(), organizer, ProjectInput{
		Name:    strPtr("Tree planting"),
		Address: &AddressInput{Street: strPtr("Naberezhnaya")},
	}, "", beforeWindow)
	require.NoError(t, err)

	assert.Equal(t, model.StatusEditing, p.StatusApprove)
	assert.Equal(t, "org-1", p.OrganizationID)
	assert.Nil(t, p.StartDatetime)
	require.NotNil(t, p.Address)
	assert.Equal(t, "Naberezhnaya", p.Address.Street)

	stored, err := store.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tree planting", stored.Name)
}

func TestSaveDraft_CreateRequiresNameAndOrganizer(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := SaveDraft(ctx, store, zap.NewNop(), organizer, ProjectInput{Description: strPtr("A long enough description")}, "", beforeWindow)
	requireCode(t, err, errs.CodeValidation)
	e, _ := errs.As(err)
	assert.Contains(t, e.Fields, "name")

	_, err = SaveDraft(ctx, store, zap.NewNop(), volunteer1, ProjectInput{Name: strPtr("Tree planting")}, "", beforeWindow)
	requireCode(t, err, errs.CodeNotAuthorized)
}

func TestSaveDraft_ValidatesProvidedFieldsOnly(t *testing.T) {
	store := newStore(t)

	_, err := SaveDraft(context.Background(), store, zap.NewNop(), organizer, ProjectInput{
		Name:        strPtr("Tree planting"),
		Description: strPtr("short"),
	}, "", beforeWindow)

	requireCode(t, err, errs.CodeValidation)
	e, _ := errs.As(err)
	assert.Equal(t, []string{"description"}, keys(e.Fields))
}

func TestSaveDraft_UpdateByStatus(t *testing.T) {
	tests := []struct {
		status  model.ApprovalStatus
		wantErr bool
	}{
		{model.StatusEditing, false},
		{model.StatusRejected, false},
		{model.StatusPending, true},
		{model.StatusApproved, true},
		{model.StatusCanceledByOrganizer, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			store := newStore(t)
			p := approvedProject("p2", "River cleanup")
			p.StatusApprove = tt.status
			putProject(t, store, p)

			saved, err := SaveDraft(context.Background(), store, zap.NewNop(), organizer, ProjectInput{
				Description: strPtr("Cleaning both river banks"),
			}, "p2", windowOpen)

			if tt.wantErr {
				requireCode(t, err, errs.CodeCannotDraftFromStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.StatusEditing, saved.StatusApprove)
			assert.Equal(t, "Cleaning both river banks", saved.Description)
		})
	}
}

func TestSaveDraft_MergesAddressFieldByField(t *testing.T) {
	store := newStore(t)
	p := approvedProject("p2", "River cleanup")
	p.StatusApprove = model.StatusEditing
	putProject(t, store, p)

	saved, err := SaveDraft(context.Background(), store, zap.NewNop(), organizer, ProjectInput{
		Address: &AddressInput{House: strPtr("7"), Block: strPtr("2")},
	}, "p2", windowOpen)
	require.NoError(t, err)

	assert.Equal(t, model.Address{AddressLine: "Moscow, Lenina 1", Street: "Lenina", House: "7", Block: "2"}, *saved.Address)
}

func TestSaveDraft_OtherOrganizer(t *testing.T) {
	store := newStore(t)
	p := approvedProject("p2", "River cleanup")
	p.StatusApprove = model.StatusEditing
	putProject(t, store, p)

	_, err := SaveDraft(context.Background(), store, zap.NewNop(), stranger, ProjectInput{Name: strPtr("Mine now")}, "p2", windowOpen)
	requireCode(t, err, errs.CodeNotAuthorized)
}

func TestSubmitForReview_NewProject(t *testing.T) {
	store := newStore(t)

	p, err := SubmitForReview(context.Background(), store, zap.NewNop(), policy, organizer, completeInput("Tree planting"), "", beforeWindow)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, p.StatusApprove)
}

func TestSubmitForReview_ListsEveryMissingField(t *testing.T) {
	store := newStore(t)

	_, err := SubmitForReview(context.Background(), store, zap.NewNop(), policy, organizer, ProjectInput{}, "", beforeWindow)
	requireCode(t, err, errs.CodeValidation)

	e, _ := errs.As(err)
	for _, field := range []string{"name", "address", "skills", "start_datetime", "end_datetime", "start_date_application", "end_date_application"} {
		assert.Contains(t, e.Fields, field)
	}
}

func TestSubmitForReview_IncompleteAddress(t *testing.T) {
	store := newStore(t)
	in := completeInput("Tree planting")
	in.Address = &AddressInput{Street: strPtr("Naberezhnaya")}

	_, err := SubmitForReview(context.Background(), store, zap.NewNop(), policy, organizer, in, "", beforeWindow)
	requireCode(t, err, errs.CodeValidation)

	e, _ := errs.As(err)
	assert.Contains(t, e.Fields, "address.address_line")
	assert.Contains(t, e.Fields, "address.house")
}

func TestSubmitForReview_EarlyStartFailsHourCheck(t *testing.T) {
	store := newStore(t)
	in := completeInput("Tree planting")
	in.StartDatetime = timePtr(time.Date(2025, 3, 15, 7, 0, 0, 0, time.UTC))
	in.EndDatetime = timePtr(time.Date(2025, 3, 15, 11, 0, 0, 0, time.UTC))

	_, err := SubmitForReview(context.Background(), store, zap.NewNop(), policy, organizer, in, "", beforeWindow)
	requireCode(t, err, errs.CodeValidation)

	e, _ := errs.As(err)
	assert.Equal(t, []string{"start_datetime"}, keys(e.Fields))
}

func TestSubmitForReview_FromExisting(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	logger := zap.NewNop()

	draft, err := SaveDraft(ctx, store, logger, organizer, ProjectInput{Name: strPtr("Tree planting")}, "", beforeWindow)
	require.NoError(t, err)

	in := completeInput("Tree planting")
	in.Name = nil
	p, err := SubmitForReview(ctx, store, logger, policy, organizer, in, draft.ID, beforeWindow)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, p.StatusApprove)

	// Submitting again from pending is not a legal transition
	_, err = SubmitForReview(ctx, store, logger, policy, organizer, ProjectInput{}, draft.ID, beforeWindow)
	requireCode(t, err, errs.CodeIllegalTransition)

	_, err = SubmitForReview(ctx, store, logger, policy, organizer, ProjectInput{}, "p1", beforeWindow)
	requireCode(t, err, errs.CodeIllegalTransition)
}

func TestSubmitForReview_DuplicateName(t *testing.T) {
	store := newStore(t)

	_, err := SubmitForReview(context.Background(), store, zap.NewNop(), policy, organizer, completeInput("Park cleanup"), "", beforeWindow)
	requireCode(t, err, errs.CodeValidation)

	e, _ := errs.As(err)
	assert.Contains(t, e.Fields, "name")
}

func TestUpdateProject_ApprovedFieldsLockedButCancelAllowed(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	logger := zap.NewNop()

	_, err := UpdateProject(ctx, store, logger, policy, organizer, "p1", ProjectInput{
		Description: strPtr("A completely different description"),
	}, nil, windowOpen)
	requireCode(t, err, errs.CodeProjectLocked)

	e, _ := errs.As(err)
	assert.Contains(t, e.Fields, "description")

	canceled, err := UpdateProject(ctx, store, logger, policy, organizer, "p1", ProjectInput{}, statusPtr(model.StatusCanceledByOrganizer), windowOpen)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCanceledByOrganizer, canceled.StatusApprove)
	assert.Equal(t, model.DisplayCanceledByOrganizer, status.DeriveDisplayStatus(canceled, windowOpen))

	for _, s := range model.ApprovalStatuses {
		if s == model.StatusCanceledByOrganizer {
			continue
		}
		_, err := UpdateProject(ctx, store, logger, policy, organizer, "p1", ProjectInput{}, statusPtr(s), windowOpen)
		assert.Error(t, err, "canceled -> %s", s)
	}
}

func TestUpdateProject_UnchangedLockedFieldIsAccepted(t *testing.T) {
	store := newStore(t)

	_, err := UpdateProject(context.Background(), store, zap.NewNop(), policy, organizer, "p1", ProjectInput{
		Name: strPtr("Park cleanup"),
	}, nil, windowOpen)
	assert.NoError(t, err)
}

func TestUpdateProject_PhotosOnlyAfterCompletion(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	photos := ProjectInput{Photos: []string{"https://cdn.example.org/p1/1.jpg"}}

	_, err := UpdateProject(ctx, store, zap.NewNop(), policy, organizer, "p1", photos, nil, windowOpen)
	requireCode(t, err, errs.CodeProjectLocked)

	p, err := UpdateProject(ctx, store, zap.NewNop(), policy, organizer, "p1", photos, nil, afterEvent)
	require.NoError(t, err)
	assert.Equal(t, photos.Photos, p.Photos)
}

func TestDraftAndSubmit_RejectPhotos(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	photos := []string{"https://cdn.example.org/p/1.jpg"}

	draft := ProjectInput{Name: strPtr("Tree planting"), Photos: photos}
	_, err := SaveDraft(ctx, store, zap.NewNop(), organizer, draft, "", beforeWindow)
	requireCode(t, err, errs.CodeProjectLocked)

	submission := completeInput("Tree planting")
	submission.Photos = photos
	_, err = SubmitForReview(ctx, store, zap.NewNop(), policy, organizer, submission, "", beforeWindow)
	requireCode(t, err, errs.CodeProjectLocked)

	p, err := SaveDraft(ctx, store, zap.NewNop(), organizer, ProjectInput{Name: strPtr("Tree planting")}, "", beforeWindow)
	require.NoError(t, err)
	_, err = SaveDraft(ctx, store, zap.NewNop(), organizer, ProjectInput{Photos: photos}, p.ID, beforeWindow)
	requireCode(t, err, errs.CodeProjectLocked)

	stored, err := store.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Photos)
}

func TestUpdateProject_CannotCancelCompletedProject(t *testing.T) {
	store := newStore(t)

	_, err := UpdateProject(context.Background(), store, zap.NewNop(), policy, organizer, "p1", ProjectInput{}, statusPtr(model.StatusCanceledByOrganizer), afterEvent)
	requireCode(t, err, errs.CodeProjectLocked)
}

func TestUpdateProject_OrganizerCannotApprove(t *testing.T) {
	store := newStore(t)
	p := approvedProject("p2", "River cleanup")
	p.StatusApprove = model.StatusPending
	putProject(t, store, p)

	_, err := UpdateProject(context.Background(), store, zap.NewNop(), policy, organizer, "p2", ProjectInput{}, statusPtr(model.StatusApproved), beforeWindow)
	requireCode(t, err, errs.CodeNotAuthorized)
}

func TestUpdateProject_IllegalTransition(t *testing.T) {
	store := newStore(t)

	_, err := UpdateProject(context.Background(), store, zap.NewNop(), policy, organizer, "p1", ProjectInput{}, statusPtr(model.StatusEditing), windowOpen)
	requireCode(t, err, errs.CodeIllegalTransition)
}

func TestReviewProject(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	logger := zap.NewNop()
	p := approvedProject("p2", "River cleanup")
	p.StatusApprove = model.StatusPending
	putProject(t, store, p)

	_, err := ReviewProject(ctx, store, logger, organizer, "p2", ReviewRequest{Decision: model.StatusApproved}, beforeWindow)
	requireCode(t, err, errs.CodeNotAuthorized)

	_, err = ReviewProject(ctx, store, logger, admin, "p2", ReviewRequest{Decision: model.StatusCanceledByOrganizer}, beforeWindow)
	requireCode(t, err, errs.CodeValidation)

	reviewed, err := ReviewProject(ctx, store, logger, admin, "p2", ReviewRequest{
		Decision:      model.StatusRejected,
		AdminComments: "Please add the meeting point",
	}, beforeWindow)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, reviewed.StatusApprove)
	assert.Equal(t, "Please add the meeting point", reviewed.AdminComments)

	_, err = ReviewProject(ctx, store, logger, admin, "p2", ReviewRequest{Decision: model.StatusApproved}, beforeWindow)
	requireCode(t, err, errs.CodeIllegalTransition)
}

func TestDeleteProject(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	logger := zap.NewNop()

	income, err := SubmitIncome(ctx, store, logger, volunteer1, contact("p1"), windowOpen)
	require.NoError(t, err)
	_, err = AcceptIncome(ctx, store, nil, logger, organizer, income.ID, site, windowOpen)
	require.NoError(t, err)

	err = DeleteProject(ctx, store, logger, organizer, "p1")
	requireCode(t, err, errs.CodeProjectLocked)

	require.NoError(t, DeleteProject(ctx, store, logger, admin, "p1"))

	participants, err := store.ListParticipationsByVolunteer(ctx, "vol-1")
	require.NoError(t, err)
	assert.Empty(t, participants)
	incomes, err := store.ListIncomesByVolunteer(ctx, "vol-1")
	require.NoError(t, err)
	assert.Empty(t, incomes)
}

func keys(fields errs.FieldErrors) []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	return out
}
