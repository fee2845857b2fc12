package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/services"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (r *recordingNotifier) Enqueue(ctx context.Context, n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func testApp(clock *time.Time) (*AppContext, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return &AppContext{
		Ctx:      context.Background(),
		Store:    db.NewMemoryDB(),
		Notifier: notifier,
		Policy:   status.NewPolicy(time.UTC),
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return *clock },
	}, notifier
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(app *AppContext, args ...string) (string, error) {
	root := NewRootCmd(app, nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, app *AppContext, args ...string) string {
	t.Helper()
	out, err := execute(app, args...)
	require.NoError(t, err, out)
	return out
}

func extract(t *testing.T, out, label string) string {
	t.Helper()
	m := regexp.MustCompile(label + `:\s+(\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, "no %s in output:\n%s", label, out)
	return m[1]
}

const projectYAML = `
name: Park cleanup
description: Cleaning up the riverside park
event_purpose: Keep the park clean for everyone
address:
  address_line: Moscow, Lenina 1
  street: Lenina
  house: "1"
skills: [skill-1]
start_date_application: 2025-03-02T09:00:00Z
end_date_application: 2025-03-12T09:00:00Z
start_datetime: 2025-03-15T10:00:00Z
end_datetime: 2025-03-15T14:00:00Z
`

func TestProjectAndIncomeFlow(t *testing.T) {
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	app, notifier := testApp(&clock)

	admin := []string{"--role", "admin", "--actor-id", "u-admin"}
	organizer := []string{"--role", "organizer", "--actor-id", "u-org", "--organization-id", "org-1"}
	volunteer := []string{"--role", "volunteer", "--actor-id", "u-vol-1", "--volunteer-id", "vol-1"}
	as := func(actor []string, args ...string) []string {
		return append(append([]string{}, args...), actor...)
	}

	mustExecute(t, app, as(admin, "organization", "register", "-f", writeFile(t, "org.yaml", `
id: org-1
contact_person_id: u-org
title: Green City
`))...)
	mustExecute(t, app, as(admin, "volunteer", "register", "-f", writeFile(t, "vol.yaml", `
id: vol-1
user_id: u-vol-1
first_name: Anna
last_name: Petrova
email: anna@example.com
`))...)

	out := mustExecute(t, app, as(organizer, "project", "submit", "-f", writeFile(t, "project.yaml", projectYAML))...)
	projectID := extract(t, out, "Project ID")
	assert.Contains(t, out, "Status:       pending")

	out = mustExecute(t, app, as(admin, "project", "review", projectID, "--decision", "approved")...)
	assert.Contains(t, out, "Project approved")

	clock = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	out = mustExecute(t, app, as(volunteer, "income", "submit", projectID, "--phone", "+79991234567")...)
	incomeID := extract(t, out, "Income ID")

	out = mustExecute(t, app, as(organizer, "income", "accept", incomeID)...)
	assert.Contains(t, out, "Application accepted")
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, model.NotificationAccepted, notifier.sent[0].Kind)

	out = mustExecute(t, app, as(organizer, "project", "status", projectID)...)
	assert.Contains(t, out, "Shown as:     ready_for_feedback")
	assert.Contains(t, out, "Organizer:    Green City")
	assert.Contains(t, out, "Anna Petrova")
	assert.Contains(t, out, incomeID)

	out = mustExecute(t, app, as(volunteer, "income", "list")...)
	assert.Contains(t, out, "Participations (1)")

	_, err := execute(app, as(organizer, "project", "update", projectID, "-f", writeFile(t, "change.yaml", `
description: A completely different description
`))...)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeProjectLocked))
	assert.Contains(t, FormatError(err), "description: field is locked")

	out = mustExecute(t, app, as(organizer, "project", "update", projectID, "--status", "canceled_by_organizer")...)
	assert.Contains(t, out, "Status:       canceled_by_organizer")
}

func TestCurrentActorRequiresRole(t *testing.T) {
	clock := time.Now()
	app, _ := testApp(&clock)

	_, err := execute(app, "project", "status", "p1")
	assert.ErrorContains(t, err, "--role must be one of")
}

func TestReadYAML_RejectsUnknownFields(t *testing.T) {
	var in services.ProjectInput
	err := readYAML(writeFile(t, "bad.yaml", "nmae: Typo\n"), &in)
	assert.ErrorContains(t, err, "failed to parse")

	require.NoError(t, readYAML(writeFile(t, "empty.yaml", ""), &in))
	assert.Nil(t, in.Name)
}

func TestFormatError(t *testing.T) {
	fields := errs.FieldErrors{}
	fields.Add("start_datetime", "event must start between 08:00 and 20:00")
	fields.Add("address.house", "this field is required")

	assert.Equal(t, "VALIDATION: validation failed\n"+
		"  address.house: this field is required\n"+
		"  start_datetime: event must start between 08:00 and 20:00", FormatError(errs.Validation(fields)))
	assert.Equal(t, "boom", FormatError(errors.New("boom")))
}

func TestInteractiveSession(t *testing.T) {
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	app, _ := testApp(&clock)
	root := NewRootCmd(app, nil)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"project draft --role organizer --organization-id org-1 -f " + writeFile(t, "draft.yaml", "name: Tree planting\n"),
		"project status missing",
		"nonsense",
		"exit",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, runSession(root, input, &out))

	assert.Contains(t, out.String(), "income accept <income_id>")
	assert.Contains(t, out.String(), "Draft saved")
	assert.Contains(t, out.String(), "NOT_FOUND")
	assert.Contains(t, out.String(), "unknown command")
	assert.Contains(t, out.String(), "Goodbye!")
}
