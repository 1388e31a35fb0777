package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"medication-adherence/internal/domain/reminders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster []reminders.RosterEntry

func (f fakeRoster) ListMedicationsWithPatients(ctx context.Context) ([]reminders.RosterEntry, error) {
	return append([]reminders.RosterEntry(nil), f...), nil
}

func newTestContext(t *testing.T, roster reminders.RosterSource) (*Context, *bytes.Buffer) {
	t.Helper()
	chdirForTest(t, t.TempDir())
	t.Setenv("DB_DSN", "")

	var buf bytes.Buffer
	return &Context{Ctx: context.Background(), Out: &buf, Roster: roster}, &buf
}

var roster = fakeRoster{
	{MedicationID: "m1", Name: "A", Dosage: "5mg", Reminders: []string{"08:00"}, Patient: reminders.Contact{PatientID: "p1", Phone: "9876543210"}},
	{MedicationID: "m2", Name: "B", Dosage: "1mg", Reminders: []string{"09:00"}, Patient: reminders.Contact{PatientID: "p2"}},
}

func TestValidateCmd_NormalizesAndDedupes(t *testing.T) {
	c, out := newTestContext(t, nil)

	require.NoError(t, (&ValidateCmd{Times: []string{"08:00", " 08:00", "20:30"}}).Run(c))
	assert.Equal(t, "08:00\n20:30\n", out.String())

	assert.Error(t, (&ValidateCmd{Times: []string{"8am"}}).Run(c))
}

func TestPlanCmd_PrintsTimelineAndSkips(t *testing.T) {
	c, out := newTestContext(t, roster)

	require.NoError(t, (&PlanCmd{}).Run(c))

	s := out.String()
	for _, want := range []string{"07:45", "08:00", "08:05", "post_check"} {
		assert.Contains(t, s, want)
	}
	assert.Contains(t, s, "skipped p2 09:00")
	// cabecera + 5 triggers + 1 skip
	assert.Len(t, strings.Split(strings.TrimSpace(s), "\n"), 7)
}

func TestPlanCmd_PatientFilter(t *testing.T) {
	c, out := newTestContext(t, roster)

	require.NoError(t, (&PlanCmd{Patient: "p2"}).Run(c))
	assert.NotContains(t, out.String(), "pre_dose")
	assert.Contains(t, out.String(), "skipped p2")
}

func TestSyncCmd_ListsRegisteredKeys(t *testing.T) {
	c, out := newTestContext(t, roster)

	require.NoError(t, (&SyncCmd{}).Run(c))

	s := out.String()
	assert.Contains(t, s, "groups=2 registered=5 skipped=1 bind_failures=0")
	assert.Contains(t, s, "p1-08:00-15")
	assert.Contains(t, s, "p1-08:00-post")
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
