package spcode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spcalc/spcalc/pkg/spcode"
)

func TestCalculateSplitsSemesters(t *testing.T) {
	entries := []spcode.Entry{
		{ModuleCode: "CS101", Grade: 60, Credits: 15, Semester: spcode.SemesterOne},
		{ModuleCode: "CS102", Grade: 80, Credits: 15, Semester: spcode.SemesterOne},
		{ModuleCode: "CS101", Grade: 40, Credits: 10, Semester: spcode.SemesterTwo},
		{ModuleCode: "MA201", Grade: 90, Credits: 20, Semester: spcode.SemesterTwo},
	}

	report, err := spcode.New(spcode.DefaultConfig()).Calculate(entries)
	require.NoError(t, err)
	require.Len(t, report.Semesters, 2)
	assert.Equal(t, spcode.SemesterOne, report.Semesters[0].Semester)
	assert.Equal(t, spcode.SemesterTwo, report.Semesters[1].Semester)

	sem2, ok := report.Semester(spcode.SemesterTwo)
	require.True(t, ok)
	base, ok := sem2.Baseline()
	require.True(t, ok)
	assert.InDelta(t, (10*40+20*90)/30.0, base.Grade, eps)

	best, ok := sem2.Best()
	require.True(t, ok)
	assert.Equal(t, spcode.RemovalSet{"CS101"}, best.Remove)
	assert.InDelta(t, 90, best.Grade, eps)
}

func TestCalculateOmitsEmptySemester(t *testing.T) {
	report, err := spcode.New(spcode.DefaultConfig()).Calculate([]spcode.Entry{
		{ModuleCode: "CS101", Grade: 60, Credits: 15, Semester: spcode.SemesterTwo},
	})
	require.NoError(t, err)
	require.Len(t, report.Semesters, 1)
	_, ok := report.Semester(spcode.SemesterOne)
	assert.False(t, ok)
}

func TestCalculateRejectsDuplicateWithinSemester(t *testing.T) {
	_, err := spcode.New(spcode.DefaultConfig()).Calculate([]spcode.Entry{
		{ModuleCode: "CS101", Grade: 60, Credits: 15, Semester: spcode.SemesterOne},
		{ModuleCode: "CS101", Grade: 70, Credits: 15, Semester: spcode.SemesterOne},
	})
	assert.ErrorIs(t, err, spcode.ErrDuplicateCode)
}

func TestCalculateNoEntries(t *testing.T) {
	_, err := spcode.New(spcode.DefaultConfig()).Calculate(nil)
	assert.ErrorIs(t, err, spcode.ErrNoModules)
}

func TestValidateEntriesReportsEveryField(t *testing.T) {
	err := spcode.ValidateEntries([]spcode.Entry{
		{ModuleCode: "CS101", Grade: 60, Credits: 15, Semester: spcode.SemesterOne},
		{ModuleCode: "", Grade: 60, Credits: 0, Semester: "sem3"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, spcode.ErrInvalidInput)

	var verr *spcode.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		assert.Equal(t, 1, f.Index)
		assert.NotEmpty(t, f.Message)
		fields[f.Field] = true
	}
	assert.True(t, fields["moduleCode"])
	assert.True(t, fields["credits"])
	assert.True(t, fields["semester"])
}
