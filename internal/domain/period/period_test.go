package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprcore/registration-portal/pkg/errors"
)

func TestResolveMonth_FullNamesAndAbbreviations(t *testing.T) {
	cases := []struct {
		in   string
		want time.Month
	}{
		{"January", time.January},
		{"jan", time.January},
		{"February", time.February},
		{"Feb", time.February},
		{"feb.", time.February},
		{"MAY", time.May},
		{"Sept", time.September},
		{"sep", time.September},
		{" December ", time.December},
		{"dec", time.December},
	}
	for _, tc := range cases {
		got, err := ResolveMonth(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestResolveMonth_Unknown(t *testing.T) {
	_, err := ResolveMonth("Juneuary")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePeriodUnknownMonth))
}

func TestEndDate_LeapYearFebruary(t *testing.T) {
	leap := SubmissionPeriod{Year: 2028, StartMonth: "Jan", EndMonth: "Feb"}
	end, err := leap.EndDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), end)

	common := SubmissionPeriod{Year: 2027, StartMonth: "Jan", EndMonth: "February"}
	end, err = common.EndDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, time.February, 28, 0, 0, 0, 0, time.UTC), end)
}

func TestEndDate_AbbreviationEquivalence(t *testing.T) {
	full := SubmissionPeriod{Year: 2025, StartMonth: "January", EndMonth: "December"}
	abbr := SubmissionPeriod{Year: 2025, StartMonth: "Jan", EndMonth: "Dec"}

	e1, err := full.EndDate()
	require.NoError(t, err)
	e2, err := abbr.EndDate()
	require.NoError(t, err)
	assert.Equal(t, e1, e2)
}

func TestOpenAt_InclusiveBoundary(t *testing.T) {
	p := SubmissionPeriod{Year: 2025, StartMonth: "Jan", EndMonth: "Dec"}

	onBoundary := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	open, err := p.OpenAt(onBoundary)
	require.NoError(t, err)
	assert.True(t, open, "exact end date counts as still open")

	dayAfter := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	open, err = p.OpenAt(dayAfter)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestContains(t *testing.T) {
	p := SubmissionPeriod{Year: 2025, StartMonth: "Jan", EndMonth: "Jun"}

	in, err := p.Contains(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, in)

	in, err = p.Contains(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, in)
}

func TestCurrent(t *testing.T) {
	periods := []SubmissionPeriod{
		{Year: 2024, StartMonth: "Jan", EndMonth: "Dec", DataPeriodLabel: "January to December 2024"},
		{Year: 2025, StartMonth: "Jan", EndMonth: "Jun", DataPeriodLabel: "January to June 2025"},
		{Year: 2025, StartMonth: "Jul", EndMonth: "Dec", DataPeriodLabel: "July to December 2025"},
	}

	p, err := Current(periods, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "January to June 2025", p.DataPeriodLabel)

	// Between periods: most recent started period wins.
	p, err = Current(periods, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "July to December 2025", p.DataPeriodLabel)

	_, err = Current(periods, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePeriodNotFound))
}
