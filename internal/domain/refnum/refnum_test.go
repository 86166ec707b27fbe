package refnum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprcore/registration-portal/internal/domain/period"
	"github.com/eprcore/registration-portal/pkg/errors"
)

func mkPeriod(year int, start, end string) period.SubmissionPeriod {
	return period.SubmissionPeriod{Year: year, StartMonth: start, EndMonth: end}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuild_ProducerFixtures(t *testing.T) {
	cases := []struct {
		name    string
		p       period.SubmissionPeriod
		now     time.Time
		journey string
		want    string
	}{
		{
			name:    "open period, large journey",
			p:       mkPeriod(2025, "January", "December"),
			now:     date(2025, time.December, 31),
			journey: "large",
			want:    "PEPROrg25P1L",
		},
		{
			name:    "closed period, small journey",
			p:       mkPeriod(2025, "January", "November"),
			now:     date(2025, time.December, 31),
			journey: "small",
			want:    "PEPROrg25P2S",
		},
		{
			name:    "leap-year boundary still open",
			p:       mkPeriod(2028, "January", "February"),
			now:     date(2028, time.February, 29),
			journey: "small",
			want:    "PEPROrg28P1S",
		},
		{
			name:    "day after leap-year boundary",
			p:       mkPeriod(2028, "January", "February"),
			now:     date(2028, time.March, 1),
			journey: "small",
			want:    "PEPROrg28P2S",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Build(tc.p, "Org", tc.now, false, 0, tc.journey)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuild_ComplianceSchemeRowPlacement(t *testing.T) {
	got, err := Build(mkPeriod(2025, "January", "December"), "Org",
		date(2025, time.December, 31), true, 444, "CsoLargeProducer")
	require.NoError(t, err)
	// Row number sits between organisation number and year suffix, no separator.
	assert.Equal(t, "PEPROrg44425P1L", got)
}

func TestBuild_AbbreviationInsensitive(t *testing.T) {
	now := date(2025, time.June, 15)
	full, err := Build(mkPeriod(2025, "January", "December"), "100082", now, false, 0, "Large Producer")
	require.NoError(t, err)
	abbr, err := Build(mkPeriod(2025, "Jan", "Dec"), "100082", now, false, 0, "Large Producer")
	require.NoError(t, err)
	assert.Equal(t, full, abbr)
}

func TestBuild_JourneySuffix(t *testing.T) {
	p := mkPeriod(2025, "Jan", "Dec")
	now := date(2025, time.June, 1)

	cases := []struct {
		label string
		want  string
	}{
		{"", "PEPROrg25P1"},
		{"   ", "PEPROrg25P1"},
		{"\t\n", "PEPROrg25P1"},
		{"large", "PEPROrg25P1L"},
		{"LARGE PRODUCER", "PEPROrg25P1L"},
		{"CsoLargeProducer", "PEPROrg25P1L"},
		{"small", "PEPROrg25P1S"},
		{"medium", "PEPROrg25P1S"},
	}
	for _, tc := range cases {
		got, err := Build(p, "Org", now, false, 0, tc.label)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "label %q", tc.label)
	}
}

func TestBuild_YearSuffixFromPeriodNotNow(t *testing.T) {
	// Period year 2025 evaluated in 2026: year suffix stays 25, index flips to 2.
	got, err := Build(mkPeriod(2025, "Jan", "Dec"), "Org", date(2026, time.March, 1), false, 0, "small")
	require.NoError(t, err)
	assert.Equal(t, "PEPROrg25P2S", got)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(mkPeriod(2025, "Jan", "Smarch"), "Org", date(2025, time.June, 1), false, 0, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeReferenceBuildFailed))

	_, err = Build(mkPeriod(2025, "Jan", "Dec"), "", date(2025, time.June, 1), false, 0, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeReferenceBuildFailed))
}

func TestBuildResubmission_MatchesBuild(t *testing.T) {
	p := mkPeriod(2025, "Jan", "Dec")
	now := date(2025, time.June, 1)
	a, err := Build(p, "200113", now, true, 7, "small")
	require.NoError(t, err)
	b, err := BuildResubmission(p, "200113", now, true, 7, "small")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
