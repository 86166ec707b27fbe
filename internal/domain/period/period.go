// Package period models submission periods: the date ranges for which an
// organisation may submit a regulatory data file. Periods are immutable
// reference data loaded from configuration; everything here is pure calendar
// arithmetic.
package period

import (
	"strings"
	"time"

	"github.com/eprcore/registration-portal/pkg/errors"
)

// SubmissionPeriod is one configured submission window, e.g.
// "January to June 2025".
type SubmissionPeriod struct {
	Year            int
	StartMonth      string
	EndMonth        string
	DataPeriodLabel string
	ActiveFrom      time.Time
	Deadline        time.Time
}

// monthNames maps lower-cased month names and their common abbreviations to
// calendar months. "Sept" is accepted alongside the three-letter forms.
var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ResolveMonth resolves a month name to its calendar month. Matching is
// case-insensitive and tolerates surrounding whitespace and a trailing period
// ("Feb.", "Sept.").
func ResolveMonth(name string) (time.Month, error) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if m, ok := monthNames[key]; ok {
		return m, nil
	}
	return 0, errors.New(errors.ErrCodePeriodUnknownMonth, "month name not recognised").
		WithDetail("name=" + name)
}

// EndDate returns midnight UTC on the last calendar day of the period's end
// month within the period's year. Day zero of the following month normalises
// to the last day of EndMonth, which keeps leap-year February correct.
func (p SubmissionPeriod) EndDate() (time.Time, error) {
	m, err := ResolveMonth(p.EndMonth)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(p.Year, m+1, 0, 0, 0, 0, 0, time.UTC), nil
}

// StartDate returns midnight UTC on the first day of the period's start month.
func (p SubmissionPeriod) StartDate() (time.Time, error) {
	m, err := ResolveMonth(p.StartMonth)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(p.Year, m, 1, 0, 0, 0, 0, time.UTC), nil
}

// OpenAt reports whether the period is still open at the given instant.
// The boundary is inclusive: an instant exactly equal to the end date counts
// as open.
func (p SubmissionPeriod) OpenAt(now time.Time) (bool, error) {
	end, err := p.EndDate()
	if err != nil {
		return false, err
	}
	return !now.After(end), nil
}

// Contains reports whether now falls within [StartDate, EndDate], both
// boundaries inclusive.
func (p SubmissionPeriod) Contains(now time.Time) (bool, error) {
	start, err := p.StartDate()
	if err != nil {
		return false, err
	}
	end, err := p.EndDate()
	if err != nil {
		return false, err
	}
	return !now.Before(start) && !now.After(end), nil
}

// Current selects from periods the one whose data period contains now,
// falling back to the most recent period whose start date is not in the
// future. Returns ErrCodePeriodNotFound when no period qualifies.
func Current(periods []SubmissionPeriod, now time.Time) (SubmissionPeriod, error) {
	var best *SubmissionPeriod
	var bestStart time.Time
	for i := range periods {
		p := periods[i]
		in, err := p.Contains(now)
		if err != nil {
			return SubmissionPeriod{}, err
		}
		if in {
			return p, nil
		}
		start, err := p.StartDate()
		if err != nil {
			return SubmissionPeriod{}, err
		}
		if !start.After(now) && (best == nil || start.After(bestStart)) {
			best = &periods[i]
			bestStart = start
		}
	}
	if best == nil {
		return SubmissionPeriod{}, errors.New(errors.ErrCodePeriodNotFound,
			"no submission period covers the current date")
	}
	return *best, nil
}
