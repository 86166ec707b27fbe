package config

import "github.com/eprcore/registration-portal/internal/domain/period"

// SubmissionPeriods converts the configured period entries into domain
// submission periods, preserving declaration order.
func (c *Config) SubmissionPeriods() []period.SubmissionPeriod {
	out := make([]period.SubmissionPeriod, 0, len(c.Periods))
	for _, p := range c.Periods {
		out = append(out, period.SubmissionPeriod{
			Year:            p.Year,
			StartMonth:      p.StartMonth,
			EndMonth:        p.EndMonth,
			DataPeriodLabel: p.DataPeriodLabel,
			ActiveFrom:      p.ActiveFrom,
			Deadline:        p.Deadline,
		})
	}
	return out
}
