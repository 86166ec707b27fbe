// Package refnum builds application reference numbers for registration and
// packaging-data submissions. Reference numbers are part of the audit trail
// shared with the regulator, so composition must be deterministic: the same
// inputs always produce the same string.
package refnum

import (
	"fmt"
	"strings"
	"time"

	"github.com/eprcore/registration-portal/internal/domain/period"
	"github.com/eprcore/registration-portal/pkg/errors"
)

// prefix opens every application reference number.
const prefix = "PEPR"

// Build composes an application reference number from the submission period,
// the organisation number, the current instant, and the journey
// classification.
//
// Layout:
//
//	PEPR <org> [row] <yy> P <index> [L|S]
//
// where row appears only for compliance schemes (directly after the
// organisation number, no separator), yy is the last two digits of the
// period's year, index is 1 while the period is still open at now (the end
// date itself counts as open) and 2 afterwards, and the trailing letter is
// "L" when the journey label contains "large" (case-insensitive), "S" for any
// other non-blank label, and absent for a blank label.
func Build(p period.SubmissionPeriod, organisationNumber string, now time.Time, isComplianceScheme bool, rowNumber int, journeyLabel string) (string, error) {
	if organisationNumber == "" {
		return "", errors.New(errors.ErrCodeReferenceBuildFailed, "organisation number is required")
	}

	open, err := p.OpenAt(now)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeReferenceBuildFailed,
			"failed to resolve submission period end date")
	}
	periodIndex := 2
	if open {
		periodIndex = 1
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(organisationNumber)
	if isComplianceScheme {
		fmt.Fprintf(&sb, "%d", rowNumber)
	}
	fmt.Fprintf(&sb, "%02d", p.Year%100)
	fmt.Fprintf(&sb, "P%d", periodIndex)
	sb.WriteString(journeySuffix(journeyLabel))

	return sb.String(), nil
}

// BuildResubmission composes a packaging-data resubmission reference. The
// rules are identical to Build; resubmissions differ only in the organisation
// and row source the caller supplies.
func BuildResubmission(p period.SubmissionPeriod, organisationNumber string, now time.Time, isComplianceScheme bool, rowNumber int, journeyLabel string) (string, error) {
	return Build(p, organisationNumber, now, isComplianceScheme, rowNumber, journeyLabel)
}

// journeySuffix classifies the journey label. A blank (empty or whitespace)
// label yields no suffix.
func journeySuffix(label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(label), "large") {
		return "L"
	}
	return "S"
}
