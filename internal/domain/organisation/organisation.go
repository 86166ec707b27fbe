// Package organisation holds the identity types the orchestration engine
// reads: organisations, users, and regulator nations. All of it originates in
// the account/SSO layer; the core never mutates it.
package organisation

import (
	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/pkg/errors"
)

// Regulator nation codes.
const (
	NationEngland        = "GB-ENG"
	NationScotland       = "GB-SCT"
	NationWales          = "GB-WLS"
	NationNorthernIreland = "GB-NIR"
)

// ValidNation reports whether code is a recognised regulator nation.
func ValidNation(code string) bool {
	switch code {
	case NationEngland, NationScotland, NationWales, NationNorthernIreland:
		return true
	}
	return false
}

// Organisation is one registered producer or compliance scheme.
type Organisation struct {
	ID     uuid.UUID
	Number string
	Name   string

	// NationCode identifies the organisation's regulator.
	NationCode string

	// IsComplianceScheme marks organisations that submit on behalf of
	// member producers.
	IsComplianceScheme bool
}

// Validate checks the fields the orchestrators depend on.
func (o Organisation) Validate() error {
	if o.ID == uuid.Nil {
		return errors.Validation("organisation id is required")
	}
	if o.Number == "" {
		return errors.Validation("organisation number is required")
	}
	if o.NationCode != "" && !ValidNation(o.NationCode) {
		return errors.Validation("regulator nation code not recognised").
			WithDetail("nation=" + o.NationCode)
	}
	return nil
}

// User is the signed-in account invoking an orchestration.
type User struct {
	ID            uuid.UUID
	Name          string
	Organisations []Organisation
}

// PrimaryOrganisation returns the user's first associated organisation, or
// false when the user has none.
func (u User) PrimaryOrganisation() (Organisation, bool) {
	if len(u.Organisations) == 0 {
		return Organisation{}, false
	}
	return u.Organisations[0], true
}
