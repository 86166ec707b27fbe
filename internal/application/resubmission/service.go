// Package resubmission orchestrates the packaging-data resubmission journey.
// It mirrors the registration orchestrator but is keyed by submission rather
// than by organisation and period, and reads its amounts from the
// resubmission fee breakdown instead of the registration fee calculation.
package resubmission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/domain/organisation"
	"github.com/eprcore/registration-portal/internal/domain/period"
	"github.com/eprcore/registration-portal/internal/domain/refnum"
	"github.com/eprcore/registration-portal/internal/domain/submission"
	"github.com/eprcore/registration-portal/internal/infrastructure/backend"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/pkg/errors"
)

const (
	msgReferenceRequired = "Application reference number is required."
	msgNoOrganisations   = "User has no associated organisations."
)

// Service is the packaging-data resubmission orchestrator.
type Service interface {
	// GetResubmissionApplicationSession loads or initialises the caller's
	// resubmission state, merges the backend's per-period facts for the
	// current period, persists the result and returns it.
	GetResubmissionApplicationSession(ctx context.Context, handle string, org organisation.Organisation) (*State, error)

	// GetResubmissionApplicationDetails fans a single backend query out
	// across the given submission periods. A null backend result becomes an
	// empty list; a non-null result is returned unmodified.
	GetResubmissionApplicationDetails(ctx context.Context, org organisation.Organisation, periodLabels []string, complianceSchemeID *uuid.UUID) ([]backend.ResubmissionDetails, error)

	// CreateResubmissionReferenceNumber builds the resubmission reference
	// for the current period, choosing the producer or compliance-scheme
	// composition by the organisation's role, and records it keyed by the
	// period's data-period label. Repeated calls for the same label
	// overwrite the stored reference.
	CreateResubmissionReferenceNumber(ctx context.Context, handle string, org organisation.Organisation, rowNumber int, journeyLabel string) (string, error)

	// GetPackagingDataPeriods derives the per-period packaging-data
	// lifecycle status for every configured submission period, for the
	// packaging home page.
	GetPackagingDataPeriods(ctx context.Context, org organisation.Organisation) ([]PeriodView, error)

	// InitiatePayment forwards the outstanding resubmission amount to the
	// payment provider and returns the opaque payment link.
	InitiatePayment(ctx context.Context, user organisation.User, handle string) (string, error)
}

// PeriodView is one row of the packaging-data period overview.
type PeriodView struct {
	PeriodLabel string                  `json:"period_label"`
	Status      submission.PeriodStatus `json:"status"`
	ActiveFrom  time.Time               `json:"active_from"`
	Deadline    time.Time               `json:"deadline"`
}

type service struct {
	store           SessionStore
	gateway         ResubmissionGateway
	payments        PaymentGateway
	periods         []period.SubmissionPeriod
	decisionEnabled bool
	logger          logging.Logger
	now             func() time.Time
}

// NewService wires the resubmission orchestrator. decisionEnabled gates the
// regulator-decision branch of the period status derivation.
func NewService(
	store SessionStore,
	gateway ResubmissionGateway,
	payments PaymentGateway,
	periods []period.SubmissionPeriod,
	decisionEnabled bool,
	logger logging.Logger,
) Service {
	return &service{
		store:           store,
		gateway:         gateway,
		payments:        payments,
		periods:         periods,
		decisionEnabled: decisionEnabled,
		logger:          logger.Named("resubmission"),
		now:             time.Now,
	}
}

func sessionKey(handle string) string {
	return "resubmission:" + handle
}

func (s *service) loadOrDefault(ctx context.Context, handle string, org organisation.Organisation) (*State, error) {
	if err := org.Validate(); err != nil {
		return nil, err
	}

	var st State
	found, err := s.store.Get(ctx, sessionKey(handle), &st)
	if err != nil {
		return nil, err
	}
	if !found {
		p, err := period.Current(s.periods, s.now())
		if err != nil {
			return nil, err
		}
		st = State{PeriodLabel: p.DataPeriodLabel}
		s.logger.Debug("initialised resubmission session",
			logging.String("period", p.DataPeriodLabel),
			logging.String("organisation", org.Number),
		)
	}
	st.RegulatorNation = org.NationCode
	return &st, nil
}

func (s *service) GetResubmissionApplicationSession(ctx context.Context, handle string, org organisation.Organisation) (*State, error) {
	st, err := s.loadOrDefault(ctx, handle, org)
	if err != nil {
		return nil, err
	}

	var schemeID *uuid.UUID
	if org.IsComplianceScheme {
		schemeID = &org.ID
	}
	labels := make([]string, 0, len(s.periods))
	for _, p := range s.periods {
		labels = append(labels, p.DataPeriodLabel)
	}
	details, err := s.gateway.GetResubmissionDetails(ctx, org.ID, labels, schemeID)
	if err != nil {
		return nil, err
	}

	for _, d := range details {
		if d.PeriodLabel != st.PeriodLabel {
			continue
		}
		st.SubmissionID = d.SubmissionID
		st.IsResubmissionInProgress = d.IsResubmissionInProgress
		st.IsResubmissionComplete = d.IsResubmissionComplete
		if d.ApplicationReferenceNumber != "" {
			st.setReference(d.PeriodLabel, d.ApplicationReferenceNumber)
		}
		st.RegistrationFee = d.RegistrationFee
		st.PreviousPayment = d.PreviousPayment
		st.OutstandingPayment = d.OutstandingPayment
		break
	}

	if err := s.store.Save(ctx, sessionKey(handle), st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetResubmissionApplicationDetails(ctx context.Context, org organisation.Organisation, periodLabels []string, complianceSchemeID *uuid.UUID) ([]backend.ResubmissionDetails, error) {
	if err := org.Validate(); err != nil {
		return nil, err
	}
	details, err := s.gateway.GetResubmissionDetails(ctx, org.ID, periodLabels, complianceSchemeID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		details = []backend.ResubmissionDetails{}
	}
	return details, nil
}

// GetPackagingDataPeriods combines the per-period submission facts with any
// in-flight resubmission journeys and derives each configured period's
// lifecycle status. Both backend reads degrade to "no data" on failure, so a
// broken collaborator renders every period as not started rather than an
// error page.
func (s *service) GetPackagingDataPeriods(ctx context.Context, org organisation.Organisation) ([]PeriodView, error) {
	if err := org.Validate(); err != nil {
		return nil, err
	}

	var schemeID *uuid.UUID
	if org.IsComplianceScheme {
		schemeID = &org.ID
	}
	labels := make([]string, 0, len(s.periods))
	for _, p := range s.periods {
		labels = append(labels, p.DataPeriodLabel)
	}

	facts, err := s.gateway.GetSubmissions(ctx, backend.SubmissionDetailsQuery{
		OrganisationID:     org.ID,
		Kind:               submission.KindProducerPackagingData,
		ComplianceSchemeID: schemeID,
		PeriodLabels:       labels,
	})
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]*submission.FileSubmission, len(facts))
	for _, f := range facts {
		byLabel[f.PeriodLabel] = f.Submission
	}

	resubs, err := s.gateway.GetResubmissionDetails(ctx, org.ID, labels, schemeID)
	if err != nil {
		return nil, err
	}
	inProgress := make(map[string]bool, len(resubs))
	for _, r := range resubs {
		inProgress[r.PeriodLabel] = r.IsResubmissionInProgress
	}

	now := s.now()
	views := make([]PeriodView, 0, len(s.periods))
	for _, p := range s.periods {
		views = append(views, PeriodView{
			PeriodLabel: p.DataPeriodLabel,
			Status: submission.DerivePeriodStatus(now, p.ActiveFrom,
				byLabel[p.DataPeriodLabel], inProgress[p.DataPeriodLabel], s.decisionEnabled),
			ActiveFrom: p.ActiveFrom,
			Deadline:   p.Deadline,
		})
	}
	return views, nil
}

func (s *service) CreateResubmissionReferenceNumber(ctx context.Context, handle string, org organisation.Organisation, rowNumber int, journeyLabel string) (string, error) {
	st, err := s.loadOrDefault(ctx, handle, org)
	if err != nil {
		return "", err
	}

	now := s.now()
	p, err := period.Current(s.periods, now)
	if err != nil {
		return "", err
	}
	if !org.IsComplianceScheme {
		rowNumber = 0
	}
	ref, err := refnum.BuildResubmission(p, org.Number, now, org.IsComplianceScheme, rowNumber, journeyLabel)
	if err != nil {
		return "", err
	}
	st.setReference(p.DataPeriodLabel, ref)

	if st.SubmissionID != uuid.Nil {
		ev := backend.SubmissionEvent{
			SubmissionID:               st.SubmissionID,
			ApplicationReferenceNumber: ref,
			IsResubmission:             true,
		}
		if err := s.gateway.RecordSubmissionEvent(ctx, ev); err != nil {
			return "", err
		}
	}

	if err := s.store.Save(ctx, sessionKey(handle), st); err != nil {
		return "", err
	}
	s.logger.Info("created resubmission reference number",
		logging.String("reference", ref),
		logging.String("period", p.DataPeriodLabel),
	)
	return ref, nil
}

func (s *service) InitiatePayment(ctx context.Context, user organisation.User, handle string) (string, error) {
	var st State
	found, err := s.store.Get(ctx, sessionKey(handle), &st)
	if err != nil {
		return "", err
	}
	if !found || st.ApplicationReferenceNumber == "" {
		return "", errors.New(errors.ErrCodeReferenceMissing, msgReferenceRequired)
	}
	org, ok := user.PrimaryOrganisation()
	if !ok {
		return "", errors.New(errors.ErrCodeNoOrganisations, msgNoOrganisations)
	}

	link, err := s.payments.InitiatePayment(ctx, backend.PaymentRequest{
		UserID:         user.ID,
		OrganisationID: org.ID,
		Reference:      st.ApplicationReferenceNumber,
		Amount:         st.OutstandingPayment,
		Regulator:      st.RegulatorNation,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("resubmission payment initiated",
		logging.String("reference", st.ApplicationReferenceNumber),
		logging.Float64("amount", st.OutstandingPayment),
	)
	return link, nil
}
