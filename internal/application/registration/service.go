// Package registration orchestrates the producer and compliance-scheme
// registration application journey: it merges session state with backend
// submission facts, derives the application and task statuses, looks up fees
// once the file-upload stage completes, auto-submits applications with
// nothing outstanding, and hands users to the payment provider.
package registration

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

// Fixed user-facing precondition messages for InitiatePayment.
const (
	msgReferenceRequired = "Application reference number is required."
	msgNoOrganisations   = "User has no associated organisations."
)

// Service is the registration application orchestrator.
type Service interface {
	// GetRegistrationApplicationSession loads or initialises the caller's
	// application state, merges in the latest backend facts, performs the
	// fee lookup and zero-outstanding auto-submit where due, persists the
	// result and returns it.
	GetRegistrationApplicationSession(ctx context.Context, handle string, org organisation.Organisation, isResubmission bool) (*ApplicationState, error)

	// CreateApplicationReferenceNumber builds the application reference for
	// the current submission period, stores it on the state and notifies
	// the submission service to finally submit the uploaded file set under
	// that reference.
	CreateApplicationReferenceNumber(ctx context.Context, handle string, org organisation.Organisation, rowNumber int, journeyLabel string) (string, error)

	// InitiatePayment forwards the outstanding amount to the payment
	// provider and returns the opaque payment link. The state must carry a
	// reference number and the user must have an organisation.
	InitiatePayment(ctx context.Context, user organisation.User, handle string) (string, error)
}

type service struct {
	store       SessionStore
	submissions SubmissionGateway
	fees        FeeCalculator
	payments    PaymentGateway
	periods     []period.SubmissionPeriod
	metrics     Metrics
	logger      logging.Logger
	now         func() time.Time
}

// NewService wires the registration orchestrator. metrics may be nil, in
// which case counters are discarded.
func NewService(
	store SessionStore,
	submissions SubmissionGateway,
	fees FeeCalculator,
	payments PaymentGateway,
	periods []period.SubmissionPeriod,
	metrics Metrics,
	logger logging.Logger,
) Service {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &service{
		store:       store,
		submissions: submissions,
		fees:        fees,
		payments:    payments,
		periods:     periods,
		metrics:     metrics,
		logger:      logger.Named("registration"),
		now:         time.Now,
	}
}

func sessionKey(handle string) string {
	return "registration:" + handle
}

func (s *service) GetRegistrationApplicationSession(ctx context.Context, handle string, org organisation.Organisation, isResubmission bool) (*ApplicationState, error) {
	st, err := s.loadOrDefault(ctx, handle, org)
	if err != nil {
		s.metrics.OrchestrationRun("error")
		return nil, err
	}
	st.IsResubmission = isResubmission

	details, err := s.submissions.GetRegistrationApplicationDetails(ctx, backend.RegistrationDetailsQuery{
		OrganisationID: org.ID,
		PeriodLabel:    st.PeriodLabel,
	})
	if err != nil {
		s.metrics.OrchestrationRun("error")
		return nil, err
	}
	mergeBackendFacts(st, details)
	st.refreshTaskStatuses()

	if st.FileUploadTaskStatus == submission.TaskCompleted && st.PaymentTaskStatus != submission.TaskCompleted {
		if err := s.lookupFees(ctx, st, org); err != nil {
			s.metrics.OrchestrationRun("error")
			return nil, err
		}
		st.refreshTaskStatuses()
	}

	if err := s.autoSubmitIfNothingOutstanding(ctx, st); err != nil {
		s.metrics.OrchestrationRun("error")
		return nil, err
	}
	st.refreshTaskStatuses()

	if err := s.store.Save(ctx, sessionKey(handle), st); err != nil {
		s.metrics.OrchestrationRun("error")
		return nil, err
	}
	s.metrics.OrchestrationRun("ok")
	return st, nil
}

// loadOrDefault restores prior state for the handle or constructs a default
// for the current submission period. Organisation facts are refreshed on
// every call: the signed-in context, not the stored copy, is authoritative.
func (s *service) loadOrDefault(ctx context.Context, handle string, org organisation.Organisation) (*ApplicationState, error) {
	if err := org.Validate(); err != nil {
		return nil, err
	}

	var st ApplicationState
	found, err := s.store.Get(ctx, sessionKey(handle), &st)
	if err != nil {
		return nil, err
	}
	if !found {
		p, err := period.Current(s.periods, s.now())
		if err != nil {
			return nil, err
		}
		st = ApplicationState{
			PeriodLabel:                 p.DataPeriodLabel,
			ApplicationStatus:           submission.AppNotStarted,
			FileUploadTaskStatus:        submission.TaskNotStarted,
			PaymentTaskStatus:           submission.TaskCannotStartYet,
			AdditionalDetailsTaskStatus: submission.TaskCannotStartYet,
		}
		s.logger.Debug("initialised registration session",
			logging.String("period", p.DataPeriodLabel),
			logging.String("organisation", org.Number),
		)
	}

	st.RegulatorNation = org.NationCode
	st.IsComplianceScheme = org.IsComplianceScheme
	return &st, nil
}

// mergeBackendFacts folds the submission service's view into the session
// state. A nil details value means the backend has no data yet and the state
// is left as loaded.
func mergeBackendFacts(st *ApplicationState, details *backend.RegistrationDetails) {
	if details == nil {
		return
	}

	st.SubmissionID = details.SubmissionID
	st.FileSetValid = details.FileSetValid
	st.FileSetSubmitted = details.FileSetSubmitted
	st.LastSubmittedFile = details.LastSubmittedFile
	if details.ApplicationReferenceNumber != "" {
		st.ApplicationReferenceNumber = details.ApplicationReferenceNumber
	}
	if details.RegistrationFeePaymentMethod != "" {
		st.RegistrationFeePaymentMethod = details.RegistrationFeePaymentMethod
	}
	if details.RegistrationApplicationSubmittedDate != nil {
		st.RegistrationApplicationSubmittedDate = details.RegistrationApplicationSubmittedDate
	}
	if details.AdditionalDetailsRecorded {
		st.AdditionalDetailsRecorded = true
	}

	sub := details.RegistrationSubmission
	if sub != nil && sub.Decision == nil {
		sub.Decision = details.Decision
	}
	st.ApplicationStatus = submission.DeriveApplicationStatus(sub)
}

// lookupFees fetches the fee breakdown for the journey type and records the
// totals. An unavailable calculation leaves the state untouched: the payment
// task simply stays where it was until the next orchestration run.
func (s *service) lookupFees(ctx context.Context, st *ApplicationState, org organisation.Organisation) error {
	if st.IsComplianceScheme {
		breakdown, err := s.fees.ComplianceSchemeRegistrationFees(ctx, backend.ComplianceSchemeFeeRequest{
			ApplicationReferenceNumber: st.ApplicationReferenceNumber,
			ComplianceSchemeID:         org.ID,
			PeriodLabel:                st.PeriodLabel,
			Regulator:                  st.RegulatorNation,
		})
		if err != nil {
			return err
		}
		if breakdown != nil {
			st.FeeCalculated = true
			st.TotalFee = breakdown.TotalFee
			st.TotalAmountOutstanding = breakdown.OutstandingPayment
		}
		return nil
	}

	breakdown, err := s.fees.ProducerRegistrationFees(ctx, backend.ProducerFeeRequest{
		ApplicationReferenceNumber: st.ApplicationReferenceNumber,
		OrganisationID:             org.ID,
		PeriodLabel:                st.PeriodLabel,
		Regulator:                  st.RegulatorNation,
	})
	if err != nil {
		return err
	}
	if breakdown != nil {
		st.FeeCalculated = true
		st.TotalFee = breakdown.TotalFee
		st.TotalAmountOutstanding = breakdown.OutstandingPayment
	}
	return nil
}

// autoSubmitIfNothingOutstanding records the submitted event with the
// no-outstanding-payment sentinel when the fee result shows a zero balance.
// This is the one auto-transition in the engine and it must fire at most once
// per submission: the submittedEventRecorded guard makes repeated
// orchestration calls within a session no-ops.
func (s *service) autoSubmitIfNothingOutstanding(ctx context.Context, st *ApplicationState) error {
	if !st.FeeCalculated || st.TotalAmountOutstanding != 0 {
		return nil
	}
	if st.submittedEventRecorded() {
		return nil
	}
	if st.SubmissionID == uuid.Nil || st.ApplicationReferenceNumber == "" {
		return nil
	}

	ev := backend.SubmissionEvent{
		SubmissionID:               st.SubmissionID,
		ApplicationReferenceNumber: st.ApplicationReferenceNumber,
		IsResubmission:             st.IsResubmission,
		PaymentMethod:              PaymentMethodNoOutstanding,
	}
	if st.LastSubmittedFile != nil {
		ev.FileID = st.LastSubmittedFile.ID
	}
	if err := s.submissions.RecordSubmissionEvent(ctx, ev); err != nil {
		return err
	}

	now := s.now()
	st.RegistrationApplicationSubmittedDate = &now
	st.RegistrationFeePaymentMethod = PaymentMethodNoOutstanding
	s.metrics.AutoSubmission()
	s.logger.Info("auto-submitted registration application with nothing outstanding",
		logging.String("submission_id", st.SubmissionID.String()),
		logging.String("reference", st.ApplicationReferenceNumber),
	)
	return nil
}

func (s *service) CreateApplicationReferenceNumber(ctx context.Context, handle string, org organisation.Organisation, rowNumber int, journeyLabel string) (string, error) {
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
	ref, err := refnum.Build(p, org.Number, now, org.IsComplianceScheme, rowNumber, journeyLabel)
	if err != nil {
		return "", err
	}
	st.ApplicationReferenceNumber = ref

	if st.SubmissionID != uuid.Nil {
		ev := backend.SubmissionEvent{
			SubmissionID:               st.SubmissionID,
			ApplicationReferenceNumber: ref,
			IsResubmission:             st.IsResubmission,
		}
		if st.LastSubmittedFile != nil {
			ev.FileID = st.LastSubmittedFile.ID
		}
		if err := s.submissions.SubmitRegistrationApplication(ctx, ev); err != nil {
			return "", err
		}
	}

	if err := s.store.Save(ctx, sessionKey(handle), st); err != nil {
		return "", err
	}
	s.logger.Info("created application reference number",
		logging.String("reference", ref),
		logging.String("organisation", org.Number),
	)
	return ref, nil
}

func (s *service) InitiatePayment(ctx context.Context, user organisation.User, handle string) (string, error) {
	var st ApplicationState
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
		Amount:         st.TotalAmountOutstanding,
		Regulator:      st.RegulatorNation,
	})
	if err != nil {
		s.metrics.PaymentInitiation("error")
		return "", err
	}

	st.PaymentInitiated = true
	st.refreshTaskStatuses()
	if err := s.store.Save(ctx, sessionKey(handle), &st); err != nil {
		return "", err
	}
	s.metrics.PaymentInitiation("ok")
	s.logger.Info("payment initiated",
		logging.String("reference", st.ApplicationReferenceNumber),
		logging.Float64("amount", st.TotalAmountOutstanding),
	)
	return link, nil
}
