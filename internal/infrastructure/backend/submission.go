package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/config"
	"github.com/eprcore/registration-portal/internal/domain/submission"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/pkg/errors"
)

// SubmissionClient talks to the submission service. Read paths normalise
// backend failures and not-found responses into (nil, nil) so that callers
// never branch on errors to detect absence; write paths propagate failures.
type SubmissionClient struct {
	*Client
}

// NewSubmissionClient constructs a SubmissionClient.
func NewSubmissionClient(cfg config.BackendConfig, logger logging.Logger) (*SubmissionClient, error) {
	c, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &SubmissionClient{Client: c}, nil
}

// SubmissionDetailsQuery selects the submissions to fetch.
type SubmissionDetailsQuery struct {
	OrganisationID     uuid.UUID       `json:"organisation_id"`
	Kind               submission.Kind `json:"kind"`
	ComplianceSchemeID *uuid.UUID      `json:"compliance_scheme_id,omitempty"`
	PeriodLabels       []string        `json:"period_labels"`
}

// PeriodSubmissionFacts is the per-period result of a details query.
type PeriodSubmissionFacts struct {
	PeriodLabel string                     `json:"period_label"`
	Submission  *submission.FileSubmission `json:"submission,omitempty"`
}

// GetSubmissions fetches per-period submission facts for an organisation.
// A backend failure or 404 yields (nil, nil): no data yet.
func (c *SubmissionClient) GetSubmissions(ctx context.Context, q SubmissionDetailsQuery) ([]PeriodSubmissionFacts, error) {
	if !q.Kind.Valid() {
		return nil, errors.New(errors.ErrCodeSubmissionKindInvalid, "submission kind not recognised").
			WithDetail("kind=" + string(q.Kind))
	}

	path := fmt.Sprintf("/v1/submissions?organisationId=%s&type=%s&periods=%s",
		q.OrganisationID, url.QueryEscape(string(q.Kind)),
		url.QueryEscape(strings.Join(q.PeriodLabels, ",")))
	if q.ComplianceSchemeID != nil {
		path += "&complianceSchemeId=" + q.ComplianceSchemeID.String()
	}

	var out []PeriodSubmissionFacts
	if err := c.get(ctx, path, &out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("submission details unavailable, treating as no data",
			logging.String("organisation_id", q.OrganisationID.String()),
			logging.Err(err),
		)
		return nil, nil
	}
	return out, nil
}

// RegistrationDetails is the submission service's view of one registration
// application.
type RegistrationDetails struct {
	SubmissionID                         uuid.UUID                     `json:"submission_id"`
	IsSubmitted                          bool                          `json:"is_submitted"`
	ApplicationReferenceNumber           string                        `json:"application_reference_number"`
	RegistrationFeePaymentMethod         string                        `json:"registration_fee_payment_method,omitempty"`
	RegistrationApplicationSubmittedDate *time.Time                    `json:"registration_application_submitted_date,omitempty"`
	FileSetValid                         bool                          `json:"file_set_valid"`
	FileSetSubmitted                     bool                          `json:"file_set_submitted"`
	AdditionalDetailsRecorded            bool                          `json:"additional_details_recorded"`
	LastSubmittedFile                    *submission.FileDescriptor    `json:"last_submitted_file,omitempty"`
	RegistrationSubmission               *submission.FileSubmission    `json:"registration_submission,omitempty"`
	Decision                             *submission.RegulatorDecision `json:"decision,omitempty"`
}

// RegistrationDetailsQuery selects one registration application.
type RegistrationDetailsQuery struct {
	OrganisationID     uuid.UUID
	PeriodLabel        string
	ComplianceSchemeID *uuid.UUID
}

// GetRegistrationApplicationDetails fetches the current registration
// submission facts. A backend failure or 404 yields (nil, nil).
func (c *SubmissionClient) GetRegistrationApplicationDetails(ctx context.Context, q RegistrationDetailsQuery) (*RegistrationDetails, error) {
	path := fmt.Sprintf("/v1/registrations?organisationId=%s&period=%s",
		q.OrganisationID, url.QueryEscape(q.PeriodLabel))
	if q.ComplianceSchemeID != nil {
		path += "&complianceSchemeId=" + q.ComplianceSchemeID.String()
	}

	var out RegistrationDetails
	if err := c.get(ctx, path, &out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("registration details unavailable, treating as no data",
			logging.String("organisation_id", q.OrganisationID.String()),
			logging.Err(err),
		)
		return nil, nil
	}
	return &out, nil
}

// SubmissionEvent records that a file was finally submitted under an
// application reference.
type SubmissionEvent struct {
	SubmissionID               uuid.UUID `json:"submission_id"`
	FileID                     uuid.UUID `json:"file_id"`
	SubmittedBy                string    `json:"submitted_by,omitempty"`
	ApplicationReferenceNumber string    `json:"application_reference_number"`
	IsResubmission             bool      `json:"is_resubmission"`
	PaymentMethod              string    `json:"payment_method,omitempty"`
}

// RecordSubmissionEvent posts a submission event. Failures propagate: the
// event is part of the audit trail and must not be silently dropped.
func (c *SubmissionClient) RecordSubmissionEvent(ctx context.Context, ev SubmissionEvent) error {
	if ev.SubmissionID == uuid.Nil {
		return errors.Validation("submission id is required")
	}
	if ev.ApplicationReferenceNumber == "" {
		return errors.Validation("application reference number is required")
	}
	if err := c.post(ctx, fmt.Sprintf("/v1/submissions/%s/events", ev.SubmissionID), ev, nil); err != nil {
		return errors.Wrap(err, errors.ErrCodeSubmissionEventFailed, "failed to record submission event")
	}
	return nil
}

// SubmitRegistrationApplication notifies the submission service that the
// previously uploaded file set should be finally submitted under the given
// reference. Failures propagate.
func (c *SubmissionClient) SubmitRegistrationApplication(ctx context.Context, ev SubmissionEvent) error {
	if ev.SubmissionID == uuid.Nil {
		return errors.Validation("submission id is required")
	}
	if ev.ApplicationReferenceNumber == "" {
		return errors.Validation("application reference number is required")
	}
	if err := c.post(ctx, fmt.Sprintf("/v1/registrations/%s/submit", ev.SubmissionID), ev, nil); err != nil {
		return errors.Wrap(err, errors.ErrCodeSubmissionEventFailed, "failed to submit registration application")
	}
	return nil
}

// ResubmissionDetails is the submission service's per-period view of a
// packaging-data resubmission.
type ResubmissionDetails struct {
	PeriodLabel                string    `json:"period_label"`
	SubmissionID               uuid.UUID `json:"submission_id"`
	IsResubmissionInProgress   bool      `json:"is_resubmission_in_progress"`
	IsResubmissionComplete     bool      `json:"is_resubmission_complete"`
	ApplicationReferenceNumber string    `json:"application_reference_number"`
	RegistrationFee            float64   `json:"registration_fee"`
	PreviousPayment            float64   `json:"previous_payment"`
	OutstandingPayment         float64   `json:"outstanding_payment"`
}

// GetResubmissionDetails fans a single query out across several submission
// periods. A nil backend result becomes an empty slice; a non-nil result is
// returned unmodified. Failures and 404 yield the empty slice.
func (c *SubmissionClient) GetResubmissionDetails(ctx context.Context, organisationID uuid.UUID, periodLabels []string, complianceSchemeID *uuid.UUID) ([]ResubmissionDetails, error) {
	path := fmt.Sprintf("/v1/resubmissions?organisationId=%s&periods=%s",
		organisationID, url.QueryEscape(strings.Join(periodLabels, ",")))
	if complianceSchemeID != nil {
		path += "&complianceSchemeId=" + complianceSchemeID.String()
	}

	var out []ResubmissionDetails
	if err := c.get(ctx, path, &out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("resubmission details unavailable, treating as no data",
			logging.String("organisation_id", organisationID.String()),
			logging.Err(err),
		)
		return []ResubmissionDetails{}, nil
	}
	if out == nil {
		out = []ResubmissionDetails{}
	}
	return out, nil
}
