package resubmission

import (
	"context"

	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/infrastructure/backend"
)

// SessionStore persists resubmission state between requests, keyed by the
// caller's session handle.
type SessionStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}) error
}

// ResubmissionGateway is the slice of the submission service this package
// depends on. The details query never fails into an error for absent data:
// it yields an empty slice.
type ResubmissionGateway interface {
	GetSubmissions(ctx context.Context, q backend.SubmissionDetailsQuery) ([]backend.PeriodSubmissionFacts, error)
	GetResubmissionDetails(ctx context.Context, organisationID uuid.UUID, periodLabels []string, complianceSchemeID *uuid.UUID) ([]backend.ResubmissionDetails, error)
	RecordSubmissionEvent(ctx context.Context, ev backend.SubmissionEvent) error
}

// PaymentGateway hands the user over to the payment provider.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req backend.PaymentRequest) (string, error)
}
