package backend

import (
	"context"

	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/config"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/internal/domain/organisation"
	"github.com/eprcore/registration-portal/pkg/errors"
)

// PaymentClient talks to the payment-calculation service. Fee lookups
// normalise failures into (nil, nil); payment initiation propagates failures.
type PaymentClient struct {
	*Client
}

// NewPaymentClient constructs a PaymentClient.
func NewPaymentClient(cfg config.BackendConfig, logger logging.Logger) (*PaymentClient, error) {
	c, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &PaymentClient{Client: c}, nil
}

// ProducerFeeRequest asks for the registration fees of a single producer.
type ProducerFeeRequest struct {
	ApplicationReferenceNumber string    `json:"application_reference_number,omitempty"`
	OrganisationID             uuid.UUID `json:"organisation_id"`
	PeriodLabel                string    `json:"period_label"`
	Regulator                  string    `json:"regulator"`
}

// FeeBreakdown is the producer fee-calculation result.
type FeeBreakdown struct {
	RegistrationFee      float64 `json:"registration_fee"`
	OnlineMarketplaceFee float64 `json:"online_marketplace_fee"`
	LateRegistrationFee  float64 `json:"late_registration_fee"`
	SubsidiariesFee      float64 `json:"subsidiaries_fee"`
	TotalFee             float64 `json:"total_fee"`
	PreviousPayment      float64 `json:"previous_payment"`
	OutstandingPayment   float64 `json:"outstanding_payment"`
}

// ProducerRegistrationFees fetches the producer fee breakdown. A backend
// failure or 404 yields (nil, nil): no fee data yet.
func (c *PaymentClient) ProducerRegistrationFees(ctx context.Context, req ProducerFeeRequest) (*FeeBreakdown, error) {
	var out FeeBreakdown
	if err := c.post(ctx, "/v1/producer/registration-fees", req, &out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("producer fee calculation unavailable, treating as no data",
			logging.String("organisation_id", req.OrganisationID.String()),
			logging.Err(err),
		)
		return nil, nil
	}
	return &out, nil
}

// ComplianceSchemeFeeRequest asks for the fees of a compliance scheme and its
// members.
type ComplianceSchemeFeeRequest struct {
	ApplicationReferenceNumber string    `json:"application_reference_number,omitempty"`
	ComplianceSchemeID         uuid.UUID `json:"compliance_scheme_id"`
	PeriodLabel                string    `json:"period_label"`
	Regulator                  string    `json:"regulator"`
}

// MemberFeeBreakdown is one member's share of a scheme fee calculation.
type MemberFeeBreakdown struct {
	MemberID        string  `json:"member_id"`
	MemberType      string  `json:"member_type"`
	RegistrationFee float64 `json:"registration_fee"`
	TotalFee        float64 `json:"total_fee"`
}

// ComplianceSchemeFeeBreakdown is the scheme fee-calculation result:
// per-member breakdowns plus scheme-level totals.
type ComplianceSchemeFeeBreakdown struct {
	Members            []MemberFeeBreakdown `json:"members"`
	SchemeFee          float64              `json:"scheme_fee"`
	TotalFee           float64              `json:"total_fee"`
	PreviousPayment    float64              `json:"previous_payment"`
	OutstandingPayment float64              `json:"outstanding_payment"`
}

// ComplianceSchemeRegistrationFees fetches the scheme fee breakdown. A
// backend failure or 404 yields (nil, nil).
func (c *PaymentClient) ComplianceSchemeRegistrationFees(ctx context.Context, req ComplianceSchemeFeeRequest) (*ComplianceSchemeFeeBreakdown, error) {
	var out ComplianceSchemeFeeBreakdown
	if err := c.post(ctx, "/v1/compliance-scheme/registration-fees", req, &out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("compliance scheme fee calculation unavailable, treating as no data",
			logging.String("compliance_scheme_id", req.ComplianceSchemeID.String()),
			logging.Err(err),
		)
		return nil, nil
	}
	return &out, nil
}

// PaymentRequest initiates an online payment for an outstanding amount.
type PaymentRequest struct {
	UserID         uuid.UUID `json:"user_id"`
	OrganisationID uuid.UUID `json:"organisation_id"`
	Reference      string    `json:"reference"`
	Amount         float64   `json:"amount"`
	Regulator      string    `json:"regulator"`
}

// paymentResponse is the wire shape of a payment initiation result.
type paymentResponse struct {
	PaymentLink string `json:"payment_link"`
}

// InitiatePayment forwards a payment-initiation request and returns the
// opaque payment session link. Failures propagate: the caller must know the
// user was not handed to the payment provider.
func (c *PaymentClient) InitiatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	if req.Reference == "" {
		return "", errors.Validation("payment reference is required")
	}
	if req.Regulator != "" && !organisation.ValidNation(req.Regulator) {
		return "", errors.Validation("regulator nation code not recognised").
			WithDetail("nation=" + req.Regulator)
	}

	var out paymentResponse
	if err := c.post(ctx, "/v1/payments", req, &out); err != nil {
		return "", errors.Wrap(err, errors.ErrCodePaymentInitiationFailed, "failed to initiate payment")
	}
	return out.PaymentLink, nil
}
