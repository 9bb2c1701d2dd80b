package core

import (
	"context"
	"log/slog"

	atrium "github.com/awrgmu/mixcheckin/atrium/v1"
)

// ExtractionFailureMode controls what happens when the member card HTML
// cannot be parsed: deny the visitor, or surface an error so an operator
// notices.
type ExtractionFailureMode string

const (
	ExtractionDeny  ExtractionFailureMode = "deny"
	ExtractionError ExtractionFailureMode = "error"
)

// CheckInResult is the outcome of one check-in attempt. HTML carries the
// raw upstream payload for the Disallow response; the Allow response omits
// it.
type CheckInResult struct {
	Allowed   bool
	HTML      string
	Name      string
	MemberID  int
	Workshops []TakenWorkshop
}

// CheckInService composes the Atrium lookup, identity extraction, the
// eligibility policy and the ledger into the end-to-end check-in flow.
// It never records attendance; staff trigger that separately.
type CheckInService struct {
	atrium      *atrium.AtriumClient
	ledger      *Ledger
	policy      *Policy
	failureMode ExtractionFailureMode
	logger      *slog.Logger
}

func NewCheckInService(client *atrium.AtriumClient, ledger *Ledger, policy *Policy, failureMode ExtractionFailureMode, logger *slog.Logger) *CheckInService {
	return &CheckInService{
		atrium:      client,
		ledger:      ledger,
		policy:      policy,
		failureMode: failureMode,
		logger:      logger,
	}
}

// CheckIn looks the visitor up on Atrium and decides whether to let them
// in. Upstream failures and undetailed responses degrade to a Disallow
// result carrying whatever raw message was available; only extraction
// failures in "error" mode return a non-nil error.
func (s *CheckInService) CheckIn(ctx context.Context, lookupKey string) (*CheckInResult, error) {
	result, err := s.atrium.Search.ByCard(ctx, lookupKey)
	if err != nil {
		s.logger.Error("atrium lookup failed", "error", err)
		return &CheckInResult{HTML: err.Error()}, nil
	}

	if !result.Detailed {
		return &CheckInResult{HTML: result.Message}, nil
	}

	identity, err := atrium.ExtractIdentity(result.HTML)
	if err != nil {
		s.logger.Error("identity extraction failed", "error", err)
		if s.failureMode == ExtractionError {
			return nil, err
		}
		return &CheckInResult{HTML: result.HTML}, nil
	}

	// Membership bookkeeping happens regardless of the verdict and is
	// best-effort.
	if err := s.ledger.UpsertMember(ctx, identity.MemberID); err != nil {
		s.logger.Warn("non-fatal error upserting member", "member", identity.MemberID, "error", err)
	}

	workshops := s.ledger.ListAttendance(ctx, identity.MemberID)

	if !s.policy.Admit(result.Eligibility.Eligible, result.Eligibility.Code, identity.MemberID) {
		return &CheckInResult{
			HTML:     result.HTML,
			Name:     identity.Name,
			MemberID: identity.MemberID,
		}, nil
	}

	return &CheckInResult{
		Allowed:   true,
		HTML:      result.HTML,
		Name:      identity.Name,
		MemberID:  identity.MemberID,
		Workshops: workshops,
	}, nil
}
