package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/txnbuild"

	"github.com/saif727/stellar-token-issuer/internal/credentials"
	"github.com/saif727/stellar-token-issuer/internal/ledger"
	"github.com/saif727/stellar-token-issuer/internal/reserve"
	"github.com/saif727/stellar-token-issuer/internal/submitter"
	"github.com/saif727/stellar-token-issuer/models"
)

// MaxSupply is the largest whole amount the ledger can hold in one balance.
const MaxSupply int64 = 922_337_203_685

const maxHomeDomainLength = 32

var supplyPattern = regexp.MustCompile(`^[0-9]+$`)

const (
	StepConfigureIssuer      = "configure_issuer"
	StepConfigureOperational = "configure_operational"
	StepEstablishTrustLine   = "establish_trust_line"
	StepAuthorizeTrustLine   = "authorize_trust_line"
	StepIssueTokens          = "issue_tokens"
)

// TransactionSubmitter submits one operation until it is confirmed.
type TransactionSubmitter interface {
	Submit(ctx context.Context, op ledger.Operation, signer ledger.Account) (*submitter.Outcome, error)
}

// ReserveGate checks the participants' native balances.
type ReserveGate interface {
	CheckAll(ctx context.Context, addresses ...string) ([]reserve.Balance, error)
}

// PlannedStep is a workflow step with the operation it submits.
type PlannedStep struct {
	Name      string
	Operation ledger.Operation
	Signer    ledger.Account
	Start     string
	Success   string
	Failure   string
}

// IssuanceService configures the issuer and operational accounts and issues the
// total supply to the operational account.
type IssuanceService struct {
	submitter        TransactionSubmitter
	gate             ReserveGate
	wallets          *credentials.Wallets
	issuerFlags      []txnbuild.AccountFlag
	operationalFlags []txnbuild.AccountFlag
}

// NewIssuanceService creates a new IssuanceService instance
func NewIssuanceService(sub TransactionSubmitter, gate ReserveGate, wallets *credentials.Wallets, issuerFlags, operationalFlags []txnbuild.AccountFlag) *IssuanceService {
	return &IssuanceService{
		submitter:        sub,
		gate:             gate,
		wallets:          wallets,
		issuerFlags:      issuerFlags,
		operationalFlags: operationalFlags,
	}
}

// ParseSupply validates a total supply entered as text: a positive whole number
// written in plain digits that the ledger can represent.
func ParseSupply(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !supplyPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: total supply %q must be a positive whole number", ledger.ErrInvalidInput, s)
	}
	supply, err := strconv.ParseInt(s, 10, 64)
	if err != nil || supply > MaxSupply {
		return 0, fmt.Errorf("%w: total supply cannot exceed %d", ledger.ErrInvalidInput, MaxSupply)
	}
	if supply <= 0 {
		return 0, fmt.Errorf("%w: total supply must be a positive whole number", ledger.ErrInvalidInput)
	}
	return supply, nil
}

// FormatSupply renders the supply exactly as the ledger receives it.
func FormatSupply(supply int64) string {
	return strconv.FormatInt(supply, 10)
}

func validateRequest(req models.IssuanceRequest) error {
	if req.TotalSupply <= 0 || req.TotalSupply > MaxSupply {
		return fmt.Errorf("%w: total supply must be between 1 and %d", ledger.ErrInvalidInput, MaxSupply)
	}
	_, err := ValidateDomain(req.Domain)
	return err
}

// ValidateDomain trims the issuing domain and checks it fits the account's home
// domain field.
func ValidateDomain(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" || len(domain) > maxHomeDomainLength {
		return "", fmt.Errorf("%w: issuing domain must be 1-%d characters", ledger.ErrInvalidInput, maxHomeDomainLength)
	}
	return domain, nil
}

// Plan builds the ordered steps for req without touching the ledger.
func (s *IssuanceService) Plan(req models.IssuanceRequest) (ledger.Asset, []PlannedStep, error) {
	if err := validateRequest(req); err != nil {
		return ledger.Asset{}, nil, err
	}

	cold, hot := s.wallets.Cold, s.wallets.Hot
	asset, err := ledger.NewAsset(req.CurrencyCode, cold.Address)
	if err != nil {
		return ledger.Asset{}, nil, err
	}
	supply := FormatSupply(req.TotalSupply)

	steps := []PlannedStep{
		{
			Name: StepConfigureIssuer,
			Operation: ledger.AccountSettings{
				Account:    cold.Address,
				SetFlags:   s.issuerFlags,
				HomeDomain: strings.TrimSpace(req.Domain),
			},
			Signer:  cold,
			Start:   "Configuring cold wallet as the issuer...",
			Success: "Issuer wallet successfully configured.",
			Failure: "Failed to configure issuer wallet.",
		},
		{
			Name:      StepConfigureOperational,
			Operation: ledger.AccountSettings{Account: hot.Address, SetFlags: s.operationalFlags},
			Signer:    hot,
			Start:     "Configuring hot wallet settings...",
			Success:   "Hot wallet successfully configured.",
			Failure:   "Failed to configure hot wallet.",
		},
		{
			Name:      StepEstablishTrustLine,
			Operation: ledger.TrustLine{Account: hot.Address, Asset: asset, Limit: supply},
			Signer:    hot,
			Start:     "Establishing trustline between hot and cold wallet...",
			Success:   "Trustline successfully established.",
			Failure:   "Trustline creation failed.",
		},
	}

	if ledger.HasFlag(s.issuerFlags, txnbuild.AuthRequired) {
		steps = append(steps, PlannedStep{
			Name:      StepAuthorizeTrustLine,
			Operation: ledger.TrustLineAuthorization{Asset: asset, Trustor: hot.Address},
			Signer:    cold,
			Start:     "Authorizing hot wallet trustline...",
			Success:   "Trustline authorized.",
			Failure:   "Trustline authorization failed.",
		})
	}

	steps = append(steps, PlannedStep{
		Name:      StepIssueTokens,
		Operation: ledger.Payment{Account: cold.Address, Destination: hot.Address, Asset: asset, Amount: supply},
		Signer:    cold,
		Start:     fmt.Sprintf("Issuing %s %s tokens...", supply, asset.Code),
		Success:   fmt.Sprintf("Successfully issued %s %s tokens.", supply, asset.Code),
		Failure:   "Token issuance failed after multiple attempts.",
	})

	return asset, steps, nil
}

// Issue checks both reserves, then runs every step in order. The first failed step
// stops the workflow; confirmed steps are not undone and the report lists them so
// the operator can re-run.
func (s *IssuanceService) Issue(ctx context.Context, req models.IssuanceRequest) (*models.IssuanceResponse, error) {
	asset, steps, err := s.Plan(req)
	if err != nil {
		return nil, err
	}

	report := &models.IssuanceResponse{
		Asset:  asset.String(),
		Supply: FormatSupply(req.TotalSupply),
		Steps:  []models.StepResult{},
	}

	if _, err := s.gate.CheckAll(ctx, s.wallets.Cold.Address, s.wallets.Hot.Address); err != nil {
		logrus.Error("⚠️ Wallets are underfunded or unreachable. Fund each wallet with at least the minimum reserve.")
		report.Error = err.Error()
		return report, err
	}

	for _, step := range steps {
		log := logrus.WithField("step", step.Name)
		log.Info(step.Start)

		outcome, err := s.submitter.Submit(ctx, step.Operation, step.Signer)
		if err != nil {
			log.Errorf("❌ %s", step.Failure)
			report.FailedStep = step.Name
			report.Error = err.Error()
			return report, errors.Wrapf(err, "%s failed", step.Name)
		}

		log.Infof("✅ %s", step.Success)
		report.Steps = append(report.Steps, models.StepResult{
			Step:     step.Name,
			Hash:     outcome.Hash,
			Ledger:   outcome.Ledger,
			Attempts: outcome.Attempt,
		})
	}

	report.Completed = true
	logrus.Info("🎉 Token creation process completed successfully!")
	return report, nil
}
