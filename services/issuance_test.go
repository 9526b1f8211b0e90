package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saif727/stellar-token-issuer/internal/credentials"
	"github.com/saif727/stellar-token-issuer/internal/ledger"
	"github.com/saif727/stellar-token-issuer/internal/reserve"
	"github.com/saif727/stellar-token-issuer/internal/submitter"
	"github.com/saif727/stellar-token-issuer/models"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, op ledger.Operation, signer ledger.Account) (*submitter.Outcome, error) {
	args := m.Called(op, signer)
	outcome, _ := args.Get(0).(*submitter.Outcome)
	return outcome, args.Error(1)
}

type mockGate struct {
	mock.Mock
}

func (m *mockGate) CheckAll(ctx context.Context, addresses ...string) ([]reserve.Balance, error) {
	args := m.Called(addresses)
	balances, _ := args.Get(0).([]reserve.Balance)
	return balances, args.Error(1)
}

func newTestWallets(t *testing.T) *credentials.Wallets {
	t.Helper()
	cold, err := ledger.NewAccount(keypair.MustRandom())
	require.NoError(t, err)
	hot, err := ledger.NewAccount(keypair.MustRandom())
	require.NoError(t, err)
	return &credentials.Wallets{Cold: cold, Hot: hot}
}

func confirmed(hash string) *submitter.Outcome {
	return &submitter.Outcome{Kind: submitter.Confirmed, Hash: hash, Ledger: 100, Attempt: 1}
}

func TestParseSupply(t *testing.T) {
	supply, err := ParseSupply(" 1000000 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), supply)

	supply, err = ParseSupply("922337203685")
	require.NoError(t, err)
	assert.Equal(t, MaxSupply, supply)

	supply, err = ParseSupply("007")
	require.NoError(t, err)
	assert.Equal(t, int64(7), supply)

	for _, input := range []string{"", "abc", "0", "-5", "10.5", "922337203686", "1e3", "1000.0", "+5", "1 000", "99999999999999999999"} {
		_, err := ParseSupply(input)
		assert.True(t, errors.Is(err, ledger.ErrInvalidInput), input)
	}
}

func TestPlanAmountsAreExact(t *testing.T) {
	wallets := newTestWallets(t)
	svc := NewIssuanceService(nil, nil, wallets, nil, nil)

	for _, supply := range []int64{1, 1000, 1_000_000, 123456789012, MaxSupply} {
		t.Run(fmt.Sprint(supply), func(t *testing.T) {
			_, steps, err := svc.Plan(models.IssuanceRequest{CurrencyCode: "kkh", TotalSupply: supply, Domain: "kryptokush.org"})
			require.NoError(t, err)

			last := steps[len(steps)-1]
			assert.Equal(t, StepIssueTokens, last.Name)
			payment, ok := last.Operation.(ledger.Payment)
			require.True(t, ok)
			assert.Equal(t, fmt.Sprint(supply), payment.Amount)
			assert.Equal(t, "KKH", payment.Asset.Code)

			op, err := payment.Build()
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprint(supply), op.(*txnbuild.Payment).Amount)

			trust, ok := steps[2].Operation.(ledger.TrustLine)
			require.True(t, ok)
			assert.Equal(t, fmt.Sprint(supply), trust.Limit)
		})
	}
}

func TestPlanOrderAndSigners(t *testing.T) {
	wallets := newTestWallets(t)
	svc := NewIssuanceService(nil, nil, wallets, []txnbuild.AccountFlag{txnbuild.AuthRequired, txnbuild.AuthRevocable}, nil)

	asset, steps, err := svc.Plan(models.IssuanceRequest{CurrencyCode: "KKH", TotalSupply: 500, Domain: "kryptokush.org"})
	require.NoError(t, err)
	assert.Equal(t, wallets.Cold.Address, asset.Issuer)

	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Name)
		assert.Equal(t, step.Operation.Source(), step.Signer.Address, step.Name)
	}
	assert.Equal(t, []string{
		StepConfigureIssuer,
		StepConfigureOperational,
		StepEstablishTrustLine,
		StepAuthorizeTrustLine,
		StepIssueTokens,
	}, names)

	settings := steps[0].Operation.(ledger.AccountSettings)
	assert.Equal(t, "kryptokush.org", settings.HomeDomain)
}

func TestPlanRejectsInvalidRequests(t *testing.T) {
	svc := NewIssuanceService(nil, nil, newTestWallets(t), nil, nil)

	tests := []models.IssuanceRequest{
		{CurrencyCode: "KKH", TotalSupply: 0, Domain: "kryptokush.org"},
		{CurrencyCode: "KKH", TotalSupply: MaxSupply + 1, Domain: "kryptokush.org"},
		{CurrencyCode: "", TotalSupply: 10, Domain: "kryptokush.org"},
		{CurrencyCode: "KKH", TotalSupply: 10, Domain: ""},
		{CurrencyCode: "KKH", TotalSupply: 10, Domain: "a-domain-name-that-is-far-too-long.example.org"},
	}
	for _, req := range tests {
		_, _, err := svc.Plan(req)
		assert.True(t, errors.Is(err, ledger.ErrInvalidInput), "%+v", req)
	}
}

func TestIssueRunsAllSteps(t *testing.T) {
	wallets := newTestWallets(t)
	gate := &mockGate{}
	gate.On("CheckAll", []string{wallets.Cold.Address, wallets.Hot.Address}).Return([]reserve.Balance{}, nil)
	sub := &mockSubmitter{}
	sub.On("Submit", mock.Anything, mock.Anything).Return(confirmed("hash"), nil)

	svc := NewIssuanceService(sub, gate, wallets, []txnbuild.AccountFlag{txnbuild.AuthRevocable}, nil)
	report, err := svc.Issue(context.Background(), models.IssuanceRequest{CurrencyCode: "KKH", TotalSupply: 1000, Domain: "kryptokush.org"})
	require.NoError(t, err)

	assert.True(t, report.Completed)
	assert.Equal(t, "1000", report.Supply)
	assert.Len(t, report.Steps, 4)
	sub.AssertNumberOfCalls(t, "Submit", 4)
	gate.AssertExpectations(t)
}

func TestIssueAbortsBeforeSubmittingWhenUnderfunded(t *testing.T) {
	wallets := newTestWallets(t)
	gate := &mockGate{}
	gate.On("CheckAll", mock.Anything).Return(nil, fmt.Errorf("%w: hot", ledger.ErrInsufficientReserve))
	sub := &mockSubmitter{}

	svc := NewIssuanceService(sub, gate, wallets, nil, nil)
	report, err := svc.Issue(context.Background(), models.IssuanceRequest{CurrencyCode: "KKH", TotalSupply: 1000, Domain: "kryptokush.org"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrInsufficientReserve))
	assert.False(t, report.Completed)
	assert.Empty(t, report.Steps)
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestIssueStopsAtFailedStep(t *testing.T) {
	wallets := newTestWallets(t)
	gate := &mockGate{}
	gate.On("CheckAll", mock.Anything).Return([]reserve.Balance{}, nil)

	sub := &mockSubmitter{}
	sub.On("Submit", mock.AnythingOfType("ledger.AccountSettings"), mock.Anything).Return(confirmed("settings"), nil)
	sub.On("Submit", mock.AnythingOfType("ledger.TrustLine"), mock.Anything).
		Return(nil, &submitter.ExhaustedError{Attempts: 3, Last: submitter.Outcome{Kind: submitter.Rejected, ResultCode: "tx_failed", Err: errors.New("tx_failed")}})

	svc := NewIssuanceService(sub, gate, wallets, nil, nil)
	report, err := svc.Issue(context.Background(), models.IssuanceRequest{CurrencyCode: "KKH", TotalSupply: 1000, Domain: "kryptokush.org"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrSubmissionExhausted))

	assert.False(t, report.Completed)
	assert.Equal(t, StepEstablishTrustLine, report.FailedStep)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, StepConfigureIssuer, report.Steps[0].Step)
	assert.Equal(t, StepConfigureOperational, report.Steps[1].Step)
	sub.AssertNotCalled(t, "Submit", mock.AnythingOfType("ledger.Payment"), mock.Anything)
}
