package reserve

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/amount"
	"github.com/stellar/go/clients/horizonclient"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

// DefaultMinimum is 20 native units in stroops (1 unit = 10^7 stroops).
const DefaultMinimum int64 = 20 * 10_000_000

// Balance is an account's native balance in stroops.
type Balance struct {
	Address string
	Stroops int64
}

// String renders the balance in native units with seven decimals.
func (b Balance) String() string {
	return decimal.New(b.Stroops, -7).StringFixed(7)
}

// Gate refuses to let issuance start until every participant holds the minimum reserve.
type Gate struct {
	client  ledger.Client
	minimum int64
}

// NewGate returns a Gate requiring minimum stroops per account.
func NewGate(client ledger.Client, minimum int64) *Gate {
	if minimum <= 0 {
		minimum = DefaultMinimum
	}
	return &Gate{client: client, minimum: minimum}
}

// Minimum returns the reserve threshold in stroops.
func (g *Gate) Minimum() int64 {
	return g.minimum
}

// Balance reads the account's native balance from the latest validated ledger.
// Lookup failures are not retried: a missing account means setup is incomplete.
func (g *Gate) Balance(ctx context.Context, address string) (Balance, error) {
	if err := ctx.Err(); err != nil {
		return Balance{}, err
	}

	account, err := g.client.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return Balance{}, fmt.Errorf("%w: account %s does not exist on the ledger", ledger.ErrBalanceQuery, address)
		}
		return Balance{}, fmt.Errorf("%w: %s: %v", ledger.ErrBalanceQuery, address, err)
	}

	native, err := account.GetNativeBalance()
	if err != nil {
		return Balance{}, fmt.Errorf("%w: %s: %v", ledger.ErrBalanceQuery, address, err)
	}

	stroops, err := amount.ParseInt64(native)
	if err != nil {
		return Balance{}, fmt.Errorf("%w: unparseable balance %q for %s", ledger.ErrBalanceQuery, native, address)
	}

	return Balance{Address: address, Stroops: stroops}, nil
}

// CheckSufficientReserve returns the balance when it is at least the minimum.
func (g *Gate) CheckSufficientReserve(ctx context.Context, address string) (Balance, error) {
	balance, err := g.Balance(ctx, address)
	if err != nil {
		return Balance{}, err
	}

	if balance.Stroops < g.minimum {
		return balance, fmt.Errorf("%w: %s holds %s, needs at least %s",
			ledger.ErrInsufficientReserve, address, balance, Balance{Stroops: g.minimum})
	}
	return balance, nil
}

// CheckAll checks every address before any of them is used, stopping at the first failure.
func (g *Gate) CheckAll(ctx context.Context, addresses ...string) ([]Balance, error) {
	balances := make([]Balance, 0, len(addresses))
	for _, address := range addresses {
		balance, err := g.CheckSufficientReserve(ctx, address)
		if err != nil {
			logrus.WithField("account", address).Errorf("❌ %v", err)
			return balances, err
		}
		logrus.WithField("account", address).Infof("✅ Balance %s meets the reserve", balance)
		balances = append(balances, balance)
	}
	return balances, nil
}
