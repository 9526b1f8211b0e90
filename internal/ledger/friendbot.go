package ledger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"
)

// Faucet creates and funds accounts on test networks.
type Faucet interface {
	Fund(ctx context.Context, address string) error
}

// Funder is the part of the Horizon client that asks Friendbot for funds.
type Funder interface {
	Fund(addr string) (horizon.Transaction, error)
}

// Friendbot is the testnet faucet. It creates the account with a starting balance
// well above the minimum reserve. The public Friendbot is reached through Horizon;
// a custom URL is called directly.
type Friendbot struct {
	URL     string
	HTTP    *http.Client
	Horizon Funder
}

// NewFriendbot returns a faucet for rawURL. An empty URL or the public Friendbot
// URL uses the Horizon testnet client.
func NewFriendbot(rawURL string, timeout time.Duration) *Friendbot {
	if rawURL == "" || rawURL == DefaultFriendbotURL {
		return &Friendbot{URL: DefaultFriendbotURL, Horizon: horizonclient.DefaultTestNetClient}
	}
	return &Friendbot{URL: rawURL, HTTP: &http.Client{Timeout: timeout}}
}

// Fund creates and funds address on the test network.
func (f *Friendbot) Fund(ctx context.Context, address string) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}

	if f.Horizon != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := f.Horizon.Fund(address); err != nil {
			return errors.Wrap(err, "friendbot request failed")
		}
		return nil
	}

	endpoint, err := url.Parse(f.URL)
	if err != nil {
		return errors.Wrap(err, "invalid friendbot url")
	}
	query := endpoint.Query()
	query.Set("addr", address)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}

	resp, err := f.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "friendbot request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("friendbot returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
