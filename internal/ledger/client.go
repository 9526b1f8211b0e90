package ledger

import (
	"net/http"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
)

// Client is the subset of the Horizon client the issuer relies on.
// *horizonclient.Client and *horizonclient.MockClient both satisfy it.
type Client interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
	SubmitTransaction(transaction *txnbuild.Transaction) (horizon.Transaction, error)
}

// NewClient returns a Horizon client for the network. SubmitTransaction blocks until
// the transaction is included in a closed ledger or Horizon gives up waiting.
func NewClient(n Network, timeout time.Duration) *horizonclient.Client {
	client := &horizonclient.Client{
		HorizonURL: n.URL,
		HTTP:       &http.Client{Timeout: timeout},
		AppName:    "stellar-token-issuer",
	}
	return client
}
