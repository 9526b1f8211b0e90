package ledger

import (
	"fmt"
	"strings"

	"github.com/stellar/go/network"
)

const (
	Testnet = "testnet"
	Mainnet = "mainnet"

	DefaultTestnetURL   = "https://horizon-testnet.stellar.org"
	DefaultMainnetURL   = "https://horizon.stellar.org"
	DefaultFriendbotURL = "https://friendbot.stellar.org"
)

// Network identifies the ledger the tool talks to.
type Network struct {
	Name       string
	URL        string
	Passphrase string
}

// IsTestnet reports whether accounts on this network can be funded by the faucet.
func (n Network) IsTestnet() bool {
	return n.Name == Testnet
}

// NormalizeNetwork lower-cases and validates a network name.
func NormalizeNetwork(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case Testnet, Mainnet:
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// ResolveNetwork maps a network name to its endpoint. Empty URLs fall back to the
// public Horizon instances.
func ResolveNetwork(name, testnetURL, mainnetURL string) (Network, error) {
	name, err := NormalizeNetwork(name)
	if err != nil {
		return Network{}, err
	}

	if name == Testnet {
		if testnetURL == "" {
			testnetURL = DefaultTestnetURL
		}
		return Network{Name: Testnet, URL: testnetURL, Passphrase: network.TestNetworkPassphrase}, nil
	}

	if mainnetURL == "" {
		mainnetURL = DefaultMainnetURL
	}
	return Network{Name: Mainnet, URL: mainnetURL, Passphrase: network.PublicNetworkPassphrase}, nil
}
