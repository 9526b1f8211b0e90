package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

// Wallets holds the two identities the issuer works with.
type Wallets struct {
	Cold ledger.Account `json:"cold_wallet"`
	Hot  ledger.Account `json:"hot_wallet"`
}

// Store persists the issuer (cold) and operational (hot) identities.
type Store interface {
	Exists() bool
	Load() (*Wallets, error)
	Save(w *Wallets) error
}

// FileStore keeps both wallets as plaintext JSON in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the wallets file.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the wallets file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads both wallets and rebuilds their keys. The stored address must match
// the address derived from the key material.
func (s *FileStore) Load() (*Wallets, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: wallet file '%s' not found", ledger.ErrCredentialLoad, s.path)
		}
		return nil, fmt.Errorf("%w: %v", ledger.ErrCredentialLoad, err)
	}
	defer f.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON format in '%s': %v", ledger.ErrCredentialLoad, s.path, err)
	}

	cold, err := decodeAccount(raw, "cold_wallet")
	if err != nil {
		return nil, err
	}
	hot, err := decodeAccount(raw, "hot_wallet")
	if err != nil {
		return nil, err
	}

	logrus.Infof("✅ Cold Wallet Loaded: %s", cold.Address)
	logrus.Infof("✅ Hot Wallet Loaded: %s", hot.Address)
	return &Wallets{Cold: cold, Hot: hot}, nil
}

func decodeAccount(raw map[string]json.RawMessage, key string) (ledger.Account, error) {
	data, ok := raw[key]
	if !ok {
		return ledger.Account{}, fmt.Errorf("%w: missing key %q", ledger.ErrCredentialLoad, key)
	}

	var account ledger.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return ledger.Account{}, fmt.Errorf("%w: %s: %v", ledger.ErrCredentialLoad, key, err)
	}

	complete, err := account.Complete()
	if err != nil {
		return ledger.Account{}, fmt.Errorf("%w: %s: %v", ledger.ErrCredentialLoad, key, err)
	}
	return complete, nil
}

// Save writes the wallets only if the file does not exist yet, so an existing set
// of keys is never overwritten.
func (s *FileStore) Save(w *Wallets) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "failed to create wallet directory")
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return errors.Wrapf(err, "failed to create wallet file '%s'", s.path)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(w); err != nil {
		f.Close()
		os.Remove(s.path)
		return errors.Wrap(err, "failed to write wallets")
	}
	return f.Close()
}

// Provision generates both wallets, funds them through the faucet when one is given
// and saves them. An existing file is loaded instead.
func Provision(ctx context.Context, store Store, faucet ledger.Faucet) (*Wallets, error) {
	if store.Exists() {
		logrus.Info("🔹 Wallets file found. Loading existing wallets...")
		return store.Load()
	}

	logrus.Info("🔹 Wallets not found. Generating wallets...")
	cold, err := ledger.RandomAccount()
	if err != nil {
		return nil, err
	}
	hot, err := ledger.RandomAccount()
	if err != nil {
		return nil, err
	}

	if faucet != nil {
		for _, account := range []ledger.Account{cold, hot} {
			if err := faucet.Fund(ctx, account.Address); err != nil {
				return nil, errors.Wrapf(err, "failed to fund %s", account.Address)
			}
			logrus.Infof("✅ Funded %s from faucet", account.Address)
		}
	} else {
		logrus.Warn("⚠️ No faucet on this network. Deposit at least the minimum reserve in each wallet before issuing.")
	}

	wallets := &Wallets{Cold: cold, Hot: hot}
	if err := store.Save(wallets); err != nil {
		return nil, err
	}

	logrus.Info("✅ Wallets generated and stored")
	return wallets, nil
}
