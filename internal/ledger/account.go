package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
)

// Account is a signing identity as persisted in the wallets file.
type Account struct {
	Address    string `json:"address"`
	Seed       string `json:"seed"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// NewAccount expands a full keypair into every representation the wallets file keeps.
func NewAccount(kp *keypair.Full) (Account, error) {
	rawSeed, err := strkey.Decode(strkey.VersionByteSeed, kp.Seed())
	if err != nil {
		return Account{}, errors.Wrap(err, "failed to decode seed")
	}

	privateKey := ed25519.NewKeyFromSeed(rawSeed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	return Account{
		Address:    kp.Address(),
		Seed:       kp.Seed(),
		PublicKey:  hex.EncodeToString(publicKey),
		PrivateKey: hex.EncodeToString(privateKey),
	}, nil
}

// RandomAccount generates a fresh identity. The account does not exist on the
// ledger until it is funded.
func RandomAccount() (Account, error) {
	kp, err := keypair.Random()
	if err != nil {
		return Account{}, errors.Wrap(err, "failed to generate keypair")
	}
	return NewAccount(kp)
}

// Keypair rebuilds the signing keypair from the seed, or from the private key when
// no seed was stored, and checks it against the stored address and public key.
func (a Account) Keypair() (*keypair.Full, error) {
	var (
		kp  *keypair.Full
		err error
	)

	switch {
	case a.Seed != "":
		kp, err = keypair.ParseFull(a.Seed)
		if err != nil {
			return nil, errors.Wrap(err, "invalid seed")
		}
	case a.PrivateKey != "":
		raw, decodeErr := hex.DecodeString(a.PrivateKey)
		if decodeErr != nil {
			return nil, errors.Wrap(decodeErr, "invalid private key")
		}
		if len(raw) != ed25519.PrivateKeySize && len(raw) != ed25519.SeedSize {
			return nil, fmt.Errorf("invalid private key length %d", len(raw))
		}
		var seed [32]byte
		copy(seed[:], raw[:ed25519.SeedSize])
		kp, err = keypair.FromRawSeed(seed)
		if err != nil {
			return nil, errors.Wrap(err, "invalid private key")
		}
	default:
		return nil, errors.New("account has neither seed nor private key")
	}

	if a.Address != "" && kp.Address() != a.Address {
		return nil, fmt.Errorf("address %s does not match key material (%s)", a.Address, kp.Address())
	}

	if a.PublicKey != "" {
		raw, err := strkey.Decode(strkey.VersionByteAccountID, kp.Address())
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode address")
		}
		if hex.EncodeToString(raw) != a.PublicKey {
			return nil, fmt.Errorf("public key does not match address %s", kp.Address())
		}
	}

	return kp, nil
}

// Complete fills in any representation missing from a partially stored account.
func (a Account) Complete() (Account, error) {
	kp, err := a.Keypair()
	if err != nil {
		return Account{}, err
	}
	return NewAccount(kp)
}
