package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/stellar/go/amount"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

var assetCodePattern = regexp.MustCompile(`^[A-Z0-9]{1,12}$`)

// Asset is an issued (non-native) currency.
type Asset struct {
	Code   string `json:"code"`
	Issuer string `json:"issuer"`
}

// NormalizeAssetCode upper-cases code and checks it is 1-12 letters or digits.
func NormalizeAssetCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !assetCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: currency code %q must be 1-12 letters or digits", ErrInvalidInput, code)
	}
	return code, nil
}

// NewAsset upper-cases the code and validates both parts.
func NewAsset(code, issuer string) (Asset, error) {
	code, err := NormalizeAssetCode(code)
	if err != nil {
		return Asset{}, err
	}
	if err := ValidateAddress(issuer); err != nil {
		return Asset{}, err
	}
	return Asset{Code: code, Issuer: issuer}, nil
}

// String renders the asset as CODE:ISSUER.
func (a Asset) String() string {
	return a.Code + ":" + a.Issuer
}

func (a Asset) credit() txnbuild.CreditAsset {
	return txnbuild.CreditAsset{Code: a.Code, Issuer: a.Issuer}
}

// ValidateAddress checks that s is a well-formed account address.
func ValidateAddress(s string) error {
	if _, err := keypair.ParseAddress(s); err != nil {
		return fmt.Errorf("%w: invalid account address %q", ErrInvalidInput, s)
	}
	return nil
}

// ValidateAmount checks that s is a positive amount the ledger can represent exactly.
func ValidateAmount(s string) error {
	v, err := amount.ParseInt64(s)
	if err != nil {
		return fmt.Errorf("%w: amount %q: %v", ErrInvalidInput, s, err)
	}
	if v <= 0 {
		return fmt.Errorf("%w: amount %q must be positive", ErrInvalidInput, s)
	}
	return nil
}

// Operation is an immutable intent to change ledger state on behalf of Source.
type Operation interface {
	Source() string
	Kind() string
	Build() (txnbuild.Operation, error)
}

// AccountSettings sets or clears account flags and optionally the home domain.
type AccountSettings struct {
	Account    string
	SetFlags   []txnbuild.AccountFlag
	ClearFlags []txnbuild.AccountFlag
	HomeDomain string
}

func (o AccountSettings) Source() string { return o.Account }
func (o AccountSettings) Kind() string   { return "account_settings" }

// Build returns a SetOptions operation.
func (o AccountSettings) Build() (txnbuild.Operation, error) {
	op := &txnbuild.SetOptions{
		SetFlags:   o.SetFlags,
		ClearFlags: o.ClearFlags,
	}
	if o.HomeDomain != "" {
		domain := o.HomeDomain
		op.HomeDomain = &domain
	}
	return op, nil
}

// TrustLine lets Account hold Asset up to Limit.
type TrustLine struct {
	Account string
	Asset   Asset
	Limit   string
}

func (o TrustLine) Source() string { return o.Account }
func (o TrustLine) Kind() string   { return "trust_line" }

// Build returns a ChangeTrust operation limited to Limit.
func (o TrustLine) Build() (txnbuild.Operation, error) {
	if err := ValidateAmount(o.Limit); err != nil {
		return nil, err
	}
	line, err := o.Asset.credit().ToChangeTrustAsset()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create trustline asset")
	}
	return &txnbuild.ChangeTrust{Line: line, Limit: o.Limit}, nil
}

// TrustLineAuthorization lets the issuer authorize Trustor's trust line for Asset.
type TrustLineAuthorization struct {
	Asset   Asset
	Trustor string
}

func (o TrustLineAuthorization) Source() string { return o.Asset.Issuer }
func (o TrustLineAuthorization) Kind() string   { return "trust_line_authorization" }

// Build returns a SetTrustLineFlags operation authorizing the trustor.
func (o TrustLineAuthorization) Build() (txnbuild.Operation, error) {
	return &txnbuild.SetTrustLineFlags{
		Trustor:  o.Trustor,
		Asset:    o.Asset.credit(),
		SetFlags: []txnbuild.TrustLineFlag{txnbuild.TrustLineAuthorized},
	}, nil
}

// Payment moves Amount of Asset from Account to Destination. When Account is the
// issuer the payment creates new units.
type Payment struct {
	Account     string
	Destination string
	Asset       Asset
	Amount      string
}

func (o Payment) Source() string { return o.Account }
func (o Payment) Kind() string   { return "payment" }

// Build returns a Payment operation.
func (o Payment) Build() (txnbuild.Operation, error) {
	if err := ValidateAmount(o.Amount); err != nil {
		return nil, err
	}
	return &txnbuild.Payment{
		Destination: o.Destination,
		Amount:      o.Amount,
		Asset:       o.Asset.credit(),
	}, nil
}

var accountFlags = map[string]txnbuild.AccountFlag{
	"auth_required":         txnbuild.AuthRequired,
	"auth_revocable":        txnbuild.AuthRevocable,
	"auth_immutable":        txnbuild.AuthImmutable,
	"auth_clawback_enabled": txnbuild.AuthClawbackEnabled,
}

// ParseAccountFlags maps configured flag names to ledger account flags.
func ParseAccountFlags(names []string) ([]txnbuild.AccountFlag, error) {
	flags := make([]txnbuild.AccountFlag, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		flag, ok := accountFlags[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown account flag %q", ErrInvalidInput, name)
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

// HasFlag reports whether flags contains flag.
func HasFlag(flags []txnbuild.AccountFlag, flag txnbuild.AccountFlag) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
