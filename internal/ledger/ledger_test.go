package ledger

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNetwork(t *testing.T) {
	n, err := ResolveNetwork(" TestNet ", "", "")
	require.NoError(t, err)
	assert.Equal(t, Testnet, n.Name)
	assert.Equal(t, DefaultTestnetURL, n.URL)
	assert.Equal(t, network.TestNetworkPassphrase, n.Passphrase)
	assert.True(t, n.IsTestnet())

	n, err = ResolveNetwork("mainnet", "", "https://horizon.internal:8000")
	require.NoError(t, err)
	assert.Equal(t, "https://horizon.internal:8000", n.URL)
	assert.Equal(t, network.PublicNetworkPassphrase, n.Passphrase)
	assert.False(t, n.IsTestnet())

	_, err = ResolveNetwork("devnet", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNetwork))
}

func TestAccountKeypairRoundTrip(t *testing.T) {
	kp := keypair.MustRandom()
	account, err := NewAccount(kp)
	require.NoError(t, err)

	assert.Equal(t, kp.Address(), account.Address)
	assert.Len(t, account.PublicKey, 64)
	assert.Len(t, account.PrivateKey, 128)

	fromSeed, err := Account{Address: account.Address, Seed: account.Seed}.Keypair()
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), fromSeed.Address())

	fromKeys, err := Account{PublicKey: account.PublicKey, PrivateKey: account.PrivateKey}.Keypair()
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), fromKeys.Address())
}

func TestAccountKeypairMismatch(t *testing.T) {
	account, err := NewAccount(keypair.MustRandom())
	require.NoError(t, err)
	other, err := NewAccount(keypair.MustRandom())
	require.NoError(t, err)

	_, err = Account{Address: other.Address, Seed: account.Seed}.Keypair()
	assert.Error(t, err)

	_, err = Account{PublicKey: other.PublicKey, Seed: account.Seed}.Keypair()
	assert.Error(t, err)

	_, err = Account{Address: account.Address}.Keypair()
	assert.Error(t, err)
}

func TestNewAsset(t *testing.T) {
	issuer := keypair.MustRandom().Address()

	asset, err := NewAsset(" kkh ", issuer)
	require.NoError(t, err)
	assert.Equal(t, "KKH", asset.Code)
	assert.Equal(t, "KKH:"+issuer, asset.String())

	for _, code := range []string{"", "TOOLONGCODE13", "K-H"} {
		_, err = NewAsset(code, issuer)
		assert.True(t, errors.Is(err, ErrInvalidInput), code)
	}

	_, err = NewAsset("KKH", "not-an-address")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestOperationsBuild(t *testing.T) {
	issuer := keypair.MustRandom().Address()
	holder := keypair.MustRandom().Address()
	asset, err := NewAsset("KKH", issuer)
	require.NoError(t, err)

	settings := AccountSettings{Account: issuer, SetFlags: []txnbuild.AccountFlag{txnbuild.AuthRevocable}, HomeDomain: "kryptokush.org"}
	op, err := settings.Build()
	require.NoError(t, err)
	setOptions, ok := op.(*txnbuild.SetOptions)
	require.True(t, ok)
	require.NotNil(t, setOptions.HomeDomain)
	assert.Equal(t, "kryptokush.org", *setOptions.HomeDomain)
	assert.Equal(t, issuer, settings.Source())

	trust := TrustLine{Account: holder, Asset: asset, Limit: "1000000"}
	op, err = trust.Build()
	require.NoError(t, err)
	changeTrust, ok := op.(*txnbuild.ChangeTrust)
	require.True(t, ok)
	assert.Equal(t, "1000000", changeTrust.Limit)
	assert.Equal(t, holder, trust.Source())

	payment := Payment{Account: issuer, Destination: holder, Asset: asset, Amount: "1000000"}
	op, err = payment.Build()
	require.NoError(t, err)
	pay, ok := op.(*txnbuild.Payment)
	require.True(t, ok)
	assert.Equal(t, "1000000", pay.Amount)
	assert.Equal(t, holder, pay.Destination)

	auth := TrustLineAuthorization{Asset: asset, Trustor: holder}
	assert.Equal(t, issuer, auth.Source())
	op, err = auth.Build()
	require.NoError(t, err)
	flags, ok := op.(*txnbuild.SetTrustLineFlags)
	require.True(t, ok)
	assert.Equal(t, holder, flags.Trustor)

	_, err = Payment{Account: issuer, Destination: holder, Asset: asset, Amount: "0"}.Build()
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = TrustLine{Account: holder, Asset: asset, Limit: "abc"}.Build()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParseAccountFlags(t *testing.T) {
	flags, err := ParseAccountFlags([]string{"AUTH_REQUIRED", " auth_revocable", ""})
	require.NoError(t, err)
	assert.Equal(t, []txnbuild.AccountFlag{txnbuild.AuthRequired, txnbuild.AuthRevocable}, flags)
	assert.True(t, HasFlag(flags, txnbuild.AuthRequired))
	assert.False(t, HasFlag(flags, txnbuild.AuthImmutable))

	_, err = ParseAccountFlags([]string{"default_ripple"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFriendbotFund(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	address := keypair.MustRandom().Address()
	httpmock.RegisterResponderWithQuery(http.MethodGet, "https://friendbot.example.org/",
		map[string]string{"addr": address},
		httpmock.NewStringResponder(200, `{"successful": true}`))

	bot := NewFriendbot("https://friendbot.example.org/", time.Second)
	require.NoError(t, bot.Fund(context.Background(), address))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	assert.True(t, errors.Is(bot.Fund(context.Background(), "bogus"), ErrInvalidInput))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestFriendbotUsesHorizonForPublicFaucet(t *testing.T) {
	assert.Same(t, horizonclient.DefaultTestNetClient, NewFriendbot("", time.Second).Horizon)
	assert.Same(t, horizonclient.DefaultTestNetClient, NewFriendbot(DefaultFriendbotURL, time.Second).Horizon)
	assert.Nil(t, NewFriendbot("https://friendbot.example.org/", time.Second).Horizon)

	address := keypair.MustRandom().Address()
	hmock := &horizonclient.MockClient{}
	hmock.On("Fund", address).Return(horizon.Transaction{Successful: true}, nil).Once()
	hmock.On("Fund", address).Return(horizon.Transaction{}, errors.New("account already funded")).Once()

	bot := &Friendbot{URL: DefaultFriendbotURL, Horizon: hmock}
	require.NoError(t, bot.Fund(context.Background(), address))
	assert.ErrorContains(t, bot.Fund(context.Background(), address), "already funded")
	hmock.AssertExpectations(t)
}
