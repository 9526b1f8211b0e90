package credentials

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

func newWallets(t *testing.T) *Wallets {
	t.Helper()
	cold, err := ledger.NewAccount(keypair.MustRandom())
	require.NoError(t, err)
	hot, err := ledger.NewAccount(keypair.MustRandom())
	require.NoError(t, err)
	return &Wallets{Cold: cold, Hot: hot}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testnet_wallets.json")
	store := NewFileStore(path)
	assert.False(t, store.Exists())

	wallets := newWallets(t)
	require.NoError(t, store.Save(wallets))
	assert.True(t, store.Exists())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, wallets.Cold, loaded.Cold)
	assert.Equal(t, wallets.Hot, loaded.Hot)
}

func TestFileStoreSaveDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewFileStore(path)

	first := newWallets(t)
	require.NoError(t, store.Save(first))
	require.Error(t, store.Save(newWallets(t)))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, first.Cold.Address, loaded.Cold.Address)
}

func TestFileStoreLoadFromKeysOnly(t *testing.T) {
	wallets := newWallets(t)
	path := filepath.Join(t.TempDir(), "wallets.json")
	content := `{
		"cold_wallet": {"public_key": "` + wallets.Cold.PublicKey + `", "private_key": "` + wallets.Cold.PrivateKey + `"},
		"hot_wallet": {"public_key": "` + wallets.Hot.PublicKey + `", "private_key": "` + wallets.Hot.PrivateKey + `"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loaded, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, wallets.Cold.Address, loaded.Cold.Address)
	assert.Equal(t, wallets.Hot.Seed, loaded.Hot.Seed)
}

func TestFileStoreLoadErrors(t *testing.T) {
	wallets := newWallets(t)
	other := newWallets(t)

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"cold_wallet": `},
		{name: "missing hot wallet", content: `{"cold_wallet": {"seed": "` + wallets.Cold.Seed + `"}}`},
		{name: "bad seed", content: `{"cold_wallet": {"seed": "SNOTASEED"}, "hot_wallet": {"seed": "` + wallets.Hot.Seed + `"}}`},
		{
			name: "address mismatch",
			content: `{"cold_wallet": {"address": "` + other.Cold.Address + `", "seed": "` + wallets.Cold.Seed + `"},` +
				`"hot_wallet": {"seed": "` + wallets.Hot.Seed + `"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wallets.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := NewFileStore(path).Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ledger.ErrCredentialLoad))
		})
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json")).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrCredentialLoad))
}

func TestProvisionFundsAndSaves(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://friendbot.example.org/",
		httpmock.NewStringResponder(200, `{"successful": true}`))

	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewFileStore(path)
	faucet := ledger.NewFriendbot("https://friendbot.example.org/", 5*time.Second)

	wallets, err := Provision(context.Background(), store, faucet)
	require.NoError(t, err)
	assert.NotEqual(t, wallets.Cold.Address, wallets.Hot.Address)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, wallets.Cold.Address, loaded.Cold.Address)

	again, err := Provision(context.Background(), store, faucet)
	require.NoError(t, err)
	assert.Equal(t, wallets.Hot.Address, again.Hot.Address)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestProvisionFaucetFailureLeavesNoFile(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://friendbot.example.org/",
		httpmock.NewStringResponder(500, `{"detail": "friendbot is down"}`))

	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewFileStore(path)

	_, err := Provision(context.Background(), store, ledger.NewFriendbot("https://friendbot.example.org/", time.Second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "friendbot returned 500")
	assert.False(t, store.Exists())
}
