package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT             = "8080"
	DEFAULT_WALLETS_FILE     = "testnet_wallets.json"
	DEFAULT_MAX_ATTEMPTS     = 3
	DEFAULT_RETRY_DELAY_SEC  = 3
	DEFAULT_TX_TIMEOUT_SEC   = 300
	DEFAULT_REQUEST_TIMEOUT  = 60
	DEFAULT_MINIMUM_RESERVE  = 200_000_000
	DEFAULT_ISSUER_FLAG      = "auth_revocable"
	DEFAULT_CONFIG_FILE_NAME = "issuer.json"
)

// NetworkConfig selects the ledger network and its endpoints
type NetworkConfig struct {
	Name              string `json:"name" envconfig:"NETWORK"`
	TestnetRPC        string `json:"testnet_rpc" envconfig:"TESTNET_RPC"`
	MainnetRPC        string `json:"mainnet_rpc" envconfig:"MAINNET_RPC"`
	FriendbotURL      string `json:"friendbot_url" envconfig:"FRIENDBOT_URL"`
	RequestTimeoutSec int    `json:"request_timeout_sec" envconfig:"REQUEST_TIMEOUT_SEC"`
}

// SubmissionConfig controls how each transaction is submitted and retried
type SubmissionConfig struct {
	MaxAttempts     int   `json:"max_attempts" envconfig:"SUBMIT_MAX_ATTEMPTS"`
	RetryDelaySec   int   `json:"retry_delay_sec" envconfig:"SUBMIT_RETRY_DELAY_SEC"`
	BaseFee         int64 `json:"base_fee" envconfig:"SUBMIT_BASE_FEE"`
	TxTimeoutSec    int64 `json:"tx_timeout_sec" envconfig:"SUBMIT_TX_TIMEOUT_SEC"`
	StopOnRejection bool  `json:"stop_on_rejection" envconfig:"SUBMIT_STOP_ON_REJECTION"`
}

// TokenConfig holds the account flags and reserve threshold used by an issuance
type TokenConfig struct {
	IssuerFlags      []string `json:"issuer_flags" envconfig:"ISSUER_FLAGS"`
	OperationalFlags []string `json:"operational_flags" envconfig:"OPERATIONAL_FLAGS"`
	// MinimumReserve is in stroops.
	MinimumReserve int64 `json:"minimum_reserve" envconfig:"MINIMUM_RESERVE"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Port string `json:"port" envconfig:"SERVER_PORT"`
}

// Configuration is the complete runtime configuration of the token issuer
type Configuration struct {
	Debug       bool             `json:"debug" envconfig:"DEBUG_MODE"`
	WalletsFile string           `json:"wallets_file" envconfig:"WALLETS_FILE"`
	Network     NetworkConfig    `json:"network"`
	Submission  SubmissionConfig `json:"submission"`
	Token       TokenConfig      `json:"token"`
	Server      ServerConfig     `json:"server"`
}

// RetryDelay returns the wait between submission attempts
func (cnf *Configuration) RetryDelay() time.Duration {
	return time.Duration(cnf.Submission.RetryDelaySec) * time.Second
}

// RequestTimeout returns the HTTP timeout for ledger and faucet requests
func (cnf *Configuration) RequestTimeout() time.Duration {
	return time.Duration(cnf.Network.RequestTimeoutSec) * time.Second
}

func loadConfigFromFile(file string) (*Configuration, error) {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return nil, err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// a missing .env is normal outside development
	_ = godotenv.Load()

	// override config from environment variables
	err = envconfig.Process("issuer", &cnf)
	if err != nil {
		return nil, err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return nil, err
	}

	return &cnf, nil
}

// Load reads the optional JSON config file, applies environment overrides and
// configures logging.
func Load(configFile string) (*Configuration, error) {
	cnf, err := loadConfigFromFile(configFile)
	if err != nil {
		return nil, err
	}
	logger(cnf.Debug)
	return cnf, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	cnf.WalletsFile = strings.TrimSpace(cnf.WalletsFile)
	cnf.Network.Name = strings.ToLower(strings.TrimSpace(cnf.Network.Name))
	cnf.Network.TestnetRPC = strings.TrimSpace(cnf.Network.TestnetRPC)
	cnf.Network.MainnetRPC = strings.TrimSpace(cnf.Network.MainnetRPC)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)

	if cnf.Network.Name != "" && cnf.Network.Name != "testnet" && cnf.Network.Name != "mainnet" {
		return errors.New("network must be 'testnet' or 'mainnet'")
	}

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
	}

	if cnf.WalletsFile == "" {
		cnf.WalletsFile = DEFAULT_WALLETS_FILE
	}

	if cnf.Network.RequestTimeoutSec <= 0 {
		cnf.Network.RequestTimeoutSec = DEFAULT_REQUEST_TIMEOUT
	}

	if cnf.Submission.MaxAttempts < 0 {
		return errors.New("submission max attempts cannot be negative")
	}
	if cnf.Submission.MaxAttempts == 0 {
		cnf.Submission.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}

	if cnf.Submission.RetryDelaySec <= 0 {
		cnf.Submission.RetryDelaySec = DEFAULT_RETRY_DELAY_SEC
	}

	if cnf.Submission.TxTimeoutSec <= 0 {
		cnf.Submission.TxTimeoutSec = DEFAULT_TX_TIMEOUT_SEC
	}

	if cnf.Token.MinimumReserve < 0 {
		return errors.New("minimum reserve cannot be negative")
	}
	if cnf.Token.MinimumReserve == 0 {
		cnf.Token.MinimumReserve = DEFAULT_MINIMUM_RESERVE
	}

	if cnf.Token.IssuerFlags == nil {
		cnf.Token.IssuerFlags = []string{DEFAULT_ISSUER_FLAG}
	}

	if cnf.Submission.StopOnRejection {
		log.Println("Warning: ledger rejections will not be retried")
	}

	return nil
}

var redirectStdLog sync.Once

// logger sets the logrus level and routes the standard logger through logrus. The
// redirect pipe is opened once per process.
func logger(debug bool) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	redirectStdLog.Do(func() {
		log.SetOutput(logrus.StandardLogger().Writer())
	})
}
