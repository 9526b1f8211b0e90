package submitter

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

// Submission defaults: three attempts, three seconds apart.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 3 * time.Second
	DefaultTxTimeout   = 300
)

// Config controls how a single operation is submitted.
type Config struct {
	MaxAttempts int
	RetryDelay  time.Duration
	BaseFee     int64
	// TxTimeout bounds the validity window of each signed transaction, in seconds.
	TxTimeout int64
	// StopOnRejection ends the retry loop on a ledger rejection instead of spending
	// the remaining attempts. Off by default: rejections and transient failures
	// share one retry path.
	StopOnRejection bool
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.BaseFee <= 0 {
		c.BaseFee = txnbuild.MinBaseFee
	}
	if c.TxTimeout <= 0 {
		c.TxTimeout = DefaultTxTimeout
	}
	return c
}

// Submitter signs, submits and confirms operations, retrying with a fixed delay.
// It is the only component that sends transactions to the ledger.
type Submitter struct {
	client     ledger.Client
	passphrase string
	cfg        Config
	timer      backoff.Timer
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithTimer replaces the timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(s *Submitter) {
		s.timer = t
	}
}

// New returns a Submitter signing for the network identified by passphrase.
func New(client ledger.Client, passphrase string, cfg Config, opts ...Option) *Submitter {
	s := &Submitter{
		client:     client,
		passphrase: passphrase,
		cfg:        cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs op signed by signer until the ledger confirms it or the attempt budget
// is spent. Each attempt reloads the signer's account so the sequence number is
// current. The returned Outcome is always Confirmed; every other ending is an error,
// *ExhaustedError when the attempts ran out.
func (s *Submitter) Submit(ctx context.Context, op ledger.Operation, signer ledger.Account) (*Outcome, error) {
	kp, err := signer.Keypair()
	if err != nil {
		return nil, errors.Wrap(err, "invalid signing account")
	}
	if op.Source() != kp.Address() {
		return nil, fmt.Errorf("%w: %s operation for %s cannot be signed by %s", ledger.ErrInvalidInput, op.Kind(), op.Source(), kp.Address())
	}

	log := logrus.WithFields(logrus.Fields{"operation": op.Kind(), "account": kp.Address()})

	var (
		last    Outcome
		attempt int
	)

	run := func() error {
		attempt++
		last = s.attempt(op, kp)
		last.Attempt = attempt

		switch last.Kind {
		case Confirmed:
			log.Infof("✅ Transaction successful: %s", last.detail())
			return nil
		case Rejected:
			log.Errorf("❌ Transaction failed: %s", last.detail())
			if s.cfg.StopOnRejection {
				return backoff.Permanent(last.Err)
			}
		default:
			log.Errorf("❌ Ledger error: %s", last.detail())
		}
		return last.Err
	}

	notify := func(_ error, wait time.Duration) {
		log.Warnf("Retrying transaction in %s... (%d/%d)", wait, attempt, s.cfg.MaxAttempts)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.RetryDelay), uint64(s.cfg.MaxAttempts-1)),
		ctx,
	)

	if err := backoff.RetryNotifyWithTimer(run, policy, notify, s.timer); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && last.Kind != Confirmed {
			return nil, errors.Wrapf(ctxErr, "submission of %s interrupted after %d attempts", op.Kind(), attempt)
		}
		log.Errorf("❌ Transaction failed after %d attempts.", attempt)
		return nil, &ExhaustedError{Attempts: attempt, Last: last}
	}

	return &last, nil
}

func (s *Submitter) attempt(op ledger.Operation, kp *keypair.Full) Outcome {
	account, err := s.client.AccountDetail(horizonclient.AccountRequest{AccountID: kp.Address()})
	if err != nil {
		return Outcome{Kind: TransientFailure, Err: errors.Wrap(err, "failed to fetch source account details")}
	}

	txOp, err := op.Build()
	if err != nil {
		return Outcome{Kind: TransientFailure, Err: errors.Wrap(err, "failed to build operation")}
	}

	tx, err := txnbuild.NewTransaction(
		txnbuild.TransactionParams{
			SourceAccount:        &account,
			Operations:           []txnbuild.Operation{txOp},
			BaseFee:              s.cfg.BaseFee,
			Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(s.cfg.TxTimeout)},
			IncrementSequenceNum: true,
		},
	)
	if err != nil {
		return Outcome{Kind: TransientFailure, Err: errors.Wrap(err, "failed to build transaction")}
	}

	tx, err = tx.Sign(s.passphrase, kp)
	if err != nil {
		return Outcome{Kind: TransientFailure, Err: errors.Wrap(err, "failed to sign transaction")}
	}

	return classify(s.client.SubmitTransaction(tx))
}
