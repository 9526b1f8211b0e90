package submitter

import (
	"fmt"
	"strings"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
)

// Kind tags the result of a single submission attempt.
type Kind int

const (
	Confirmed Kind = iota
	Rejected
	TransientFailure
)

func (k Kind) String() string {
	switch k {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	case TransientFailure:
		return "transient_failure"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is what one attempt produced. Err is set for every kind but Confirmed.
type Outcome struct {
	Kind           Kind
	Attempt        int
	Hash           string
	Ledger         int32
	ResultCode     string
	OperationCodes []string
	Err            error
}

func (o Outcome) detail() string {
	switch {
	case o.Kind == Confirmed:
		return fmt.Sprintf("hash=%s ledger=%d", o.Hash, o.Ledger)
	case o.ResultCode != "" && len(o.OperationCodes) > 0:
		return fmt.Sprintf("%s [%s]", o.ResultCode, strings.Join(o.OperationCodes, ", "))
	case o.ResultCode != "":
		return o.ResultCode
	case o.Err != nil:
		return o.Err.Error()
	}
	return o.Kind.String()
}

// ExhaustedError is returned once every attempt ended without confirmation.
type ExhaustedError struct {
	Attempts int
	Last     Outcome
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s (%d attempts, last %s: %s)", ledger.ErrSubmissionExhausted, e.Attempts, e.Last.Kind, e.Last.detail())
}

// Is matches ledger.ErrSubmissionExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ledger.ErrSubmissionExhausted
}

// Unwrap returns the error of the last attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Last.Err
}

// classify turns a Horizon submission response into an Outcome. A problem carrying
// transaction result codes means the ledger evaluated and refused the transaction;
// any other error never reached a verdict.
func classify(resp horizon.Transaction, err error) Outcome {
	if err != nil {
		if herr := horizonclient.GetError(err); herr != nil {
			codes, codesErr := herr.ResultCodes()
			if codesErr == nil && codes != nil && codes.TransactionCode != "" {
				return Outcome{
					Kind:           Rejected,
					ResultCode:     codes.TransactionCode,
					OperationCodes: codes.OperationCodes,
					Err:            err,
				}
			}
		}
		return Outcome{Kind: TransientFailure, Err: err}
	}

	if !resp.Successful {
		return Outcome{
			Kind:       Rejected,
			Hash:       resp.Hash,
			Ledger:     resp.Ledger,
			ResultCode: "tx_failed",
			Err:        fmt.Errorf("transaction %s failed in ledger %d", resp.Hash, resp.Ledger),
		}
	}

	return Outcome{Kind: Confirmed, Hash: resp.Hash, Ledger: resp.Ledger}
}
