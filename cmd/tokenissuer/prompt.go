package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saif727/stellar-token-issuer/internal/ledger"
	"github.com/saif727/stellar-token-issuer/services"
)

var errNoInput = errors.New("input closed before all values were entered")

// prompter reads operator answers line by line and asks again until each answer
// validates.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask shows label and returns the validated answer. An empty answer takes def
// when def is set.
func (p *prompter) ask(label, def string, validate func(string) (string, error)) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}

		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		eof := errors.Is(err, io.EOF)

		answer := strings.TrimSpace(line)
		if answer == "" && def != "" {
			answer = def
		}
		if answer == "" && eof {
			fmt.Fprintln(p.out)
			return "", errNoInput
		}

		value, verr := validate(answer)
		if verr == nil {
			return value, nil
		}
		fmt.Fprintf(p.out, "❌ %v\n", verr)
		if eof {
			return "", errNoInput
		}
	}
}

// issuanceAnswers is everything the operator enters before an issuance run.
type issuanceAnswers struct {
	Network      string
	WalletsFile  string
	CurrencyCode string
	TotalSupply  int64
	Domain       string
}

// askIssuance collects the issuance inputs. Values in defaults are offered as the
// answer to each question.
func (p *prompter) askIssuance(defaults issuanceAnswers) (issuanceAnswers, error) {
	var (
		answers issuanceAnswers
		err     error
	)

	if answers.Network, err = p.ask("Enter network (testnet/mainnet)", defaults.Network, ledger.NormalizeNetwork); err != nil {
		return answers, err
	}

	if answers.WalletsFile, err = p.ask("Enter wallets file path", defaults.WalletsFile, required("wallets file path")); err != nil {
		return answers, err
	}

	if answers.CurrencyCode, err = p.ask("Enter currency code (e.g. USD)", defaults.CurrencyCode, ledger.NormalizeAssetCode); err != nil {
		return answers, err
	}

	supplyDefault := ""
	if defaults.TotalSupply > 0 {
		supplyDefault = services.FormatSupply(defaults.TotalSupply)
	}
	supply, err := p.ask("Enter total supply (e.g. 1000000)", supplyDefault, func(s string) (string, error) {
		v, err := services.ParseSupply(s)
		if err != nil {
			return "", err
		}
		return services.FormatSupply(v), nil
	})
	if err != nil {
		return answers, err
	}
	if answers.TotalSupply, err = services.ParseSupply(supply); err != nil {
		return answers, err
	}

	if answers.Domain, err = p.ask("Enter issuing domain (e.g. example.com)", defaults.Domain, services.ValidateDomain); err != nil {
		return answers, err
	}

	return answers, nil
}

func required(name string) func(string) (string, error) {
	return func(s string) (string, error) {
		if s == "" {
			return "", fmt.Errorf("%w: %s is required", ledger.ErrInvalidInput, name)
		}
		return s, nil
	}
}
