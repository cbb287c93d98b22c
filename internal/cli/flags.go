package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// targetFlags are the flags that identify a contract
type targetFlags struct {
	salt    string
	args    []string
	address string
}

func (f *targetFlags) register(cmd *cobra.Command, withAddress bool) {
	cmd.Flags().StringVar(&f.salt, "salt", "", "Salt as 0x-prefixed hex or decimal (defaults to zero)")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Constructor argument, repeat for each parameter")
	if withAddress {
		cmd.Flags().StringVar(&f.address, "address", "", "Use the contract at this address instead of its predicted one")
	}
}

func (f *targetFlags) target(artifactRef string) (usecase.ContractTarget, error) {
	if f.address != "" && (f.salt != "" || len(f.args) > 0) {
		return usecase.ContractTarget{}, fmt.Errorf("--address cannot be combined with --salt or --arg")
	}
	return usecase.ContractTarget{
		ArtifactRef:     artifactRef,
		ConstructorArgs: f.args,
		Salt:            f.salt,
		Address:         f.address,
	}, nil
}

// valueUnits is ordered so "gwei" matches before "wei"
var valueUnits = []struct {
	suffix string
	wei    *big.Int
}{
	{"gwei", big.NewInt(params.GWei)},
	{"ether", big.NewInt(params.Ether)},
	{"eth", big.NewInt(params.Ether)},
	{"wei", big.NewInt(params.Wei)},
}

// parseValue parses an amount of wei. Plain integers and 0x hex are wei;
// decimals need a unit suffix such as "0.5ether" or "20 gwei".
func parseValue(s string) (*big.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "0x") {
		v, err := hexutil.DecodeBig(s)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", s, err)
		}
		return v, nil
	}

	number, multiplier := s, big.NewInt(params.Wei)
	for _, unit := range valueUnits {
		if strings.HasSuffix(s, unit.suffix) {
			number, multiplier = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix)), unit.wei
			break
		}
	}

	amount, ok := new(big.Rat).SetString(number)
	if !ok {
		return nil, fmt.Errorf("invalid value %q", s)
	}
	amount.Mul(amount, new(big.Rat).SetInt(multiplier))
	if !amount.IsInt() {
		return nil, fmt.Errorf("invalid value %q: not a whole number of wei", s)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %q: negative", s)
	}
	return amount.Num(), nil
}
