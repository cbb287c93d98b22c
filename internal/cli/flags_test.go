package cli

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input   string
		want    *big.Int
		wantErr string
	}{
		{input: "", want: nil},
		{input: "1000", want: big.NewInt(1000)},
		{input: "0x3e8", want: big.NewInt(1000)},
		{input: "20gwei", want: big.NewInt(20_000_000_000)},
		{input: "20 gwei", want: big.NewInt(20_000_000_000)},
		{input: "5wei", want: big.NewInt(5)},
		{input: "0.5ether", want: big.NewInt(500_000_000_000_000_000)},
		{input: "1 ETH", want: big.NewInt(1_000_000_000_000_000_000)},
		{input: "1.5", wantErr: "not a whole number of wei"},
		{input: "-1", wantErr: "negative"},
		{input: "lots", wantErr: "invalid value"},
		{input: "0xzz", wantErr: "invalid value"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseValue(tt.input)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, 0, tt.want.Cmp(got), "got %s", got)
		})
	}
}

func TestTargetFlags(t *testing.T) {
	t.Run("deployment inputs", func(t *testing.T) {
		flags := targetFlags{salt: "0x01", args: []string{"42"}}
		target, err := flags.target("Counter")
		require.NoError(t, err)
		assert.Equal(t, "Counter", target.ArtifactRef)
		assert.Equal(t, "0x01", target.Salt)
		assert.Equal(t, []string{"42"}, target.ConstructorArgs)
	})

	t.Run("address excludes salt", func(t *testing.T) {
		flags := targetFlags{salt: "0x01", address: "0x4e59b44847b379578588920cA78FbF26c0B4956C"}
		_, err := flags.target("Counter")
		assert.ErrorContains(t, err, "--address cannot be combined")
	})
}
