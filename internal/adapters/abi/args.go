package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

var bigIntType = reflect.TypeOf(new(big.Int))

// ArgParser converts command line strings into the Go values go-ethereum
// packs for each ABI type.
//
// Supported inputs:
//   - uintN/intN: decimal or 0x-prefixed hex
//   - address: 0x-prefixed 20 byte hex
//   - bool: anything strconv.ParseBool accepts
//   - string: taken verbatim
//   - bytes/bytesN: 0x-prefixed hex, bytesN must match N exactly
//   - T[] / T[N] / tuples: a JSON array, elements follow the rules above
type ArgParser struct{}

// NewArgParser creates a new argument parser
func NewArgParser() *ArgParser {
	return &ArgParser{}
}

// ParseArgs converts raw against inputs, one string per argument
func (p *ArgParser) ParseArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	if len(inputs) != len(raw) {
		return nil, &domain.ArgumentMismatchError{
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(inputs), len(raw)),
		}
	}

	values := make([]any, len(raw))
	for i, input := range inputs {
		v, err := ParseValue(input.Type, raw[i])
		if err != nil {
			return nil, &domain.ArgumentMismatchError{
				Reason: fmt.Sprintf("argument %d (%s)", i, argumentLabel(input)),
				Err:    err,
			}
		}
		values[i] = v
	}
	return values, nil
}

// ParseValue converts a single string into a value of type t
func ParseValue(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.UintTy, abi.IntTy:
		return parseInteger(t, raw)

	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", raw)
		}
		return b, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes %q: %w", raw, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes%d %q: %w", t.Size, raw, err)
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("invalid bytes%d: got %d bytes", t.Size, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		return parseList(t, raw)

	case abi.TupleTy:
		return parseTuple(t, raw)

	default:
		return nil, fmt.Errorf("unsupported argument type %s", t.String())
	}
}

func parseInteger(t abi.Type, raw string) (any, error) {
	n, ok := parseBigInt(raw)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minimum := new(big.Int).Neg(limit)
		if n.Cmp(limit) >= 0 || n.Cmp(minimum) < 0 {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}
	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		v.SetUint(n.Uint64())
	} else {
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

func parseBigInt(raw string) (*big.Int, bool) {
	negative := strings.HasPrefix(raw, "-")
	digits := strings.TrimPrefix(raw, "-")

	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if digits == "" {
		return nil, false
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if negative {
		n.Neg(n)
	}
	return n, true
}

func parseList(t abi.Type, raw string) (any, error) {
	elems, err := splitJSONArray(raw)
	if err != nil {
		return nil, err
	}

	var v reflect.Value
	if t.T == abi.SliceTy {
		v = reflect.MakeSlice(t.GetType(), len(elems), len(elems))
	} else {
		if len(elems) != t.Size {
			return nil, fmt.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), len(elems))
		}
		v = reflect.New(t.GetType()).Elem()
	}

	for i, elem := range elems {
		parsed, err := ParseValue(*t.Elem, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		v.Index(i).Set(reflect.ValueOf(parsed))
	}
	return v.Interface(), nil
}

func parseTuple(t abi.Type, raw string) (any, error) {
	elems, err := splitJSONArray(raw)
	if err != nil {
		return nil, err
	}
	if len(elems) != len(t.TupleElems) {
		return nil, fmt.Errorf("expected %d fields for %s, got %d", len(t.TupleElems), t.String(), len(elems))
	}

	v := reflect.New(t.GetType()).Elem()
	for i, elemType := range t.TupleElems {
		parsed, err := ParseValue(*elemType, elems[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.TupleRawNames[i], err)
		}
		v.Field(i).Set(reflect.ValueOf(parsed))
	}
	return v.Interface(), nil
}

// splitJSONArray returns the elements of a JSON array as strings. String
// elements are unquoted, everything else keeps its JSON text so nested arrays
// can be parsed recursively.
func splitJSONArray(raw string) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array, got %q", raw)
	}

	elems := make([]string, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = s
			continue
		}
		elems[i] = string(item)
	}
	return elems, nil
}

func argumentLabel(arg abi.Argument) string {
	if arg.Name == "" {
		return arg.Type.String()
	}
	return arg.Type.String() + " " + arg.Name
}

// Ensure the parser implements the port
var _ usecase.ArgumentParser = (*ArgParser)(nil)
